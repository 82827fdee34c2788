package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowermarket/internal/directory"
	"flowermarket/internal/models"
)

func loadDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	dir, err := directory.Load()
	require.NoError(t, err)
	return dir
}

func TestValidPrice(t *testing.T) {
	testCases := []struct {
		name  string
		price string
		valid bool
	}{
		{name: "plain number", price: "1500", valid: true},
		{name: "range", price: "1000-1500", valid: true},
		{name: "negotiable sentinel", price: "Negotiable", valid: true},
		{name: "empty", price: "", valid: false},
		{name: "letters", price: "abc", valid: false},
		{name: "number with currency", price: "1500 som", valid: false},
		{name: "lowercase negotiable is not the sentinel", price: "negotiable", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidPrice(tc.price))
		})
	}
}

func TestValidContact(t *testing.T) {
	testCases := []struct {
		name   string
		method models.ContactMethod
		value  string
		valid  bool
	}{
		{name: "telegram with at sign", method: models.ContactTelegram, value: "@abc12", valid: true},
		{name: "telegram without at sign", method: models.ContactTelegram, value: "florist_1", valid: true},
		{name: "telegram too short", method: models.ContactTelegram, value: "abcd", valid: false},
		{name: "telegram with spaces", method: models.ContactTelegram, value: "my handle", valid: false},
		{name: "telegram empty", method: models.ContactTelegram, value: "", valid: false},
		{name: "phone local format", method: models.ContactPhone, value: "+996700123456", valid: true},
		{name: "phone with surrounding spaces", method: models.ContactPhone, value: " +996700123456 ", valid: true},
		{name: "phone missing country code", method: models.ContactPhone, value: "0700123456", valid: false},
		{name: "phone too short", method: models.ContactPhone, value: "+99670012345", valid: false},
		{name: "none needs no value", method: models.ContactNone, value: "", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidContact(tc.method, tc.value))
		})
	}
}

func TestValidDescription(t *testing.T) {
	assert.True(t, ValidDescription("Red roses"))
	assert.True(t, ValidDescription("  abc  "))
	assert.False(t, ValidDescription("ab"))
	assert.False(t, ValidDescription("   "))
	assert.False(t, ValidDescription(""))
}

func TestValidate_PerStep(t *testing.T) {
	dir := loadDirectory(t)

	valid := models.NewAdDraft()
	valid.Media = []models.MediaItem{{ID: "1", Name: "rose.jpg", Kind: models.MediaPhoto}}
	valid.Description = "Fresh red roses"
	valid.Price = "1500"
	valid.ContactMethod = models.ContactTelegram
	valid.ContactValue = "@florist1"
	valid.Location.Region = "Бишкек"
	valid.Location.City = "Центр"

	for step := StepMedia; step <= StepPreview; step++ {
		assert.Nil(t, Validate(step, valid, dir), "step %s should validate", step)
	}

	t.Run("empty media blocks step 1", func(t *testing.T) {
		d := *valid
		d.Media = nil
		verr := Validate(StepMedia, &d, dir)
		require.NotNil(t, verr)
		assert.Equal(t, StepMedia, verr.Step)
		assert.Equal(t, "media", verr.Field)
	})

	t.Run("short description blocks step 2", func(t *testing.T) {
		d := *valid
		d.Description = "ab"
		verr := Validate(StepDescription, &d, dir)
		require.NotNil(t, verr)
		assert.Equal(t, "description", verr.Field)
	})

	t.Run("city outside known region blocks step 5", func(t *testing.T) {
		d := *valid
		d.Location.City = "Каракол"
		verr := Validate(StepLocation, &d, dir)
		require.NotNil(t, verr)
		assert.Equal(t, "city", verr.Field)
	})

	t.Run("free-typed city passes for unknown region", func(t *testing.T) {
		d := *valid
		d.Location.Region = "Somewhere Else"
		d.Location.City = "Anytown"
		assert.Nil(t, Validate(StepLocation, &d, dir))
	})

	t.Run("preview step never blocks", func(t *testing.T) {
		d := models.NewAdDraft()
		assert.Nil(t, Validate(StepPreview, d, dir))
	})
}
