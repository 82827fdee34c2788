package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir, err := Load()
	require.NoError(t, err)

	regions := dir.Regions()
	require.NotEmpty(t, regions)
	assert.Equal(t, "Бишкек", regions[0], "region order must follow the file")

	for _, region := range regions {
		assert.True(t, dir.HasRegion(region))
		assert.NotEmpty(t, dir.CitiesFor(region), "region %s has no cities", region)
	}
}

func TestCitiesFor_UnknownRegion(t *testing.T) {
	dir, err := Load()
	require.NoError(t, err)

	cities := dir.CitiesFor("Atlantis")
	assert.NotNil(t, cities, "unknown region must yield an empty list, not nil")
	assert.Empty(t, cities)
	assert.False(t, dir.HasRegion("Atlantis"))
}

func TestHasCity(t *testing.T) {
	dir, err := Load()
	require.NoError(t, err)

	assert.True(t, dir.HasCity("Бишкек", "Центр"))
	assert.False(t, dir.HasCity("Бишкек", "Каракол"))
	assert.False(t, dir.HasCity("Atlantis", "Центр"))
}

func TestCitiesFor_ReturnsCopy(t *testing.T) {
	dir, err := Load()
	require.NoError(t, err)

	cities := dir.CitiesFor("Ош")
	require.NotEmpty(t, cities)
	cities[0] = "mutated"

	assert.NotEqual(t, "mutated", dir.CitiesFor("Ош")[0])
}
