// Package web embeds the Mini App frontend served at /web-app.
package web

import "embed"

//go:embed index.html
var Content embed.FS
