package demo_assets

import (
	"embed"
)

// FS provides the embedded glyph assets referenced by the demo settings.
//
//go:embed *.txt
var FS embed.FS
