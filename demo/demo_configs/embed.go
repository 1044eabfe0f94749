package demo_configs

import (
	"embed"
)

// FS provides embedded default game settings and payline tables.
//
//go:embed *.yaml *.json
var FS embed.FS

const (
	// GameFile 預設機台設定檔
	GameFile = "classic.yaml"
	// PaylineFile 預設線表
	PaylineFile = "paylines.json"
)
