package spec

import (
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
	"gopkg.in/yaml.v3"
)

// GetGameSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := yaml.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	if err := json.Unmarshal(data, gs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// LoadGameSetting 從 fs 讀取設定檔，依副檔名選擇解碼方式（.yaml/.yml/.json）
func LoadGameSetting(fsys fs.FS, name string) (*GameSetting, error) {
	if fsys == nil {
		return nil, errs.NewFatal("config fs is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "can not read game setting: "+name)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return GetGameSettingByYAML(data)
	case ".json":
		return GetGameSettingByJSON(data)
	default:
		return nil, errs.Fatalf("unsupported config extension: %s", name)
	}
}
