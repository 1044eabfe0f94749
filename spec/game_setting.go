// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spec

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
)

const (
	DefaultMinMatch       = 5
	DefaultInitialBalance = 1000.0
)

// DefaultBetLevels 預設押注階梯
var DefaultBetLevels = []float64{1, 5, 10, 25, 50, 100}

// GameSetting 包含啟動一台機台所需的所有設定（啟動時讀一次）。
//
// 盤面幾何欄位以 inline 方式攤平在最外層，與前端使用的格式一致：
//
//	{ reelCount, rowCount, symbolSize, reelPadding, symbols: [{id, asset, value}], reelStrip: [id...] }
type GameSetting struct {
	GameName       string      `yaml:"game_name"       json:"gameName"`
	ReelSetting    `yaml:",inline"`
	Symbols        []Symbol    `yaml:"symbols"         json:"symbols"`
	ReelStrip      []string    `yaml:"reel_strip"      json:"reelStrip"`
	MinMatch       int         `yaml:"min_match"       json:"minMatch"`
	HighlightAsset string      `yaml:"highlight_asset" json:"highlightAsset"`
	BetLevelsRaw   []float64   `yaml:"bet_levels"      json:"betLevels"`
	InitBalanceRaw *float64    `yaml:"initial_balance" json:"initialBalance"`
	AnimSetting    AnimSetting `yaml:"anim_setting"    json:"animSetting"`

	SymbolSetting SymbolSetting     `yaml:"-" json:"-"`
	Strip         Strip             `yaml:"-" json:"-"`
	BetLevels     []decimal.Decimal `yaml:"-" json:"-"`
	InitBalance   decimal.Decimal   `yaml:"-" json:"-"`
}

// init 初始化各子設定、套用預設值並檢查一致性
func (gs *GameSetting) init() error {
	if err := gs.ReelSetting.Init(); err != nil {
		return err
	}
	gs.SymbolSetting = SymbolSetting{Symbols: gs.Symbols}
	if err := gs.SymbolSetting.Init(); err != nil {
		return err
	}
	gs.Symbols = gs.SymbolSetting.Symbols
	if err := gs.AnimSetting.Init(); err != nil {
		return err
	}

	if gs.MinMatch == 0 {
		gs.MinMatch = DefaultMinMatch
	}
	if len(gs.BetLevelsRaw) == 0 {
		gs.BetLevelsRaw = append([]float64(nil), DefaultBetLevels...)
	}
	gs.BetLevels = make([]decimal.Decimal, len(gs.BetLevelsRaw))
	for i, v := range gs.BetLevelsRaw {
		gs.BetLevels[i] = decimal.NewFromFloat(v)
	}
	if gs.InitBalanceRaw == nil {
		gs.InitBalance = decimal.NewFromFloat(DefaultInitialBalance)
	} else {
		gs.InitBalance = decimal.NewFromFloat(*gs.InitBalanceRaw)
	}
	gs.Strip = NewStrip(gs.ReelStrip)

	return gs.valid()
}

// valid 執行設定一致性檢查；任何一項失敗都屬於 Fatal（設定本身不一致）。
func (gs *GameSetting) valid() error {
	if strings.TrimSpace(gs.GameName) == "" {
		return errs.NewFatal("game_name is required")
	}
	if gs.Strip.Len() == 0 {
		return errs.Fatalf("game_name: %s err: empty reel_strip", gs.GameName)
	}
	// 輪帶上的每個 id 都必須有定義，不能拖到 spin 時才發現
	for i, id := range gs.ReelStrip {
		if _, ok := gs.SymbolSetting.Lookup(id); !ok {
			return errs.Fatalf("game_name: %s err: reel_strip[%d]=%q has no symbol definition", gs.GameName, i, id)
		}
	}
	if strings.TrimSpace(gs.HighlightAsset) == "" {
		return errs.Fatalf("game_name: %s err: highlight_asset is required", gs.GameName)
	}
	if gs.MinMatch < 1 || gs.MinMatch > gs.ReelCount {
		return errs.Fatalf("game_name: %s err: min_match %d out of [1,%d]", gs.GameName, gs.MinMatch, gs.ReelCount)
	}
	for i, lv := range gs.BetLevels {
		if !lv.IsPositive() {
			return errs.Fatalf("game_name: %s err: bet level %s must be > 0", gs.GameName, lv)
		}
		if i > 0 && !lv.GreaterThan(gs.BetLevels[i-1]) {
			return errs.Fatalf("game_name: %s err: bet levels must be strictly ascending", gs.GameName)
		}
	}
	return nil
}

// Config 產生不可變的執行期設定
func (gs *GameSetting) Config() *Config {
	return newConfig(gs)
}
