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
	"time"

	"github.com/shopspring/decimal"
)

// Config 執行期唯讀設定。
//
// 啟動時由 GameSetting 建立一次，之後以指標傳給所有元件；
// 建立後不得再修改，所有 getter 回傳的 slice 都是複本。
type Config struct {
	name           string
	reels          ReelSetting
	anim           AnimSetting
	highlight      bool
	strip          Strip
	symbols        SymbolSetting
	minMatch       int
	highlightAsset string
	betLevels      []decimal.Decimal
	initBalance    decimal.Decimal
}

func newConfig(gs *GameSetting) *Config {
	levels := make([]decimal.Decimal, len(gs.BetLevels))
	copy(levels, gs.BetLevels)
	syms := make([]Symbol, len(gs.SymbolSetting.Symbols))
	copy(syms, gs.SymbolSetting.Symbols)
	ss := SymbolSetting{Symbols: syms}
	// 符號已在 GameSetting.init 驗證過，這裡只重建查詢表，不會失敗
	_ = ss.Init()
	anim := gs.AnimSetting
	highlight := anim.Highlight == nil || *anim.Highlight
	anim.Highlight = nil
	return &Config{
		name:           gs.GameName,
		reels:          gs.ReelSetting,
		anim:           anim,
		highlight:      highlight,
		strip:          gs.Strip,
		symbols:        ss,
		minMatch:       gs.MinMatch,
		highlightAsset: gs.HighlightAsset,
		betLevels:      levels,
		initBalance:    gs.InitBalance,
	}
}

func (c *Config) Name() string         { return c.name }
func (c *Config) ReelCount() int       { return c.reels.ReelCount }
func (c *Config) RowCount() int        { return c.reels.RowCount }
func (c *Config) SlotCount() int       { return c.reels.SlotCount }
func (c *Config) SymbolSize() float64  { return c.reels.SymbolSize }
func (c *Config) ReelPadding() float64 { return c.reels.ReelPadding }
func (c *Config) Strip() Strip         { return c.strip }
func (c *Config) MinMatch() int        { return c.minMatch }
func (c *Config) HighlightAsset() string {
	return c.highlightAsset
}
func (c *Config) InitBalance() decimal.Decimal { return c.initBalance }

// Geometry 回傳盤面幾何的複本
func (c *Config) Geometry() ReelSetting { return c.reels }

func (c *Config) SpinSpeed() float64 { return c.anim.SpinSpeed }
func (c *Config) MaxBlur() float64   { return c.anim.MaxBlur }
func (c *Config) BlurDecay() float64 { return c.anim.BlurDecay }
func (c *Config) BlurFloor() float64 { return c.anim.BlurFloor }

func (c *Config) MaxSpin() time.Duration      { return c.anim.MaxSpin() }
func (c *Config) StopDelay() time.Duration    { return c.anim.StopDelay() }
func (c *Config) Settle() time.Duration       { return c.anim.Settle() }
func (c *Config) PaylineDelay() time.Duration { return c.anim.PaylineDelay() }
func (c *Config) HighlightEnabled() bool      { return c.highlight }

// Symbol 依 id 取得符號定義
func (c *Config) Symbol(id string) (Symbol, bool) {
	return c.symbols.Lookup(id)
}

// Symbols 回傳所有符號定義（依設定檔順序）
func (c *Config) Symbols() []Symbol {
	out := make([]Symbol, len(c.symbols.Symbols))
	copy(out, c.symbols.Symbols)
	return out
}

// BetLevels 回傳押注階梯複本
func (c *Config) BetLevels() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.betLevels))
	copy(out, c.betLevels)
	return out
}
