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
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"pgregory.net/rapid"
)

const testYAML = `
game_name: unit
reel_count: 5
row_count: 3
symbol_size: 100
reel_padding: 4
symbols:
  - { id: A, asset: a.txt, value: 10 }
  - { id: B, asset: b.txt, value: 2.5 }
  - { id: C, asset: c.txt, value: 0 }
reel_strip: [A, B, C, A, B]
highlight_asset: frame.txt
`

func TestStripWrap(t *testing.T) {
	s := NewStrip([]string{"A", "B", "C", "A", "B"})
	cases := []struct{ in, want int }{
		{0, 0}, {4, 4}, {5, 0}, {7, 2}, {-1, 4}, {-5, 0}, {-6, 4}, {-11, 4},
	}
	for _, c := range cases {
		if got := s.Wrap(c.in); got != c.want {
			t.Fatalf("Wrap(%d)=%d want %d", c.in, got, c.want)
		}
	}
	if s.At(-1) != "B" || s.At(5) != "A" {
		t.Fatalf("unexpected At: %s %s", s.At(-1), s.At(5))
	}
	if (Strip{}).Wrap(3) != 0 {
		t.Fatalf("empty strip must wrap to 0")
	}
}

func TestStripCopiesInput(t *testing.T) {
	ids := []string{"A", "B"}
	s := NewStrip(ids)
	ids[0] = "Z"
	if s.At(0) != "A" {
		t.Fatalf("strip must not alias input slice")
	}
	out := s.IDs()
	out[1] = "Z"
	if s.At(1) != "B" {
		t.Fatalf("IDs must return a copy")
	}
}

func TestStripWrapProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "len")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i%26))
		}
		s := NewStrip(ids)
		stop := rapid.IntRange(0, n-1).Draw(t, "stop")
		off := rapid.IntRange(-3*n, 3*n).Draw(t, "offset")
		w := s.Wrap(stop + off)
		if w < 0 || w >= n {
			t.Fatalf("wrap out of range: %d", w)
		}
		if s.At(stop+off) != ids[((stop+off)%n+n)%n] {
			t.Fatalf("At mismatch for %d", stop+off)
		}
	})
}

func TestGetGameSettingByYAMLDefaults(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.MinMatch != DefaultMinMatch {
		t.Fatalf("min match default: %d", gs.MinMatch)
	}
	if gs.SlotCount != 5 {
		t.Fatalf("slot count: %d", gs.SlotCount)
	}
	if len(gs.BetLevels) != 6 || !gs.BetLevels[5].Equal(decimal.NewFromInt(100)) {
		t.Fatalf("bet levels default: %v", gs.BetLevels)
	}
	if !gs.InitBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("initial balance default: %s", gs.InitBalance)
	}
	if gs.AnimSetting.MaxSpin().Milliseconds() != DefaultMaxSpinMs {
		t.Fatalf("max spin default: %v", gs.AnimSetting.MaxSpin())
	}

	cfg := gs.Config()
	b, ok := cfg.Symbol("B")
	if !ok || !b.Value.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("symbol B lookup: %+v %v", b, ok)
	}
	if !cfg.HighlightEnabled() {
		t.Fatalf("highlight must default to enabled")
	}
	if cfg.Strip().Len() != 5 {
		t.Fatalf("strip len: %d", cfg.Strip().Len())
	}
}

func TestGetGameSettingByJSONUsesExternalNames(t *testing.T) {
	data := []byte(`{
		"gameName": "unit",
		"reelCount": 5, "rowCount": 3, "symbolSize": 100, "reelPadding": 0,
		"symbols": [{"id": "A", "asset": "a.txt", "value": 1}],
		"reelStrip": ["A", "A"],
		"highlightAsset": "frame.txt",
		"initialBalance": 0
	}`)
	gs, err := GetGameSettingByJSON(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gs.ReelCount != 5 || gs.RowCount != 3 {
		t.Fatalf("unexpected geometry: %+v", gs.ReelSetting)
	}
	if !gs.InitBalance.IsZero() {
		t.Fatalf("explicit zero balance must be kept: %s", gs.InitBalance)
	}
}

func TestGameSettingRejectsUnresolvedStripID(t *testing.T) {
	bad := strings.Replace(testYAML, "reel_strip: [A, B, C, A, B]", "reel_strip: [A, B, X]", 1)
	_, err := GetGameSettingByYAML([]byte(bad))
	if err == nil {
		t.Fatalf("expected error for unknown strip id")
	}
	if !errs.IsFatal(err) {
		t.Fatalf("expected fatal, got %v", errs.Level(err))
	}
	if !strings.Contains(err.Error(), `"X"`) {
		t.Fatalf("error should name the id: %v", err)
	}
}

func TestGameSettingValidation(t *testing.T) {
	cases := []struct {
		name string
		old  string
		new  string
	}{
		{"missing highlight", "highlight_asset: frame.txt", ""},
		{"duplicate symbol", "{ id: C, asset: c.txt, value: 0 }", "{ id: A, asset: c.txt, value: 0 }"},
		{"empty asset", "{ id: C, asset: c.txt, value: 0 }", "{ id: C, asset: '', value: 0 }"},
		{"negative value", "{ id: C, asset: c.txt, value: 0 }", "{ id: C, asset: c.txt, value: -1 }"},
		{"zero rows", "row_count: 3", "row_count: 0"},
		{"min match too large", "highlight_asset: frame.txt", "highlight_asset: frame.txt\nmin_match: 6"},
		{"bet levels not ascending", "highlight_asset: frame.txt", "highlight_asset: frame.txt\nbet_levels: [5, 1]"},
		{"blur decay out of range", "highlight_asset: frame.txt", "highlight_asset: frame.txt\nanim_setting: { blur_decay: 1.5 }"},
	}
	for _, c := range cases {
		data := strings.Replace(testYAML, c.old, c.new, 1)
		if _, err := GetGameSettingByYAML([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestConfigReturnsCopies(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := gs.Config()
	lv := cfg.BetLevels()
	lv[0] = decimal.NewFromInt(999)
	if cfg.BetLevels()[0].Equal(lv[0]) {
		t.Fatalf("bet levels must be copied")
	}
	syms := cfg.Symbols()
	syms[0].ID = "Z"
	if _, ok := cfg.Symbol("A"); !ok {
		t.Fatalf("symbols must be copied")
	}

	// 事後改動 GameSetting 不影響已建立的 Config
	if !cfg.HighlightEnabled() {
		t.Fatalf("highlight defaults to on")
	}
	*gs.AnimSetting.Highlight = false
	gs.AnimSetting.MaxSpinMs = 1
	if !cfg.HighlightEnabled() || cfg.MaxSpin() != DefaultMaxSpinMs*time.Millisecond {
		t.Fatalf("config must not share state with the game setting")
	}
	if gs.Config().HighlightEnabled() {
		t.Fatalf("new config must see the updated setting")
	}
}

func TestPaylines(t *testing.T) {
	rs := &ReelSetting{ReelCount: 5, RowCount: 3, SymbolSize: 1}
	if err := rs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	ps, err := GetPaylinesByJSON([]byte(`[[1,1,1,1,1],[0,1,2,1,0]]`), rs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps.Lines) != 2 || ps.Lines[1][2] != 2 {
		t.Fatalf("unexpected lines: %v", ps.Lines)
	}
	if _, err := GetPaylinesByYAML([]byte("- [0, 0, 0, 0]\n"), rs); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if _, err := GetPaylinesByJSON([]byte(`[[0,0,0,0,3]]`), rs); err == nil {
		t.Fatalf("expected row range error")
	}
}

func TestLoadGameSettingFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"g.yaml": {Data: []byte(testYAML)},
		"g.toml": {Data: []byte("x")},
	}
	if _, err := LoadGameSetting(fsys, "g.yaml"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := LoadGameSetting(fsys, "g.toml"); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := LoadGameSetting(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected missing file error")
	}
}
