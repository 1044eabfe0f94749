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

package reel

import (
	"testing"

	"github.com/zintix-labs/reelspin/spec"
	"pgregory.net/rapid"
)

func newConfig(t testing.TB) *spec.Config {
	t.Helper()
	gs, err := spec.GetGameSettingByYAML([]byte(`
game_name: reel
reel_count: 5
row_count: 3
symbol_size: 100
reel_padding: 10
symbols:
  - { id: A, asset: a, value: 1 }
  - { id: B, asset: b, value: 1 }
  - { id: C, asset: c, value: 1 }
  - { id: D, asset: d, value: 1 }
reel_strip: [A, B, C, D, A, C, B, D, D, A, B]
highlight_asset: frame
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return gs.Config()
}

// tHelper 同時滿足 *testing.T 與 *rapid.T
type tHelper interface {
	Helper()
	Fatalf(format string, args ...any)
}

func assertSnapped(t tHelper, r *Reel, strip spec.Strip, final int) {
	t.Helper()
	for i, s := range r.Slots() {
		if s.SymbolID != strip.At(final+i-StopSlot) {
			t.Fatalf("slot %d: got %s want %s", i, s.SymbolID, strip.At(final+i-StopSlot))
		}
		if s.Y != float64(i)*100 {
			t.Fatalf("slot %d y=%v", i, s.Y)
		}
	}
}

func TestNewSnapsToInitialStop(t *testing.T) {
	cfg := newConfig(t)
	r := New(2, cfg, 4)
	if r.SlotCount() != 5 || len(r.Visible()) != 3 {
		t.Fatalf("unexpected slot counts: %d %d", r.SlotCount(), len(r.Visible()))
	}
	if r.Cursor() != 4 || r.LastStop() != 4 || r.Spinning() {
		t.Fatalf("unexpected state: cursor=%d last=%d", r.Cursor(), r.LastStop())
	}
	assertSnapped(t, r, cfg.Strip(), 4)
	if v := r.View(); v.X != 220 || v.Index != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if r.Visible()[0].SymbolID != cfg.Strip().At(4) {
		t.Fatalf("first visible row must show the stop index")
	}
}

func TestStartContinuesFromLastStop(t *testing.T) {
	cfg := newConfig(t)
	r := New(0, cfg, 7)
	r.Tick(1)
	r.Start()
	if !r.Spinning() || r.Position() != 0 || r.Cursor() != 7 {
		t.Fatalf("unexpected start state")
	}
}

func TestTickPartialScroll(t *testing.T) {
	cfg := newConfig(t)
	r := New(0, cfg, 0)
	before := r.Slots()
	r.Start()
	r.Tick(0.5) // 20 單位，不足一格
	if r.Position() != 20 || r.Blur() != 6 {
		t.Fatalf("unexpected position/blur: %v %v", r.Position(), r.Blur())
	}
	for i, s := range r.Slots() {
		if s.SymbolID != before[i].SymbolID || s.Y != float64(i)*100+20 {
			t.Fatalf("slot %d unexpected: %+v", i, s)
		}
	}
}

func TestRecyclingProperty(t *testing.T) {
	cfg := newConfig(t)
	strip := cfg.Strip()
	rapid.Check(t, func(t *rapid.T) {
		r := New(0, cfg, rapid.IntRange(-20, 20).Draw(t, "init"))
		r.Start()
		// 先隨機轉幾個完整格數
		for i := rapid.IntRange(0, 3).Draw(t, "warm"); i > 0; i-- {
			r.Tick(2.5 * float64(rapid.IntRange(0, 5).Draw(t, "w")))
		}
		k := rapid.IntRange(1, r.SlotCount()).Draw(t, "k")
		cursorBefore := r.Cursor()
		before := r.Slots()

		r.Tick(2.5 * float64(k)) // speed 40 × 2.5 = 100 = 一格

		if r.Cursor() != strip.Wrap(cursorBefore-k) {
			t.Fatalf("cursor %d want %d", r.Cursor(), strip.Wrap(cursorBefore-k))
		}
		if r.Position() != 0 {
			t.Fatalf("position must be consumed, got %v", r.Position())
		}
		after := r.Slots()
		for j := 0; j < k; j++ {
			// 第 j 個回收的 slot 最後停在 k-1-j
			if got, want := after[k-1-j].SymbolID, strip.At(cursorBefore-1-j); got != want {
				t.Fatalf("recycled %d: got %s want %s", j, got, want)
			}
		}
		for i := 0; i+k < len(after); i++ {
			if after[i+k].SymbolID != before[i].SymbolID {
				t.Fatalf("untouched slot %d shifted wrong", i)
			}
		}
		for i, s := range after {
			if s.Y != float64(i)*100 {
				t.Fatalf("slot %d y=%v", i, s.Y)
			}
		}
	})
}

func TestStopResyncsRegardlessOfHistory(t *testing.T) {
	cfg := newConfig(t)
	strip := cfg.Strip()
	rapid.Check(t, func(t *rapid.T) {
		r := New(0, cfg, 0)
		r.Start()
		for i := rapid.IntRange(0, 20).Draw(t, "ticks"); i > 0; i-- {
			r.Tick(rapid.Float64Range(0, 10).Draw(t, "dt"))
		}
		final := rapid.IntRange(-50, 50).Draw(t, "final")
		r.Stop(final)
		if r.Spinning() || r.Position() != 0 {
			t.Fatalf("reel must be stopped at position 0")
		}
		if r.LastStop() != strip.Wrap(final) || r.Cursor() != strip.Wrap(final) {
			t.Fatalf("stop index not wrapped: %d", r.LastStop())
		}
		assertSnapped(t, r, strip, final)
	})
}

func TestBlurDecaysToZero(t *testing.T) {
	cfg := newConfig(t)
	r := New(0, cfg, 0)
	r.Start()
	r.Tick(1)
	r.Stop(3)
	prev := r.Blur()
	if prev != 6 {
		t.Fatalf("expected max blur, got %v", prev)
	}
	for i := 0; i < 100 && r.Blur() > 0; i++ {
		r.Tick(1)
		if r.Blur() > prev {
			t.Fatalf("blur must not grow")
		}
		if r.Blur() != 0 && r.Blur() < 0.1*0.9 {
			t.Fatalf("blur below floor must snap to 0: %v", r.Blur())
		}
		prev = r.Blur()
	}
	if r.Blur() != 0 {
		t.Fatalf("blur should reach exactly 0, got %v", r.Blur())
	}
}

func TestHighlightSetAndReset(t *testing.T) {
	cfg := newConfig(t)
	r := New(0, cfg, 0)
	r.SetHighlight(2, Highlight{Visible: true, Tint: 0xFF0000, Alpha: 1})
	r.SetHighlight(99, Highlight{Visible: true})
	if !r.Slot(2).Highlight.Visible || r.Slot(2).Highlight.Tint != 0xFF0000 {
		t.Fatalf("highlight not applied")
	}
	r.ResetHighlights()
	for _, s := range r.Slots() {
		if s.Highlight != (Highlight{Tint: NeutralTint, Alpha: 1}) {
			t.Fatalf("unexpected highlight after reset: %+v", s.Highlight)
		}
	}
}
