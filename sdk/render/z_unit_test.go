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

package render

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/reel"
	"github.com/zintix-labs/reelspin/spec"
)

func newConfig(t *testing.T) *spec.Config {
	t.Helper()
	gs, err := spec.GetGameSettingByYAML([]byte(`
game_name: render
reel_count: 2
row_count: 2
symbol_size: 10
min_match: 2
symbols:
  - { id: A, asset: a.txt, value: 1 }
  - { id: B, asset: b.txt, value: 1 }
reel_strip: [A, B]
highlight_asset: frame.txt
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return gs.Config()
}

func assets() fstest.MapFS {
	return fstest.MapFS{
		"a.txt":     {Data: []byte("🍒\n")},
		"b.txt":     {Data: []byte("\n")},
		"frame.txt": {Data: []byte("[]")},
	}
}

func TestAtlasLoads(t *testing.T) {
	a, err := NewAtlas(newConfig(t), assets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Glyph("A") != "🍒" || a.Glyph("B") != "B" || a.Glyph("Z") != "Z" {
		t.Fatalf("unexpected glyphs: %s %s", a.Glyph("A"), a.Glyph("B"))
	}
	if th, ok := a.Lookup("A"); !ok || th.Asset != "a.txt" || th.Size == 0 {
		t.Fatalf("unexpected handle: %+v", th)
	}
	if a.Highlight().Glyph != "[]" {
		t.Fatalf("unexpected highlight: %+v", a.Highlight())
	}
}

func TestAtlasMissingAssetIsFatal(t *testing.T) {
	fsys := assets()
	delete(fsys, "frame.txt")
	_, err := NewAtlas(newConfig(t), fsys)
	if err == nil || !errs.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	fsys = assets()
	delete(fsys, "b.txt")
	if _, err := NewAtlas(newConfig(t), fsys); err == nil {
		t.Fatalf("expected error for missing symbol asset")
	}
}

func TestTextSurfaceAlignsAndHighlights(t *testing.T) {
	cfg := newConfig(t)
	a, err := NewAtlas(cfg, assets())
	if err != nil {
		t.Fatalf("atlas: %v", err)
	}
	r0 := reel.New(0, cfg, 0)
	r1 := reel.New(1, cfg, 1)
	r1.SetHighlight(1, reel.Highlight{Visible: true, Tint: 0xFF0000, Alpha: 1})

	var buf bytes.Buffer
	ts := NewTextSurface(&buf, a, cfg.RowCount())
	if err := ts.Draw([]reel.View{r0.View(), r1.View()}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %q", buf.String())
	}
	w := runewidth.StringWidth(lines[0])
	if runewidth.StringWidth(lines[1]) != w {
		t.Fatalf("rows not aligned: %q", lines)
	}
	// reel 1 停在 1 → 第一列是 B，且被高亮
	if !strings.Contains(lines[0], "[B ]") {
		t.Fatalf("expected highlighted B in %q", lines[0])
	}

	r0.Start()
	if out := ts.Render([]reel.View{r0.View()}); !strings.HasPrefix(out, "|~") {
		t.Fatalf("spinning reel should be marked: %q", out)
	}
}
