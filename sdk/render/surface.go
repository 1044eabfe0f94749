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
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/reelspin/sdk/reel"
)

// Surface 繪製端介面
type Surface interface {
	Draw(views []reel.View) error
}

// TextSurface 以文字網格畫出可見區域，每格寬度依 runewidth 對齊；
// 高亮格以高亮框資源的字元包住，轉動中的軸以 ~ 標示。
type TextSurface struct {
	w     io.Writer
	atlas *Atlas
	rows  int
	cell  int
}

// NewTextSurface 建立文字繪製端
func NewTextSurface(w io.Writer, atlas *Atlas, rows int) *TextSurface {
	cell := runewidth.StringWidth(atlas.Highlight().Glyph)
	for _, th := range atlas.symbols {
		if n := runewidth.StringWidth(th.Glyph); n > cell {
			cell = n
		}
	}
	return &TextSurface{w: w, atlas: atlas, rows: rows, cell: cell}
}

// Draw 畫出所有軸的可見列
func (ts *TextSurface) Draw(views []reel.View) error {
	_, err := io.WriteString(ts.w, ts.Render(views))
	return err
}

// Render 回傳畫面字串
func (ts *TextSurface) Render(views []reel.View) string {
	lb, rb := frame(ts.atlas.Highlight().Glyph)
	var sb strings.Builder
	for row := 0; row < ts.rows; row++ {
		sb.WriteString("|")
		for _, v := range views {
			slot := row + reel.StopSlot
			if slot >= len(v.Slots) {
				continue
			}
			s := v.Slots[slot]
			glyph := runewidth.FillRight(ts.atlas.Glyph(s.SymbolID), ts.cell)
			l, r := " ", " "
			if s.Highlight.Visible {
				l, r = lb, rb
			}
			if v.Spinning {
				l, r = "~", "~"
			}
			sb.WriteString(l + glyph + r + "|")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// frame 把高亮框字元拆成左右兩半（例如 "[]" → "[" "]"）
func frame(glyph string) (string, string) {
	rs := []rune(glyph)
	if len(rs) >= 2 {
		return string(rs[0]), string(rs[len(rs)-1])
	}
	if len(rs) == 1 {
		return string(rs[0]), string(rs[0])
	}
	return "*", "*"
}
