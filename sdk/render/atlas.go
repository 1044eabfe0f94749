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

// Package render 是繪製端的協作者：符號到貼圖的查表，以及與核心解耦的 Surface 介面。
//
// 核心狀態（reel.Slot）只帶 SymbolID，如何畫出來完全由這裡決定。
package render

import (
	"bufio"
	"bytes"
	"io/fs"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/spec"
)

// TextureHandle 一個已載入的美術資源
//
// Fields:
//   - Asset: 資源路徑
//   - Glyph: 文字介面使用的代表字（資源檔第一行，空白時用符號 id）
//   - Size: 資源位元組數
type TextureHandle struct {
	Asset string
	Glyph string
	Size  int
}

// Atlas 符號 id 到貼圖的查表
type Atlas struct {
	symbols   map[string]TextureHandle
	highlight TextureHandle
}

// NewAtlas 依設定從 assets 載入每個符號與高亮框的資源；任何一個缺檔都是 Fatal。
func NewAtlas(cfg *spec.Config, assets fs.FS) (*Atlas, error) {
	if assets == nil {
		return nil, errs.NewFatal("assets fs is nil")
	}
	a := &Atlas{symbols: make(map[string]TextureHandle)}
	for _, s := range cfg.Symbols() {
		th, err := load(assets, s.Asset, s.ID)
		if err != nil {
			return nil, err
		}
		a.symbols[s.ID] = th
	}
	hl, err := load(assets, cfg.HighlightAsset(), "#")
	if err != nil {
		return nil, err
	}
	a.highlight = hl
	return a, nil
}

func load(assets fs.FS, name string, fallback string) (TextureHandle, error) {
	data, err := fs.ReadFile(assets, name)
	if err != nil {
		e := errs.Wrap(err, "missing asset: "+name)
		e.ErrLv = errs.Fatal
		return TextureHandle{}, e
	}
	glyph := ""
	sc := bufio.NewScanner(bytes.NewReader(data))
	if sc.Scan() {
		glyph = strings.TrimSpace(sc.Text())
	}
	if glyph == "" {
		glyph = fallback
	}
	return TextureHandle{Asset: name, Glyph: glyph, Size: len(data)}, nil
}

// Lookup 依符號 id 取貼圖
func (a *Atlas) Lookup(id string) (TextureHandle, bool) {
	th, ok := a.symbols[id]
	return th, ok
}

// Glyph 依符號 id 取代表字，找不到時回傳 id 本身
func (a *Atlas) Glyph(id string) string {
	if th, ok := a.symbols[id]; ok {
		return th.Glyph
	}
	return id
}

// Highlight 高亮框資源
func (a *Atlas) Highlight() TextureHandle { return a.highlight }
