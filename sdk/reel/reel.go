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

// Package reel 實作單一轉軸的動畫狀態機：啟動、逐影格捲動回收、停輪對齊與模糊衰減。
//
// 每軸持有 rows+2 個 Slot（上下各一個隱藏緩衝），Slot 是純值，
// 繪製端只依 SymbolID 查表取得貼圖。
package reel

import (
	"math"

	"github.com/zintix-labs/reelspin/spec"
)

// StopSlot 停輪時對齊停輪位置的 slot（第一個可見列，位於上方緩衝之下）
const StopSlot = 1

// NeutralTint 高亮未著色時的色值
const NeutralTint uint32 = 0xFFFFFF

// Highlight 單格高亮狀態
type Highlight struct {
	Visible bool    `json:"visible"`
	Tint    uint32  `json:"tint"`
	Alpha   float64 `json:"alpha"`
}

// Slot 轉軸上的一格
type Slot struct {
	SymbolID  string    `json:"symbolId"`
	Y         float64   `json:"y"`
	Highlight Highlight `json:"highlight"`
}

// Reel 單一轉軸
type Reel struct {
	index int
	strip spec.Strip
	rows  int
	size  float64
	x     float64

	speed   float64
	maxBlur float64
	decay   float64
	floor   float64

	position float64
	cursor   int
	lastStop int
	spinning bool
	blur     float64
	slots    []Slot
}

// New 建立第 index 軸並直接對齊到 initialStop
func New(index int, cfg *spec.Config, initialStop int) *Reel {
	r := &Reel{
		index:   index,
		strip:   cfg.Strip(),
		rows:    cfg.RowCount(),
		size:    cfg.SymbolSize(),
		x:       float64(index) * (cfg.SymbolSize() + cfg.ReelPadding()),
		speed:   cfg.SpinSpeed(),
		maxBlur: cfg.MaxBlur(),
		decay:   cfg.BlurDecay(),
		floor:   cfg.BlurFloor(),
		slots:   make([]Slot, cfg.SlotCount()),
	}
	for i := range r.slots {
		r.slots[i].Highlight = Highlight{Tint: NeutralTint, Alpha: 1}
	}
	r.snap(initialStop)
	return r
}

// Start 開始轉動：捲動歸零，游標從上次停輪位置接續
func (r *Reel) Start() {
	r.spinning = true
	r.position = 0
	r.cursor = r.lastStop
}

// Tick 推進 dt 個影格。
//
// 轉動中：捲動 speed*dt，模糊拉到最大；每滿一格就把尾端 slot 移到最前面，
// 第 k 個回收的 slot 換成 strip[cursor-1-k]，一次 Tick 可回收多格。
// 停止中：模糊依 decay 衰減，低於 floor 直接歸零。
func (r *Reel) Tick(dt float64) {
	if !r.spinning {
		if r.blur > r.floor {
			r.blur *= r.decay
		} else {
			r.blur = 0
		}
		return
	}
	r.position += r.speed * dt
	r.blur = r.maxBlur

	if n := int(math.Floor(r.position / r.size)); n > 0 {
		last := len(r.slots) - 1
		for k := 0; k < n; k++ {
			s := r.slots[last]
			copy(r.slots[1:], r.slots[:last])
			s.SymbolID = r.strip.At(r.cursor - 1 - k)
			r.slots[0] = s
		}
		r.cursor = r.strip.Wrap(r.cursor - n)
		r.position -= float64(n) * r.size
	}
	for i := range r.slots {
		r.slots[i].Y = math.Round(float64(i)*r.size + r.position)
	}
}

// Stop 停輪並依 final 重新排列所有 slot，與回收歷程無關
func (r *Reel) Stop(final int) {
	r.spinning = false
	r.snap(final)
}

func (r *Reel) snap(final int) {
	final = r.strip.Wrap(final)
	r.position = 0
	r.cursor = final
	r.lastStop = final
	for i := range r.slots {
		r.slots[i].SymbolID = r.strip.At(final + i - StopSlot)
		r.slots[i].Y = float64(i) * r.size
	}
}

// SetHighlight 設定第 slot 格的高亮，超出範圍忽略
func (r *Reel) SetHighlight(slot int, h Highlight) {
	if slot < 0 || slot >= len(r.slots) {
		return
	}
	r.slots[slot].Highlight = h
}

// ResetHighlights 清除所有高亮（隱藏、中性色、不透明）
func (r *Reel) ResetHighlights() {
	for i := range r.slots {
		r.slots[i].Highlight = Highlight{Tint: NeutralTint, Alpha: 1}
	}
}

func (r *Reel) Index() int        { return r.index }
func (r *Reel) Spinning() bool    { return r.spinning }
func (r *Reel) Blur() float64     { return r.blur }
func (r *Reel) Cursor() int       { return r.cursor }
func (r *Reel) LastStop() int     { return r.lastStop }
func (r *Reel) Position() float64 { return r.position }
func (r *Reel) SlotCount() int    { return len(r.slots) }
func (r *Reel) Slot(i int) Slot   { return r.slots[i] }

// Slots 回傳所有 slot 的複本（含上下緩衝）
func (r *Reel) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)
	return out
}

// Visible 回傳可見列（去掉上下緩衝）
func (r *Reel) Visible() []Slot {
	out := make([]Slot, r.rows)
	copy(out, r.slots[StopSlot:StopSlot+r.rows])
	return out
}

// View 繪製用快照
type View struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Blur     float64 `json:"blur"`
	Spinning bool    `json:"spinning"`
	Slots    []Slot  `json:"slots"`
}

// View 回傳目前狀態的快照
func (r *Reel) View() View {
	return View{
		Index:    r.index,
		X:        r.x,
		Blur:     r.blur,
		Spinning: r.spinning,
		Slots:    r.Slots(),
	}
}
