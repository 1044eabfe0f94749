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

package highlight

import (
	"time"

	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/sdk/reel"
)

// Palette 線色表，以線號對長度取餘選色
var Palette = [...]uint32{
	0xFF0000,
	0x00FF00,
	0x0000FF,
	0xFFFF00,
	0x00FFFF,
	0xFF00FF,
	0xFF8800,
	0x8800FF,
	0x00FF88,
}

// ColorFor 回傳線號對應的顏色
func ColorFor(lineID int) uint32 {
	i := lineID % len(Palette)
	if i < 0 {
		return reel.NeutralTint
	}
	return Palette[i]
}

// Highlighter 依序點亮中獎線。
//
// 每條線點亮後等待 delay 才處理下一條，先前點亮的線保持顯示；
// 全部處理完後呼叫 done。所有回呼都走 Scheduler，與轉軸在同一條邏輯執行緒上。
type Highlighter struct {
	reels   []*reel.Reel
	sched   clock.Scheduler
	delay   time.Duration
	enabled bool

	gen    uint64
	active bool
}

// New 建立 Highlighter；enabled 為 false 時 Reveal 只清除高亮並立即完成
func New(reels []*reel.Reel, sched clock.Scheduler, delay time.Duration, enabled bool) *Highlighter {
	return &Highlighter{
		reels:   reels,
		sched:   sched,
		delay:   delay,
		enabled: enabled,
	}
}

// Reset 隱藏所有高亮，並讓進行中的 Reveal 失效（其 done 不會再被呼叫）。可重複呼叫。
func (h *Highlighter) Reset() {
	h.gen++
	h.active = false
	for _, r := range h.reels {
		r.ResetHighlights()
	}
}

// Active 是否正在逐線顯示
func (h *Highlighter) Active() bool { return h.active }

// Reveal 逐條顯示 hits，總時長 = delay × len(hits)
func (h *Highlighter) Reveal(hits []calc.Hit, done func()) {
	h.Reset()
	if !h.enabled || len(hits) == 0 {
		if done != nil {
			done()
		}
		return
	}
	gen := h.gen
	h.active = true

	var step func(i int)
	step = func(i int) {
		if gen != h.gen {
			return
		}
		if i == len(hits) {
			h.active = false
			if done != nil {
				done()
			}
			return
		}
		h.paint(hits[i])
		h.sched.After(h.delay, func() { step(i + 1) })
	}
	step(0)
}

func (h *Highlighter) paint(hit calc.Hit) {
	mark := reel.Highlight{Visible: true, Tint: ColorFor(hit.LineID), Alpha: 1}
	for _, c := range hit.Coords {
		if c.Reel < 0 || c.Reel >= len(h.reels) {
			continue
		}
		// 可見列 row 對應 slot row+1（上方有一格隱藏緩衝）
		h.reels[c.Reel].SetHighlight(c.Row+reel.StopSlot, mark)
	}
}
