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

package clock

import (
	"container/heap"
	"time"
)

// Manual 虛擬時間排程器。
//
// 回呼只會在 Advance 裡、於呼叫端的 goroutine 上執行，
// 依 (到期時間, 排入順序) 排序；Advance 期間新排入且在目標時間內到期的回呼也會一併執行。
// 非 goroutine-safe。
type Manual struct {
	now time.Duration
	seq uint64
	q   timerQueue
}

// NewManual 建立從時間 0 開始的虛擬時鐘
func NewManual() *Manual {
	return &Manual{}
}

// After 排入回呼，負數延遲視為 0
func (m *Manual) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	m.seq++
	heap.Push(&m.q, &timer{at: m.now + d, seq: m.seq, fn: fn})
}

// Advance 前進 d 並執行所有到期回呼，回傳執行數量
func (m *Manual) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := m.now + d
	n := 0
	for m.q.Len() > 0 && m.q[0].at <= target {
		t := heap.Pop(&m.q).(*timer)
		m.now = t.at
		t.fn()
		n++
	}
	m.now = target
	return n
}

// Flush 執行所有已到期（延遲 0）的回呼，時間不前進
func (m *Manual) Flush() int {
	return m.Advance(0)
}

// Next 回傳下一個回呼的到期時間
func (m *Manual) Next() (time.Duration, bool) {
	if m.q.Len() == 0 {
		return 0, false
	}
	return m.q[0].at, true
}

// RunAll 不斷前進到下一個到期點直到佇列清空，limit 為最多執行數量（防止自我重排的無窮迴圈）
func (m *Manual) RunAll(limit int) int {
	n := 0
	for n < limit {
		at, ok := m.Next()
		if !ok {
			break
		}
		n += m.Advance(at - m.now)
	}
	return n
}

// Now 目前虛擬時間（自建立起算）
func (m *Manual) Now() time.Duration { return m.now }

// Pending 尚未執行的回呼數量
func (m *Manual) Pending() int { return m.q.Len() }

type timer struct {
	at  time.Duration
	seq uint64
	fn  func()
}

type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*timer)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}
