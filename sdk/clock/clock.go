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

// Package clock 提供排程延遲的兩種實作：
// 測試用的虛擬時間 Manual，以及正式運行的單執行緒事件迴圈 Loop。
//
// 所有延遲回呼都在同一條邏輯執行緒上執行，呼叫端因此不需要加鎖。
package clock

import "time"

// Scheduler 在 d 之後執行 fn。計時器一旦排入就不會被取消，
// 過期的回呼要自行判斷是否還有效。
type Scheduler interface {
	After(d time.Duration, fn func())
}

// SchedulerFunc 讓一般函式滿足 Scheduler
type SchedulerFunc func(d time.Duration, fn func())

func (f SchedulerFunc) After(d time.Duration, fn func()) { f(d, fn) }

// FPS 影格單位：Tick 的 dt 以 1/60 秒為 1
const FPS = 60

// FrameUnits 將實際經過時間換算成影格單位
func FrameUnits(d time.Duration) float64 {
	return d.Seconds() * FPS
}
