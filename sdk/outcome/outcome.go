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

package outcome

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/sdk/calc"
)

const (
	TagWin   = "Win"
	TagNoWin = "NoWin"
)

// Outcome 一次 spin 的權威結果，產生後不再修改
//
// Fields:
//   - Stops: 每軸停輪位置（對齊第一個可見列）
//   - Hits: 中獎線，依線號排序
//   - Stake: 本次押注
//   - Win: 總贏分
//   - Tag: "Win" 或 "NoWin"
//   - StartSnap: 抽停輪前的亂數核心快照，可交給 Generator.Replay 重現本局
type Outcome struct {
	Round uint64          `json:"round"`
	Stops []int           `json:"stops"`
	Hits  []calc.Hit      `json:"hits"`
	Stake decimal.Decimal `json:"stake"`
	Win   decimal.Decimal `json:"win"`
	Tag   string          `json:"tag"`

	StartSnap []byte `json:"start,omitempty"`
}

// HasHits 是否有中獎線
func (o Outcome) HasHits() bool { return len(o.Hits) > 0 }

// IsWin 總贏分是否大於 0
func (o Outcome) IsWin() bool { return o.Win.IsPositive() }

func newOutcome(round uint64, stops []int, hits []calc.Hit, stake, win decimal.Decimal, snap []byte) Outcome {
	tag := TagNoWin
	if win.IsPositive() {
		tag = TagWin
	}
	return Outcome{
		Round: round,
		Stops: stops,
		Hits:  hits,
		Stake: stake,
		Win:   win,
		Tag:   tag,

		StartSnap: snap,
	}
}
