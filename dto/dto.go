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

package dto

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/corefmt"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/sdk/reel"
)

// SpinOutcome 對外輸出的單局結果
type SpinOutcome struct {
	Round     uint64          `json:"round"`
	Stops     []int           `json:"stops"`
	Grid      [][]string      `json:"grid,omitempty"` // [row][reel] 可見盤面
	Hits      []HitDTO        `json:"hits,omitempty"`
	Stake     decimal.Decimal `json:"stake"`
	Win       decimal.Decimal `json:"win"`
	Tag       string          `json:"tag"`
	Balance   decimal.Decimal `json:"balance"`
	StartB64U string          `json:"start_b64u,omitempty"` // 抽停輪前的核心快照，回放用
}

// HitDTO 中獎線
type HitDTO struct {
	LineID   int             `json:"line"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
	SymbolID string          `json:"symbol"`
	Coords   [][2]int        `json:"coords"` // [reel,row]
	Win      decimal.Decimal `json:"win"`
}

func NewSpinOutcome(o *outcome.Outcome, grid [][]string, balance decimal.Decimal) (SpinOutcome, error) {
	if o == nil {
		return SpinOutcome{}, errs.NewWarn("outcome is nil")
	}
	dto := SpinOutcome{
		Round:     o.Round,
		Stops:     append([]int(nil), o.Stops...),
		Grid:      grid,
		Stake:     o.Stake,
		Win:       o.Win,
		Tag:       o.Tag,
		Balance:   balance,
		StartB64U: corefmt.EncodeBase64URL(o.StartSnap),
	}
	if len(o.Hits) > 0 {
		dto.Hits = make([]HitDTO, len(o.Hits))
		for i, h := range o.Hits {
			dto.Hits[i] = newHitDTO(h)
		}
	}
	return dto, nil
}

func newHitDTO(h calc.Hit) HitDTO {
	coords := make([][2]int, len(h.Coords))
	for i, c := range h.Coords {
		coords[i] = [2]int{c.Reel, c.Row}
	}
	return HitDTO{
		LineID:   h.LineID,
		Label:    h.Label,
		Count:    h.Count,
		SymbolID: h.SymbolID,
		Coords:   coords,
		Win:      h.Win,
	}
}

// SessionState 機台當下狀態快照
type SessionState struct {
	Game      string            `json:"game"`
	State     string            `json:"state"`
	Balance   decimal.Decimal   `json:"balance"`
	Stake     decimal.Decimal   `json:"stake"`
	BetIndex  int               `json:"bet_index"`
	BetLevels []decimal.Decimal `json:"bet_levels"`
	Held      bool              `json:"held"`      // 是否持有尚未演出完畢的結果
	Lifecycle uint64            `json:"lifecycle"` // 每次開始或快轉都會遞增
	Paylines  int               `json:"paylines"`
	Reels     []reel.View       `json:"reels,omitempty"`
}

// SpinResponse /v1/spin 回應
//
// Decision 為 "started"、"fast_forwarded" 或 "rejected"；
// 只有 started 會帶 Outcome（快轉沿用上一局結果）。
type SpinResponse struct {
	Decision string        `json:"decision"`
	Outcome  *SpinOutcome  `json:"outcome,omitempty"`
	State    *SessionState `json:"state"`
}

// BetResponse /v1/bet/* 回應
type BetResponse struct {
	Changed bool            `json:"changed"`
	Stake   decimal.Decimal `json:"stake"`
	Index   int             `json:"index"`
}
