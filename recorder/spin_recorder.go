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

package recorder

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/stats"
)

// CashoutMult 餘額達到初始資金的倍數即離場
const CashoutMult = 3

// SpinRecorder 遊戲紀錄員
//
// SpinRecorder 負責紀錄每局 Outcome，並透過 Done 輸出統計報表。
// 非並行安全：每個模擬 goroutine 各自持有一份，結束後以 stats.StatReport.Merge 合併。
type SpinRecorder struct {
	GameName string
	Seed     int64
	Stake    decimal.Decimal
	Lines    int
	Basic    *BasicRecord
	LineHits []int
	SymHits  map[string]int
	Collect  []int
	Player   *PlayerRecord
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet     decimal.Decimal
	TotalWin     decimal.Decimal
	WinMult      float64
	WinMultSqSum float64 // 平方和
	MaxWinMult   float64
	HitRounds    int
	Rounds       int
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	leaveLine   decimal.Decimal
	InitBalance decimal.Decimal
	Balance     decimal.Decimal
	MaxBalance  decimal.Decimal
	MinBalance  decimal.Decimal
	Bust        bool
	Cashout     bool
}

func NewSpinRecorder(name string, stake decimal.Decimal, lines int, initBalance decimal.Decimal, seed int64) (*SpinRecorder, error) {
	s := new(SpinRecorder)
	if !stake.IsPositive() {
		return s, errs.Fatalf("stake must be > 0, got: %s", stake)
	}
	if lines < 0 {
		return s, errs.Fatalf("lines must not negative integer, got: %d", lines)
	}
	if initBalance.IsNegative() {
		return s, errs.Fatalf("init balance must not negative, got: %s", initBalance)
	}
	s.GameName = name
	s.Seed = seed
	s.Stake = stake
	s.Lines = lines
	s.Basic = &BasicRecord{}
	s.LineHits = make([]int, lines)
	s.SymHits = make(map[string]int)
	s.Collect = make([]int, stats.Buckets.Len())
	s.Player = newPlayerRecord(initBalance)
	return s, nil
}

// Record 以單局 Outcome 更新基本統計（不含玩家）
func (s *SpinRecorder) Record(o *outcome.Outcome) {
	s.recordBasic(o)
	s.recordLines(o)
}

// RecordWithPlayer 在 Record 的基礎上更新玩家餘額，並回傳玩家是否離場。
// 餘額不足一注時不再記錄，直接回傳 true。
func (s *SpinRecorder) RecordWithPlayer(o *outcome.Outcome) bool {
	if s.Player.Balance.LessThan(s.Stake) {
		s.Player.Bust = true
		return true
	}
	s.Record(o)
	return s.recordPlayer(o)
}

func (s *SpinRecorder) Done() *stats.StatReport {
	stake, _ := s.Stake.Float64()
	totalBet, _ := s.Basic.TotalBet.Float64()
	totalWin, _ := s.Basic.TotalWin.Float64()
	lineHits := make([]int, len(s.LineHits))
	copy(lineHits, s.LineHits)
	symHits := make(map[string]int, len(s.SymHits))
	for k, v := range s.SymHits {
		symHits[k] = v
	}
	collect := make([]int, len(s.Collect))
	copy(collect, s.Collect)

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:   s.GameName,
			Seed:       s.Seed,
			Stake:      stake,
			Lines:      s.Lines,
			TotalBet:   totalBet,
			TotalWin:   totalWin,
			HitRounds:  s.Basic.HitRounds,
			MaxWinMult: s.Basic.MaxWinMult,
			Rounds:     s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			WinMult:      s.Basic.WinMult,
			WinMultSqSum: s.Basic.WinMultSqSum,
		},
		Lines: &stats.LineReport{
			LineHits:   lineHits,
			SymbolHits: symHits,
		},
		Dist: &stats.DistReport{
			WinBucket:  stats.Buckets.WinBucketStr(),
			WinCollect: collect,
		},
		Player: s.Player.report(),
	}
	return report
}

func (s *SpinRecorder) recordBasic(o *outcome.Outcome) {
	b := s.Basic
	b.TotalBet = b.TotalBet.Add(o.Stake)
	b.TotalWin = b.TotalWin.Add(o.Win)

	mult := 0.0
	if o.Stake.IsPositive() {
		mult, _ = o.Win.Div(o.Stake).Float64()
	}
	b.WinMult += mult
	b.WinMultSqSum += mult * mult
	b.MaxWinMult = max(b.MaxWinMult, mult)
	if o.IsWin() {
		b.HitRounds++
	}
	b.Rounds++
	s.Collect[stats.Buckets.Index(mult)]++
}

func (s *SpinRecorder) recordLines(o *outcome.Outcome) {
	for _, h := range o.Hits {
		// 線表熱更新後線數可能變多
		for len(s.LineHits) < h.LineID {
			s.LineHits = append(s.LineHits, 0)
		}
		if h.LineID > 0 {
			s.LineHits[h.LineID-1]++
		}
		s.SymHits[h.SymbolID]++
	}
}

func (s *SpinRecorder) recordPlayer(o *outcome.Outcome) bool {
	p := s.Player
	p.Balance = p.Balance.Sub(o.Stake).Add(o.Win)

	if p.Balance.GreaterThan(p.MaxBalance) {
		p.MaxBalance = p.Balance
	}
	if p.Balance.LessThan(p.MinBalance) {
		p.MinBalance = p.Balance
	}

	leave := false
	if p.Balance.LessThan(s.Stake) {
		p.Bust = true
		leave = true
	}
	if p.leaveLine.IsPositive() && p.Balance.GreaterThanOrEqual(p.leaveLine) {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newPlayerRecord(init decimal.Decimal) *PlayerRecord {
	return &PlayerRecord{
		leaveLine:   init.Mul(decimal.NewFromInt(CashoutMult)),
		InitBalance: init,
		Balance:     init,
		MaxBalance:  init,
		MinBalance:  init,
	}
}

func (p *PlayerRecord) report() *stats.PlayerReport {
	f := func(d decimal.Decimal) float64 {
		v, _ := d.Float64()
		return v
	}
	return &stats.PlayerReport{
		InitBalance: f(p.InitBalance),
		Balance:     f(p.Balance),
		MaxBalance:  f(p.MaxBalance),
		MinBalance:  f(p.MinBalance),
		Bust:        p.Bust,
	}
}
