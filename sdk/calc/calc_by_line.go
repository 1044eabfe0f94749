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

package calc

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/spec"
)

// Coord 盤面座標：軸與可見列（0 為最上方可見列）
type Coord struct {
	Reel int `json:"reel" yaml:"reel"`
	Row  int `json:"row"  yaml:"row"`
}

// Hit 單條線中獎紀錄
//
// Fields:
//   - LineID: 線號（1-based，依線表順序）
//   - Label: 連線數標籤，例如 "5x"
//   - Count: 連線數
//   - SymbolID: 中獎符號
//   - Coords: 由第 0 軸起連續的中獎座標
//   - Win: 本線贏分 = 符號賠付值 × 押注
type Hit struct {
	LineID   int             `json:"lineId"   yaml:"line_id"`
	Label    string          `json:"label"    yaml:"label"`
	Count    int             `json:"count"    yaml:"count"`
	SymbolID string          `json:"symbolId" yaml:"symbol_id"`
	Coords   []Coord         `json:"coords"   yaml:"coords"`
	Win      decimal.Decimal `json:"win"      yaml:"-"`
}

// LineCalculator 依線表計算中獎線。
//
// 建立後唯讀，可被多個 goroutine 同時使用。
type LineCalculator struct {
	strip    spec.Strip
	lines    []spec.Payline
	minMatch int
	values   map[string]decimal.Decimal
}

// NewLineCalculator 以執行期設定與線表建立計算器（線表可為空）
func NewLineCalculator(cfg *spec.Config, lines []spec.Payline) *LineCalculator {
	values := make(map[string]decimal.Decimal)
	for _, s := range cfg.Symbols() {
		values[s.ID] = s.Value
	}
	cp := make([]spec.Payline, len(lines))
	copy(cp, lines)
	return &LineCalculator{
		strip:    cfg.Strip(),
		lines:    cp,
		minMatch: cfg.MinMatch(),
		values:   values,
	}
}

// LineCount 線數
func (lc *LineCalculator) LineCount() int { return len(lc.lines) }

// Calc 逐線計算，回傳依線號排序的中獎列表與總贏分。
// stake 為 0 時仍回傳中獎線，但每線贏分與總贏分皆為 0。
func (lc *LineCalculator) Calc(stops []int, stake decimal.Decimal) ([]Hit, decimal.Decimal) {
	var hits []Hit
	total := decimal.Zero
	for i, line := range lc.lines {
		h, ok := EvalLine(lc.strip, line, stops, lc.minMatch)
		if !ok {
			continue
		}
		h.LineID = i + 1
		h.Win = lc.values[h.SymbolID].Mul(stake)
		total = total.Add(h.Win)
		hits = append(hits, h)
	}
	return hits, total
}

// EvalLine 計算單條線：第 i 軸的符號為 strip.At(stops[i]+line[i])，
// 從第 0 軸開始往右延伸相同符號，遇到第一個不同即停止。
// 連線數達 minMatch 才算中獎（LineID 與 Win 由呼叫端填入）。
func EvalLine(strip spec.Strip, line spec.Payline, stops []int, minMatch int) (Hit, bool) {
	n := len(line)
	if len(stops) < n {
		n = len(stops)
	}
	if n == 0 || strip.Len() == 0 {
		return Hit{}, false
	}
	first := strip.At(stops[0] + line[0])
	run := 1
	for ; run < n; run++ {
		if strip.At(stops[run]+line[run]) != first {
			break
		}
	}
	if run < minMatch {
		return Hit{}, false
	}
	coords := make([]Coord, run)
	for i := range coords {
		coords[i] = Coord{Reel: i, Row: line[i]}
	}
	return Hit{
		Label:    strconv.Itoa(run) + "x",
		Count:    run,
		SymbolID: first,
		Coords:   coords,
	}, true
}

// Grid 回傳停輪後的可見盤面 [row][reel]
func Grid(strip spec.Strip, stops []int, rows int) [][]string {
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, len(stops))
		for c, stop := range stops {
			grid[r][c] = strip.At(stop + r)
		}
	}
	return grid
}
