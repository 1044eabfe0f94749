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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/zintix-labs/reelspin/stats"
	"gopkg.in/yaml.v3"
)

// buildStatReport 以每局贏分（押注 1）建立報告
func buildStatReport(wins []float64) *stats.StatReport {
	collect := make([]int, stats.Buckets.Len())
	var total, sq float64
	hits := 0
	maxMult := 0.0
	for _, w := range wins {
		collect[stats.Buckets.Index(w)]++
		total += w
		sq += w * w
		if w > 0 {
			hits++
		}
		maxMult = max(maxMult, w)
	}
	return &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:   "TestGame",
			Stake:      1,
			TotalBet:   float64(len(wins)),
			TotalWin:   total,
			HitRounds:  hits,
			MaxWinMult: maxMult,
			Rounds:     len(wins),
		},
		Mult:   &stats.MultReport{WinMult: total, WinMultSqSum: sq},
		Lines:  &stats.LineReport{LineHits: []int{hits}, SymbolHits: map[string]int{"A": hits}},
		Dist:   &stats.DistReport{WinBucket: stats.Buckets.WinBucketStr(), WinCollect: collect},
		Player: &stats.PlayerReport{InitBalance: 100, Balance: 100 - float64(len(wins)) + total},
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStatReportDone(t *testing.T) {
	r := buildStatReport([]float64{0, 0, 2, 0, 3})
	r.Done()
	if !almostEqual(r.Summary.RTP, 1.0) {
		t.Fatalf("rtp: %v", r.Summary.RTP)
	}
	if r.Summary.NoWinRounds != 3 || !almostEqual(r.Summary.HitRate, 0.4) {
		t.Fatalf("hit stats: %+v", r.Summary)
	}
	// 樣本變異數：mean 1, sq 13 → (13 - 25/5)/4 = 2
	if !almostEqual(r.Summary.Std, math.Sqrt(2)) {
		t.Fatalf("std: %v", r.Summary.Std)
	}
	if r.Summary.RtpCI.Lo > r.Summary.RTP || r.Summary.RtpCI.Hi < r.Summary.RTP {
		t.Fatalf("ci should contain rtp: %+v", r.Summary.RtpCI)
	}
	se := math.Sqrt(2) / math.Sqrt(5)
	if math.Abs(r.Summary.RtpCI.Hi-(1+1.959964*se)) > 1e-4 {
		t.Fatalf("unexpected ci hi: %v", r.Summary.RtpCI.Hi)
	}
	if !almostEqual(r.Dist.WinDist[0], 0.6) {
		t.Fatalf("dist: %v", r.Dist.WinDist)
	}
}

func TestBucketsIndex(t *testing.T) {
	cases := []struct {
		mult float64
		want string
	}{
		{0, "[0,0]"}, {0.5, "(0,1)"}, {1, "[1,2)"}, {4.99, "[2,5)"}, {200, "[100,300)"}, {1e6, "[10000,+inf)"},
	}
	labels := stats.Buckets.WinBucketStr()
	for _, c := range cases {
		if got := labels[stats.Buckets.Index(c.mult)]; got != c.want {
			t.Fatalf("Index(%v)=%s want %s", c.mult, got, c.want)
		}
	}
}

func TestMerge(t *testing.T) {
	a := buildStatReport([]float64{0, 2})
	b := buildStatReport([]float64{5, 0, 0})
	a.Merge(b)
	a.Done()
	if a.Summary.Rounds != 5 || !almostEqual(a.Summary.TotalWin, 7) || a.Summary.HitRounds != 2 {
		t.Fatalf("merge summary: %+v", a.Summary)
	}
	if a.Lines.LineHits[0] != 2 || a.Lines.SymbolHits["A"] != 2 || a.Summary.MaxWinMult != 5 {
		t.Fatalf("merge lines: %+v", a.Lines)
	}
}

func TestRenders(t *testing.T) {
	r := buildStatReport([]float64{0, 1, 10})
	var buf bytes.Buffer
	if err := r.WriteWith(&buf, stats.RenderByName("json")); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	buf.Reset()
	if err := r.WriteWith(&buf, stats.RenderByName("yaml")); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "LineHits: [") {
		t.Fatalf("expected flow style list in yaml:\n%s", buf.String())
	}
	var node yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &node); err != nil {
		t.Fatalf("yaml decode: %v", err)
	}
	buf.Reset()
	if err := r.WriteWith(&buf, stats.RenderByName("table")); err != nil {
		t.Fatalf("table: %v", err)
	}
	if !strings.Contains(buf.String(), "TestGame") || !strings.Contains(buf.String(), "Line 1") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestEstimatorPlayerExp(t *testing.T) {
	sts := []*stats.StatReport{
		buildStatReport([]float64{0, 0, 0, 0}),
		buildStatReport([]float64{0, 2, 0, 2}),
		buildStatReport([]float64{10, 0, 0, 0}),
	}
	sts[0].Player.Bust = true
	est := stats.EstimatorPlayerExp(sts)
	if est.Players != 3 {
		t.Fatalf("players: %d", est.Players)
	}
	// RTP: 0, 1, 2.5
	if !almostEqual(est.RtpStat.Mean, 3.5/3) {
		t.Fatalf("mean: %v", est.RtpStat.Mean)
	}
	if !almostEqual(est.SessionStat.Bust.Hat, 1.0/3) || !almostEqual(est.SessionStat.Ahead.Hat, 1.0/3) {
		t.Fatalf("session: %+v", est.SessionStat)
	}
	if est.RtpStat.ExpMedian.Hat != 1 {
		t.Fatalf("median: %v", est.RtpStat.ExpMedian.Hat)
	}
	var buf bytes.Buffer
	est.Out(&buf)
	if !strings.Contains(buf.String(), "Player Experience") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if empty := stats.EstimatorPlayerExp(nil); empty.Players != 0 {
		t.Fatalf("empty input")
	}
}
