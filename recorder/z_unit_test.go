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
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/outcome"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func makeOutcome(round uint64, stake, win float64, hits ...calc.Hit) outcome.Outcome {
	tag := outcome.TagNoWin
	if win > 0 {
		tag = outcome.TagWin
	}
	return outcome.Outcome{
		Round: round,
		Stops: []int{0, 1, 2, 3, 4},
		Hits:  hits,
		Stake: dec(stake),
		Win:   dec(win),
		Tag:   tag,
	}
}

func TestNewSpinRecorderValidation(t *testing.T) {
	if _, err := NewSpinRecorder("g", dec(0), 9, dec(100), 1); !errs.IsFatal(err) {
		t.Fatalf("expected fatal for zero stake, got %v", err)
	}
	if _, err := NewSpinRecorder("g", dec(1), -1, dec(100), 1); err == nil {
		t.Fatalf("expected error for negative lines")
	}
	if _, err := NewSpinRecorder("g", dec(1), 9, dec(-1), 1); err == nil {
		t.Fatalf("expected error for negative balance")
	}
}

func TestRecordAndDone(t *testing.T) {
	r, err := NewSpinRecorder("classic", dec(2), 3, dec(100), 7)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	hit := calc.Hit{LineID: 2, Label: "5x", Count: 5, SymbolID: "bell", Win: dec(40)}
	outs := []outcome.Outcome{
		makeOutcome(1, 2, 0),
		makeOutcome(2, 2, 40, hit),
		makeOutcome(3, 2, 0),
		makeOutcome(4, 2, 0),
	}
	for i := range outs {
		r.Record(&outs[i])
	}
	rep := r.Done()
	rep.Done()
	if rep.Summary.Rounds != 4 || rep.Summary.HitRounds != 1 {
		t.Fatalf("summary: %+v", rep.Summary)
	}
	if rep.Summary.TotalBet != 8 || rep.Summary.TotalWin != 40 || rep.Summary.RTP != 5 {
		t.Fatalf("totals: %+v", rep.Summary)
	}
	if rep.Summary.MaxWinMult != 20 || rep.Mult.WinMultSqSum != 400 {
		t.Fatalf("mult: %+v %+v", rep.Summary, rep.Mult)
	}
	if rep.Lines.LineHits[1] != 1 || rep.Lines.SymbolHits["bell"] != 1 {
		t.Fatalf("lines: %+v", rep.Lines)
	}
	// 20x 落在 [20,50)
	if rep.Dist.WinCollect[0] != 3 || rep.Dist.WinCollect[6] != 1 {
		t.Fatalf("dist: %v", rep.Dist.WinCollect)
	}
	if rep.Summary.Seed != 7 || rep.Summary.Lines != 3 {
		t.Fatalf("meta: %+v", rep.Summary)
	}
}

func TestRecordGrowsLineHits(t *testing.T) {
	r, _ := NewSpinRecorder("g", dec(1), 1, dec(10), 0)
	o := makeOutcome(1, 1, 3, calc.Hit{LineID: 4, SymbolID: "plum", Win: dec(3)})
	r.Record(&o)
	if len(r.LineHits) != 4 || r.LineHits[3] != 1 {
		t.Fatalf("line hits: %v", r.LineHits)
	}
}

func TestRecordWithPlayerBust(t *testing.T) {
	r, _ := NewSpinRecorder("g", dec(5), 1, dec(12), 0)
	o := makeOutcome(1, 5, 0)
	if r.RecordWithPlayer(&o) {
		t.Fatalf("7 left, should continue")
	}
	if !r.RecordWithPlayer(&o) {
		t.Fatalf("2 left, should bust")
	}
	if !r.Player.Bust || !r.Player.Balance.Equal(dec(2)) || !r.Player.MinBalance.Equal(dec(2)) {
		t.Fatalf("player: %+v", r.Player)
	}
	// 不足一注後不再記錄
	if !r.RecordWithPlayer(&o) || r.Basic.Rounds != 2 {
		t.Fatalf("should refuse to record, rounds=%d", r.Basic.Rounds)
	}
}

func TestRecordWithPlayerCashout(t *testing.T) {
	r, _ := NewSpinRecorder("g", dec(1), 1, dec(10), 0)
	o := makeOutcome(1, 1, 25)
	if !r.RecordWithPlayer(&o) {
		t.Fatalf("34 >= 30, should cash out")
	}
	rep := r.Done()
	if !r.Player.Cashout || rep.Player.MaxBalance != 34 || rep.Player.Bust {
		t.Fatalf("player: %+v", rep.Player)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j, err := NewJournal(&buf)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	hit := calc.Hit{LineID: 1, Label: "5x", Count: 5, SymbolID: "seven",
		Coords: []calc.Coord{{Reel: 0, Row: 1}, {Reel: 1, Row: 1}, {Reel: 2, Row: 1}, {Reel: 3, Row: 1}, {Reel: 4, Row: 1}}, Win: dec(200)}
	if err := j.Write(makeOutcome(1, 1, 0), dec(99)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Write(makeOutcome(2, 1, 200, hit), dec(298)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if j.Len() != 2 {
		t.Fatalf("len: %d", j.Len())
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := j.Write(makeOutcome(3, 1, 0), dec(1)); err == nil {
		t.Fatalf("write after close should fail")
	}

	entries, err := ReadJournal(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: %d", len(entries))
	}
	e := entries[1]
	if e.Outcome.Round != 2 || !e.Balance.Equal(dec(298)) || e.Outcome.Tag != outcome.TagWin {
		t.Fatalf("entry: %+v", e)
	}
	if len(e.Outcome.Hits) != 1 || e.Outcome.Hits[0].SymbolID != "seven" || len(e.Outcome.Hits[0].Coords) != 5 {
		t.Fatalf("hits: %+v", e.Outcome.Hits)
	}
	if !e.Outcome.Hits[0].Win.Equal(dec(200)) {
		t.Fatalf("hit win: %s", e.Outcome.Hits[0].Win)
	}
}

func TestReadJournalCorrupt(t *testing.T) {
	if _, err := ReadJournal(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Fatalf("expected error")
	}
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write([]byte) (int, error) {
	w.calls++
	return 0, errors.New("disk full")
}

func TestJournalErrorIsSticky(t *testing.T) {
	w := &failingWriter{}
	j, err := NewJournal(w)
	if err != nil {
		t.Fatalf("new journal: %v", err)
	}
	if err := j.Write(makeOutcome(1, 1, 0), dec(99)); err != nil {
		t.Fatalf("first write is buffered: %v", err)
	}
	ferr := j.Flush()
	if ferr == nil {
		t.Fatalf("flush must report the writer error")
	}
	if j.Err() != ferr {
		t.Fatalf("Err must return the first error")
	}
	if err := j.Write(makeOutcome(2, 1, 0), dec(98)); err != ferr {
		t.Fatalf("write after failure: %v", err)
	}
	if j.Len() != 1 {
		t.Fatalf("failed write must not count: %d", j.Len())
	}
	if err := j.Close(); err != ferr {
		t.Fatalf("close must return the first error, got %v", err)
	}
	if w.calls == 0 {
		t.Fatalf("writer never called")
	}
}
