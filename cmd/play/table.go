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

package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/sdk/bet"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/sdk/render"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	clearScreen = "\033[H\033[2J"
	drawEvery   = 6
	helpText    = "[Enter] spin / fast-forward   [+] [-] bet   [b] balance   [q] quit\n"
)

// table 一台在終端機上玩的機台；所有方法都在排程器的執行緒上呼叫
type table struct {
	sess   *reelspin.Session
	surf   *render.TextSurface
	w      io.Writer
	p      *message.Printer
	anim   bool
	frames int
}

func newTable(ctx context.Context, rs *reelspin.Reelspin, sched clock.Scheduler, w io.Writer, anim bool) (*table, <-chan error, error) {
	atlas, err := rs.NewAtlas()
	if err != nil {
		return nil, nil, err
	}
	t := &table{
		surf: render.NewTextSurface(w, atlas, rs.Config().RowCount()),
		w:    w,
		p:    message.NewPrinter(language.English),
		anim: anim,
	}
	sess, loaded, err := rs.NewSession(ctx, sched,
		reelspin.WithSettleHook(t.onSettle),
		reelspin.WithStakeObserver(bet.StakeObserverFunc(t.onStake)),
	)
	if err != nil {
		return nil, nil, err
	}
	t.sess = sess
	return t, loaded, nil
}

// handle 處理一行輸入，回傳 true 表示離開
func (t *table) handle(line string) bool {
	switch strings.TrimSpace(line) {
	case "", "s":
		d := t.sess.SpinCurrent()
		if d == reelspin.Rejected {
			t.p.Fprintf(t.w, "busy (%s)\n", t.sess.State())
		}
	case "+":
		if !t.sess.IncBet() {
			t.p.Fprintf(t.w, "max bet\n")
		}
	case "-":
		if !t.sess.DecBet() {
			t.p.Fprintf(t.w, "min bet\n")
		}
	case "b":
		t.p.Fprintf(t.w, "balance: %s  stake: %s\n", t.sess.Balance(), t.sess.Stake())
	case "q":
		return true
	default:
		io.WriteString(t.w, helpText)
	}
	return false
}

// onFrame 推進動畫，轉動中每 drawEvery 影格重畫一次
func (t *table) onFrame(dt float64) {
	t.sess.Tick(dt)
	if !t.anim || t.sess.State() == reelspin.StateIdle {
		t.frames = 0
		return
	}
	t.frames++
	if t.frames%drawEvery == 0 {
		t.draw()
	}
}

func (t *table) draw() {
	if t.anim {
		io.WriteString(t.w, clearScreen)
	}
	if err := t.surf.Draw(t.sess.Views()); err != nil {
		slog.Default().Warn("draw failed", slog.Any("err", err))
	}
}

func (t *table) onSettle(o outcome.Outcome, balance decimal.Decimal) {
	t.draw()
	if o.IsWin() {
		t.p.Fprintf(t.w, "#%d WIN %s on %d line(s)  balance: %s\n", o.Round, o.Win, len(o.Hits), balance)
		return
	}
	t.p.Fprintf(t.w, "#%d no win  balance: %s\n", o.Round, balance)
}

func (t *table) onStake(stake decimal.Decimal) {
	t.p.Fprintf(t.w, "stake: %s\n", stake)
}
