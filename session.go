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

package reelspin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/looplab/fsm"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/bet"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/sdk/highlight"
	"github.com/zintix-labs/reelspin/sdk/ledger"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/sdk/reel"
	"github.com/zintix-labs/reelspin/spec"
)

// Session 狀態
const (
	StateIdle         = "idle"
	StateSpinning     = "spinning"
	StateStopping     = "stopping"
	StateHighlighting = "highlighting"
)

const (
	evSpin      = "spin"
	evStop      = "stop"
	evHighlight = "highlight"
	evSettle    = "settle"
)

// Decision 一次 RequestSpin 的處理結果
type Decision int

const (
	Rejected Decision = iota
	Started
	FastForwarded
)

func (d Decision) String() string {
	switch d {
	case Started:
		return "started"
	case FastForwarded:
		return "fast_forwarded"
	default:
		return "rejected"
	}
}

// SettleHook 每局入帳完成後呼叫，帶入結果與入帳後餘額
type SettleHook func(o outcome.Outcome, balance decimal.Decimal)

// Session 單一機台的 spin 流程編排。
//
// 狀態機：idle -spin-> spinning -stop-> stopping -highlight-> highlighting -settle-> idle
// （spinning/stopping 也可直接 settle 回 idle）。
//
// 每個排程中的後續步驟都帶著建立當下的 lifecycle；快轉會開新的 lifecycle，
// 舊 lifecycle 的計時器照常觸發但一律變成 no-op，不需要取消計時器。
//
// Session 不是並行安全的：所有呼叫（含 Tick 與排程回呼）必須在同一條邏輯執行緒上，
// 正式環境是 clock.Loop，測試是 clock.Manual。
type Session struct {
	cfg   *spec.Config
	gen   *outcome.Generator
	bet   *bet.Stepper
	reels []*reel.Reel
	hl    *highlight.Highlighter
	sched clock.Scheduler
	fsm   *fsm.FSM
	log   *slog.Logger

	stakeObs []bet.StakeObserver
	hooks    []SettleHook

	lifecycle uint64
	held      *outcome.Outcome
	last      *outcome.Outcome
}

// SessionOption Session 設定
type SessionOption func(*Session)

// WithSessionLogger 設定 logger（狀態轉移以 debug 記錄）
func WithSessionLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStakeObserver 訂閱押注變化（建立時會先收到初始押注）
func WithStakeObserver(o bet.StakeObserver) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.stakeObs = append(s.stakeObs, o)
		}
	}
}

// WithSettleHook 訂閱每局結算
func WithSettleHook(h SettleHook) SessionOption {
	return func(s *Session) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}

// NewSession 以 Generator 與排程器建立 Session；轉軸以隨機停輪位置開機
func NewSession(gen *outcome.Generator, sched clock.Scheduler, opts ...SessionOption) (*Session, error) {
	if gen == nil {
		return nil, errs.NewFatal("session: generator required")
	}
	if sched == nil {
		return nil, errs.NewFatal("session: scheduler required")
	}
	cfg := gen.Config()
	s := &Session{
		cfg:   cfg,
		gen:   gen,
		sched: sched,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}

	stepper, err := bet.New(cfg.BetLevels(), bet.StakeObserverFunc(s.notifyStake))
	if err != nil {
		return nil, err
	}
	s.bet = stepper

	stops := gen.DrawStops()
	s.reels = make([]*reel.Reel, cfg.ReelCount())
	for i := range s.reels {
		s.reels[i] = reel.New(i, cfg, stops[i])
	}
	s.hl = highlight.New(s.reels, sched, cfg.PaylineDelay(), cfg.HighlightEnabled())

	s.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: evSpin, Src: []string{StateIdle}, Dst: StateSpinning},
			{Name: evStop, Src: []string{StateSpinning}, Dst: StateStopping},
			{Name: evHighlight, Src: []string{StateStopping}, Dst: StateHighlighting},
			{Name: evSettle, Src: []string{StateSpinning, StateStopping, StateHighlighting}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.log.Debug("session state",
					slog.String("event", e.Event),
					slog.String("from", e.Src),
					slog.String("to", e.Dst),
					slog.Uint64("lifecycle", s.lifecycle),
				)
			},
		},
	)
	return s, nil
}

// RequestSpin 依目前狀態開始新的一局、快轉持有中的結果，或忽略。
func (s *Session) RequestSpin(stake decimal.Decimal) Decision {
	switch {
	case s.fsm.Is(StateIdle):
		s.start(stake)
		return Started
	case s.held != nil && (s.fsm.Is(StateSpinning) || s.fsm.Is(StateStopping)):
		s.fastForward()
		return FastForwarded
	default:
		return Rejected
	}
}

// SpinCurrent 以押注階梯目前的押注 RequestSpin
func (s *Session) SpinCurrent() Decision {
	return s.RequestSpin(s.bet.Current())
}

// Tick 推進所有轉軸 dt 個 60fps 影格
func (s *Session) Tick(dt float64) {
	for _, r := range s.reels {
		r.Tick(dt)
	}
}

// IncBet 押注往上一階；已在最高階時回傳 false
func (s *Session) IncBet() bool { return s.bet.Inc() }

// DecBet 押注往下一階；已在最低階時回傳 false
func (s *Session) DecBet() bool { return s.bet.Dec() }

func (s *Session) Stake() decimal.Decimal   { return s.bet.Current() }
func (s *Session) BetIndex() int            { return s.bet.Index() }
func (s *Session) State() string            { return s.fsm.Current() }
func (s *Session) Balance() decimal.Decimal { return s.gen.Balance() }
func (s *Session) Lifecycle() uint64        { return s.lifecycle }
func (s *Session) Reels() []*reel.Reel      { return s.reels }

// Generator 底層結果產生器（線表載入、回放）
func (s *Session) Generator() *outcome.Generator { return s.gen }

// Held 持有中、尚未演出完畢的結果
func (s *Session) Held() (outcome.Outcome, bool) {
	if s.held == nil {
		return outcome.Outcome{}, false
	}
	return *s.held, true
}

// Last 最近一次開始的局
func (s *Session) Last() (outcome.Outcome, bool) {
	if s.last == nil {
		return outcome.Outcome{}, false
	}
	return *s.last, true
}

// ObserveBalance 訂閱餘額（立即收到目前餘額）
func (s *Session) ObserveBalance(o ledger.BalanceObserver) { s.gen.Observe(o) }

// Views 所有轉軸的繪製快照
func (s *Session) Views() []reel.View {
	out := make([]reel.View, len(s.reels))
	for i, r := range s.reels {
		out[i] = r.View()
	}
	return out
}

// Snapshot 對外狀態快照
func (s *Session) Snapshot() dto.SessionState {
	return dto.SessionState{
		Game:      s.cfg.Name(),
		State:     s.State(),
		Balance:   s.Balance(),
		Stake:     s.bet.Current(),
		BetIndex:  s.bet.Index(),
		BetLevels: s.bet.Levels(),
		Held:      s.held != nil,
		Lifecycle: s.lifecycle,
		Paylines:  s.gen.PaylineCount(),
		Reels:     s.Views(),
	}
}

// ============================================================
// ** 內部流程 **
// ============================================================

func (s *Session) start(stake decimal.Decimal) {
	s.lifecycle++
	id := s.lifecycle
	s.fire(evSpin)
	s.hl.Reset()
	for _, r := range s.reels {
		r.Start()
	}

	// 扣款在這裡立即發生
	out := s.gen.Spin(stake)
	s.last = &out

	// 取得結果視為一次非同步等待，之後才算持有
	s.sched.After(0, func() {
		if id != s.lifecycle {
			return
		}
		s.held = &out
		s.sched.After(s.cfg.MaxSpin(), func() { s.onSpinElapsed(id) })
	})
}

func (s *Session) onSpinElapsed(id uint64) {
	if id != s.lifecycle || s.held == nil || !s.allSpinning() {
		return
	}
	s.fire(evStop)
	s.cascade(id, s.held, 0)
}

// cascade 由左至右停輪：第 i 軸在前一軸之後再等 i × stop_delay
func (s *Session) cascade(id uint64, out *outcome.Outcome, i int) {
	if id != s.lifecycle {
		return
	}
	if i == len(s.reels) {
		s.reveal(id, out)
		return
	}
	r := s.reels[i]
	if !r.Spinning() {
		s.cascade(id, out, i+1)
		return
	}
	s.sched.After(time.Duration(i)*s.cfg.StopDelay(), func() {
		if id != s.lifecycle {
			return
		}
		r.Stop(out.Stops[i])
		s.cascade(id, out, i+1)
	})
}

func (s *Session) fastForward() {
	out := s.held
	s.held = nil
	s.lifecycle++
	id := s.lifecycle

	for i, r := range s.reels {
		r.Stop(out.Stops[i])
	}
	if s.fsm.Is(StateSpinning) {
		s.fire(evStop)
	}
	s.log.Debug("session fast-forward", slog.Uint64("round", out.Round), slog.Uint64("lifecycle", id))
	s.sched.After(s.cfg.Settle(), func() {
		if id != s.lifecycle {
			return
		}
		s.reveal(id, out)
	})
}

func (s *Session) reveal(id uint64, out *outcome.Outcome) {
	finish := func() {
		if id != s.lifecycle {
			return
		}
		s.settle(out)
	}
	if !out.HasHits() {
		finish()
		return
	}
	s.fire(evHighlight)
	s.hl.Reveal(out.Hits, finish)
}

// settle 畫面演出結束後才入帳
func (s *Session) settle(out *outcome.Outcome) {
	balance := s.gen.CreditWin(out.Win)
	s.held = nil
	s.fire(evSettle)
	s.log.Debug("session settled",
		slog.Uint64("round", out.Round),
		slog.String("win", out.Win.String()),
		slog.String("balance", balance.String()),
	)
	for _, h := range s.hooks {
		h(*out, balance)
	}
}

func (s *Session) allSpinning() bool {
	for _, r := range s.reels {
		if !r.Spinning() {
			return false
		}
	}
	return true
}

func (s *Session) fire(ev string) {
	if err := s.fsm.Event(context.Background(), ev); err != nil {
		var noop fsm.NoTransitionError
		if errors.As(err, &noop) {
			return
		}
		s.log.Error("session transition failed", slog.String("event", ev), slog.String("state", s.fsm.Current()), slog.Any("err", err))
	}
}

func (s *Session) notifyStake(stake decimal.Decimal) {
	for _, o := range s.stakeObs {
		o.OnStake(stake)
	}
}
