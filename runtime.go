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
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

// Runtime 讓 Session 在 clock.Loop 上運行，並提供給 HTTP 等外部呼叫端使用。
//
// Session 只在 loop goroutine 上被碰觸；Runtime 的方法會透過 Loop.Call 排入 loop 並等待結果。
// Loop 本身需由呼叫端啟動（通常註冊成 app.Component）。
type Runtime struct {
	rs      *Reelspin
	loop    *clock.Loop
	sess    *Session
	journal *recorder.Journal
	loaded  <-chan error

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// RuntimeOption Runtime 設定
type RuntimeOption func(*runtimeOpts)

type runtimeOpts struct {
	journal  *recorder.Journal
	sessOpts []SessionOption
	loopOpts []clock.LoopOption
}

// WithJournal 每局結算後寫入 journal
func WithJournal(j *recorder.Journal) RuntimeOption {
	return func(o *runtimeOpts) { o.journal = j }
}

// WithSessionOptions 額外的 Session 設定
func WithSessionOptions(opts ...SessionOption) RuntimeOption {
	return func(o *runtimeOpts) { o.sessOpts = append(o.sessOpts, opts...) }
}

// WithLoopOptions 額外的 Loop 設定
func WithLoopOptions(opts ...clock.LoopOption) RuntimeOption {
	return func(o *runtimeOpts) { o.loopOpts = append(o.loopOpts, opts...) }
}

// NewRuntime 建立 Loop 與綁在其上的 Session，並開始背景載入線表
func (r *Reelspin) NewRuntime(ctx context.Context, opts ...RuntimeOption) (*Runtime, error) {
	o := &runtimeOpts{}
	for _, fn := range opts {
		fn(o)
	}
	loopOpts := append([]clock.LoopOption{clock.WithLoopLogger(r.log)}, o.loopOpts...)
	loop := clock.NewLoop(loopOpts...)

	rt := &Runtime{
		rs:      r,
		loop:    loop,
		journal: o.journal,
		done:    make(chan struct{}),
	}
	sessOpts := append([]SessionOption{WithSettleHook(rt.onSettle)}, o.sessOpts...)
	sess, loaded, err := r.NewSession(ctx, loop, sessOpts...)
	if err != nil {
		return nil, err
	}
	rt.sess = sess
	rt.loaded = loaded
	loop.OnFrame(sess.Tick)
	return rt, nil
}

// Loop 回傳驅動 Session 的事件迴圈
func (rt *Runtime) Loop() *clock.Loop { return rt.loop }

// Setting 遊戲設定（唯讀）
func (rt *Runtime) Setting() *spec.GameSetting { return rt.rs.Setting() }

// Loaded 線表載入結果
func (rt *Runtime) Loaded() <-chan error { return rt.loaded }

// Spin 請求一局；stake 為 nil 時使用目前押注階梯
func (rt *Runtime) Spin(ctx context.Context, req *dto.SpinRequest) (dto.SpinResponse, error) {
	if err := rt.check(ctx); err != nil {
		return dto.SpinResponse{}, err
	}
	var resp dto.SpinResponse
	var verr error
	err := rt.loop.Call(ctx, func() {
		stake := rt.sess.Stake()
		if req != nil && req.Stake != nil {
			if !rt.validStake(*req.Stake) {
				verr = errs.Warnf("stake %s is not a configured bet level", req.Stake)
				return
			}
			stake = *req.Stake
		}
		d := rt.sess.RequestSpin(stake)
		resp.Decision = d.String()
		if d == Started {
			if o, ok := rt.sess.Last(); ok {
				out, err := dto.NewSpinOutcome(&o, rt.sess.Generator().Grid(o.Stops), rt.sess.Balance())
				if err != nil {
					verr = err
					return
				}
				resp.Outcome = &out
			}
		}
		st := rt.sess.Snapshot()
		resp.State = &st
	})
	if err != nil {
		return dto.SpinResponse{}, err
	}
	if verr != nil {
		return dto.SpinResponse{}, verr
	}
	return resp, nil
}

// IncBet 押注往上一階
func (rt *Runtime) IncBet(ctx context.Context) (dto.BetResponse, error) {
	return rt.stepBet(ctx, func() bool { return rt.sess.IncBet() })
}

// DecBet 押注往下一階
func (rt *Runtime) DecBet(ctx context.Context) (dto.BetResponse, error) {
	return rt.stepBet(ctx, func() bool { return rt.sess.DecBet() })
}

func (rt *Runtime) stepBet(ctx context.Context, step func() bool) (dto.BetResponse, error) {
	if err := rt.check(ctx); err != nil {
		return dto.BetResponse{}, err
	}
	var resp dto.BetResponse
	err := rt.loop.Call(ctx, func() {
		resp.Changed = step()
		resp.Stake = rt.sess.Stake()
		resp.Index = rt.sess.BetIndex()
	})
	return resp, err
}

// State 目前狀態快照
func (rt *Runtime) State(ctx context.Context) (dto.SessionState, error) {
	if err := rt.check(ctx); err != nil {
		return dto.SessionState{}, err
	}
	var st dto.SessionState
	err := rt.loop.Call(ctx, func() { st = rt.sess.Snapshot() })
	return st, err
}

// Replay 以核心快照重現一局，不影響帳本
func (rt *Runtime) Replay(ctx context.Context, req *dto.ReplayRequest) (dto.SpinOutcome, error) {
	if err := rt.check(ctx); err != nil {
		return dto.SpinOutcome{}, err
	}
	if req == nil {
		return dto.SpinOutcome{}, errs.NewWarn("nil replay request")
	}
	var (
		o       outcome.Outcome
		balance decimal.Decimal
		rerr    error
	)
	err := rt.loop.Call(ctx, func() {
		g := rt.sess.Generator()
		o, rerr = g.Replay(req.Start, req.Stake)
		balance = g.Balance()
	})
	if err != nil {
		return dto.SpinOutcome{}, err
	}
	if rerr != nil {
		return dto.SpinOutcome{}, rerr
	}
	return dto.NewSpinOutcome(&o, rt.sess.Generator().Grid(o.Stops), balance)
}

// SimResult /v1/sim 的結果；Players 為 0 時 Est 為 nil
type SimResult struct {
	Report *stats.StatReport
	Est    *stats.EstimatorPlayers
}

// Sim 以獨立的 Simulator 執行模擬，不經過 loop，也不影響 Session 帳本
func (rt *Runtime) Sim(ctx context.Context, req *dto.SimRequest) (SimResult, error) {
	if err := rt.check(ctx); err != nil {
		return SimResult{}, err
	}
	if req == nil {
		return SimResult{}, errs.NewWarn("nil sim request")
	}
	sim, err := rt.rs.NewSimulator(ctx, req.Seed)
	if err != nil {
		return SimResult{}, err
	}
	stake := rt.rs.Config().BetLevels()[0]
	if req.Stake != nil {
		stake = *req.Stake
	}
	if req.Players > 0 {
		rep, est, _, err := sim.SimPlayers(req.Workers, req.Players, rt.rs.Config().InitBalance(), stake, req.Rounds, false)
		if err != nil {
			return SimResult{}, err
		}
		return SimResult{Report: rep, Est: est}, nil
	}
	rep, _, err := sim.SimMP(stake, req.Rounds, req.Workers, false)
	if err != nil {
		return SimResult{}, err
	}
	return SimResult{Report: rep}, nil
}

// Close 讓 Runtime 進入關閉狀態；可重複呼叫。Loop 的關閉由其擁有者負責。
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		if rt.journal != nil {
			if err := rt.journal.Close(); err != nil {
				rt.rs.log.Warn("journal close failed", slog.Any("err", err))
			}
		}
	})
}

// Closed 是否已關閉
func (rt *Runtime) Closed() bool {
	return rt.closed.Load()
}

func (rt *Runtime) ClosedReason() string {
	if v := rt.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (rt *Runtime) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.NewWarn("request canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
		return nil
	}
}

func (rt *Runtime) validStake(stake decimal.Decimal) bool {
	for _, lv := range rt.rs.Config().BetLevels() {
		if lv.Equal(stake) {
			return true
		}
	}
	return false
}

// onSettle 在 loop 上執行
func (rt *Runtime) onSettle(o outcome.Outcome, balance decimal.Decimal) {
	if rt.journal == nil {
		return
	}
	if err := rt.journal.Write(o, balance); err != nil {
		rt.rs.log.Warn("journal write failed", slog.Any("err", err))
	}
}
