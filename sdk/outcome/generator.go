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

// Package outcome 負責產生 spin 結果：扣款、抽停輪、算線、持有帳本。
package outcome

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/ledger"
	"github.com/zintix-labs/reelspin/spec"
)

// Generator 結果產生器。
//
// Spin 會立即扣款；贏分要等畫面演出結束後由呼叫端 CreditWin 入帳。
// 線表以 atomic 指標發佈，非同步載入完成前線表為空（必定不中獎，不是錯誤）。
// Spin/CreditWin 預期在單一邏輯執行緒上呼叫。
type Generator struct {
	cfg    *spec.Config
	core   *core.Core
	ledger *ledger.Ledger
	log    *slog.Logger

	calc  atomic.Pointer[calc.LineCalculator]
	round uint64
}

// Option Generator 設定
type Option func(*Generator)

// WithCore 指定亂數核心（可重現的模擬/測試）
func WithCore(c *core.Core) Option {
	return func(g *Generator) {
		if c != nil {
			g.core = c
		}
	}
}

// WithLedger 共用外部帳本
func WithLedger(l *ledger.Ledger) Option {
	return func(g *Generator) {
		if l != nil {
			g.ledger = l
		}
	}
}

// WithLogger 設定 logger
func WithLogger(log *slog.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// New 建立 Generator，預設使用隨機 seed 的 PCG64 與 cfg 的初始餘額
func New(cfg *spec.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg}
	for _, o := range opts {
		o(g)
	}
	if g.core == nil {
		g.core = core.NewWithSeed(core.Default(), core.NewSeed())
	}
	if g.ledger == nil {
		g.ledger = ledger.New(cfg.InitBalance())
	}
	if g.log == nil {
		g.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	g.calc.Store(calc.NewLineCalculator(cfg, nil))
	return g
}

// Spin 扣款、抽停輪、算線並回傳結果。不檢查餘額。
func (g *Generator) Spin(stake decimal.Decimal) Outcome {
	g.ledger.Debit(stake)
	g.round++
	snap, err := g.core.Snapshot()
	if err != nil {
		// 快照只用於稽核，失敗不影響本局
		g.log.Warn("core snapshot failed", slog.Any("err", err))
		snap = nil
	}
	stops := g.core.Stops(nil, g.cfg.ReelCount(), g.cfg.Strip().Len())
	hits, win := g.calc.Load().Calc(stops, stake)
	return newOutcome(g.round, stops, hits, stake, win, snap)
}

// Replay 以抽停輪前的核心快照重現一局（使用目前線表，不動帳本）。
// 快照格式為預設的 PCG64 核心。
func (g *Generator) Replay(start []byte, stake decimal.Decimal) (Outcome, error) {
	if len(start) == 0 {
		return Outcome{}, errs.NewWarn("replay: empty core snapshot")
	}
	rng := core.NewPCG64()
	if err := rng.Restore(start); err != nil {
		return Outcome{}, errs.Wrap(err, "replay: restore core failed")
	}
	stops := core.New(rng).Stops(nil, g.cfg.ReelCount(), g.cfg.Strip().Len())
	hits, win := g.calc.Load().Calc(stops, stake)
	return newOutcome(0, stops, hits, stake, win, start), nil
}

// DrawStops 抽一組停輪位置，不扣款也不算線（開機盤面用）
func (g *Generator) DrawStops() []int {
	return g.core.Stops(nil, g.cfg.ReelCount(), g.cfg.Strip().Len())
}

// CreditWin 贏分入帳，回傳新餘額
func (g *Generator) CreditWin(amount decimal.Decimal) decimal.Decimal {
	return g.ledger.Credit(amount)
}

// Balance 目前餘額
func (g *Generator) Balance() decimal.Decimal { return g.ledger.Balance() }

// Observe 註冊餘額觀察者（會立即收到目前餘額）
func (g *Generator) Observe(o ledger.BalanceObserver) { g.ledger.Observe(o) }

// Ledger 回傳底層帳本
func (g *Generator) Ledger() *ledger.Ledger { return g.ledger }

// Config 回傳執行期設定
func (g *Generator) Config() *spec.Config { return g.cfg }

// SetPaylines 檢查並發佈線表
func (g *Generator) SetPaylines(lines []spec.Payline) error {
	ps := &spec.PaylineSetting{Lines: lines}
	geo := g.cfg.Geometry()
	if err := ps.Valid(&geo); err != nil {
		return err
	}
	g.calc.Store(calc.NewLineCalculator(g.cfg, lines))
	return nil
}

// PaylineCount 目前線數
func (g *Generator) PaylineCount() int { return g.calc.Load().LineCount() }

// LoadPaylines 在獨立 goroutine 上讀取線表並發佈。
//
// 失敗時記錄警告並維持空線表（降級運行，不中斷）。
// 回傳的 channel 在載入結束後送出結果（nil 為成功）並關閉。
func (g *Generator) LoadPaylines(ctx context.Context, src PaylineSource) <-chan error {
	res := make(chan error, 1)
	go func() {
		defer close(res)
		err := g.loadPaylines(ctx, src)
		if err != nil {
			g.log.Warn("payline load failed, running with empty payline set", slog.Any("err", err))
		} else {
			g.log.Info("paylines loaded", slog.Int("count", g.PaylineCount()))
		}
		res <- err
	}()
	return res
}

func (g *Generator) loadPaylines(ctx context.Context, src PaylineSource) error {
	if src == nil {
		return errs.NewWarn("payline source is nil")
	}
	lines, err := src.Paylines(ctx)
	if err != nil {
		return err
	}
	return g.SetPaylines(lines)
}

// Grid 回傳停輪後的可見盤面 [row][reel]
func (g *Generator) Grid(stops []int) [][]string {
	return calc.Grid(g.cfg.Strip(), stops, g.cfg.RowCount())
}
