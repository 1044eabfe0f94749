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

package clock

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zintix-labs/reelspin/errs"
)

// ErrLoopClosed 迴圈已關閉
var ErrLoopClosed = errs.NewWarn("event loop closed")

// DefaultFrameInterval 預設影格間隔（60fps）
const DefaultFrameInterval = time.Second / FPS

// Loop 單執行緒事件迴圈。
//
// 所有經由 Post / Call / After 送進來的工作，以及每個影格的回呼，
// 都在 Run 所在的 goroutine 上依序執行。Loop 滿足 app.Component（Run/Shutdown）。
type Loop struct {
	tasks   chan func()
	frame   time.Duration
	onFrame func(dt float64)
	log     *slog.Logger

	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	started   atomic.Bool
}

// LoopOption 迴圈設定
type LoopOption func(*Loop)

// WithFrameInterval 設定影格間隔，<= 0 表示不產生影格
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) { l.frame = d }
}

// WithQueueSize 設定工作佇列長度
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithLoopLogger 設定 logger（回呼 panic 時記錄）
func WithLoopLogger(log *slog.Logger) LoopOption {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoop 建立事件迴圈（尚未啟動）
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		tasks: make(chan func(), 256),
		frame: DefaultFrameInterval,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// OnFrame 設定影格回呼，dt 以影格為單位。需在 Run 之前設定。
func (l *Loop) OnFrame(fn func(dt float64)) {
	l.onFrame = fn
}

// Run 阻塞執行迴圈直到 Shutdown
func (l *Loop) Run() error {
	if !l.started.CompareAndSwap(false, true) {
		return errs.NewFatal("event loop already running")
	}
	defer close(l.done)

	var tick <-chan time.Time
	if l.frame > 0 && l.onFrame != nil {
		ticker := time.NewTicker(l.frame)
		defer ticker.Stop()
		tick = ticker.C
	}
	last := time.Now()

	for {
		select {
		case <-l.quit:
			return nil
		case fn := <-l.tasks:
			l.exec(fn)
		case now := <-tick:
			dt := FrameUnits(now.Sub(last))
			last = now
			l.exec(func() { l.onFrame(dt) })
		}
	}
}

// Shutdown 要求迴圈停止並等待 Run 返回（或 ctx 到期）
func (l *Loop) Shutdown(ctx context.Context) error {
	l.closeOnce.Do(func() { close(l.quit) })
	if !l.started.Load() {
		return nil
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post 把工作排進迴圈；迴圈已關閉時回傳 false
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Call 在迴圈上執行 fn 並等待完成
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// After 實際時間 d 之後把 fn 送回迴圈執行
func (l *Loop) After(d time.Duration, fn func()) {
	if d <= 0 {
		go l.Post(fn)
		return
	}
	time.AfterFunc(d, func() { l.Post(fn) })
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("event loop task panic", slog.Any("panic", r))
		}
	}()
	fn()
}
