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

// Package reelspin 提供單一機台的組裝入口（assembler）與執行入口。
//
// Reelspin 把三個地基組裝在一起：
//  1. GameSetting：從 fs.FS 讀入的遊戲設定，轉成唯讀的 spec.Config 後傳給所有元件。
//  2. PaylineSource：線表來源，Session 以非同步方式載入，Simulator 同步載入。
//  3. PRNGFactory：亂數核心工廠，相同 seed 產生相同的停輪序列。
//
// Reelspin 本身不綁定任何檔案路徑：設定、線表、圖素都由 fs.FS 提供，
// 正式環境通常是 go:embed，本機開發可以用 os.DirFS。
//
//	rs, _ := reelspin.New(demo_configs.FS, demo_configs.GameFile)
//	sess, loaded, _ := rs.NewSession(ctx, loop)
//	<-loaded
//	sess.SpinCurrent()
package reelspin

import (
	"context"
	"io"
	"io/fs"
	"log/slog"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/sdk/render"
	"github.com/zintix-labs/reelspin/spec"
)

// DefaultPaylineFile 未指定線表來源時，從設定 fs 讀取的檔名
const DefaultPaylineFile = "paylines.json"

// Reelspin 組裝器
type Reelspin struct {
	gs     *spec.GameSetting
	cfg    *spec.Config
	lines  outcome.PaylineSource
	assets fs.FS
	cf     core.PRNGFactory
	seed   int64
	log    *slog.Logger
}

// Option Reelspin 設定
type Option func(*Reelspin)

// WithPaylines 指定線表來源
func WithPaylines(src outcome.PaylineSource) Option {
	return func(r *Reelspin) {
		if src != nil {
			r.lines = src
		}
	}
}

// WithAssets 指定圖素來源（NewAtlas 需要）
func WithAssets(assets fs.FS) Option {
	return func(r *Reelspin) { r.assets = assets }
}

// WithPRNGFactory 指定亂數核心工廠
func WithPRNGFactory(cf core.PRNGFactory) Option {
	return func(r *Reelspin) {
		if cf != nil {
			r.cf = cf
		}
	}
}

// WithSeed 固定 Session 的 seed；0 代表每次隨機
func WithSeed(seed int64) Option {
	return func(r *Reelspin) { r.seed = seed }
}

// WithLogger 設定 logger
func WithLogger(log *slog.Logger) Option {
	return func(r *Reelspin) {
		if log != nil {
			r.log = log
		}
	}
}

// New 讀取並檢查遊戲設定。設定不一致一律是 Fatal，必須在啟動時就失敗。
func New(cfgFS fs.FS, name string, opts ...Option) (*Reelspin, error) {
	if cfgFS == nil {
		return nil, errs.NewFatal("configs required")
	}
	gs, err := spec.LoadGameSetting(cfgFS, name)
	if err != nil {
		return nil, err
	}
	r := &Reelspin{
		gs:    gs,
		cfg:   gs.Config(),
		lines: outcome.FSSource{FS: cfgFS, Name: DefaultPaylineFile},
		cf:    core.Default(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Config 執行期唯讀設定
func (r *Reelspin) Config() *spec.Config { return r.cfg }

// Setting 原始遊戲設定
func (r *Reelspin) Setting() *spec.GameSetting { return r.gs }

// Logger 組裝時設定的 logger
func (r *Reelspin) Logger() *slog.Logger { return r.log }

// NewGenerator 建立一台擁有獨立帳本與亂數核心的 Generator（seed 為 0 時隨機）
func (r *Reelspin) NewGenerator(seed int64, opts ...outcome.Option) *outcome.Generator {
	if seed == 0 {
		seed = core.NewSeed()
	}
	base := []outcome.Option{
		outcome.WithCore(core.NewWithSeed(r.cf, seed)),
		outcome.WithLogger(r.log),
	}
	return outcome.New(r.cfg, append(base, opts...)...)
}

// Paylines 同步讀取線表並依盤面幾何檢查
func (r *Reelspin) Paylines(ctx context.Context) ([]spec.Payline, error) {
	lines, err := r.lines.Paylines(ctx)
	if err != nil {
		return nil, err
	}
	geo := r.cfg.Geometry()
	ps := &spec.PaylineSetting{Lines: lines}
	if err := ps.Valid(&geo); err != nil {
		return nil, err
	}
	return lines, nil
}

// NewSession 建立 Session 並在背景載入線表。
//
// 回傳的 channel 在線表載入結束時送出結果；載入失敗時 Session 以空線表繼續運作（必定不中獎）。
func (r *Reelspin) NewSession(ctx context.Context, sched clock.Scheduler, opts ...SessionOption) (*Session, <-chan error, error) {
	gen := r.NewGenerator(r.seed)
	base := []SessionOption{WithSessionLogger(r.log)}
	sess, err := NewSession(gen, sched, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	loaded := gen.LoadPaylines(ctx, r.lines)
	return sess, loaded, nil
}

// NewSimulator 建立模擬器；模擬沒有線表就沒有意義，所以線表讀取失敗直接回傳錯誤
func (r *Reelspin) NewSimulator(ctx context.Context, seed int64) (*Simulator, error) {
	lines, err := r.Paylines(ctx)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = core.NewSeed()
	}
	return newSimulatorWithSeed(r.cfg, lines, r.cf, seed)
}

// NewAtlas 以 WithAssets 指定的圖素建立 Atlas
func (r *Reelspin) NewAtlas() (*render.Atlas, error) {
	if r.assets == nil {
		return nil, errs.NewFatal("assets required")
	}
	return render.NewAtlas(r.cfg, r.assets)
}
