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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/server/api"
	"github.com/zintix-labs/reelspin/server/app"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// 事件迴圈是 server 生命週期的一部分
var _ app.Component = (*clock.Loop)(nil)

// Run 是 server 套件的組裝器與啟動入口。
//
// 它負責：
//  1. 驗證 SvrCfg（補預設值、檢查 Reelspin 與 logger）。
//  2. 建立 Runtime：Session 跑在 clock.Loop 上，線表在背景載入。
//  3. 建立 HTTP server 並註冊路由。
//  4. 以 app.App 同時管理 Loop 與 HTTP server，直到收到信號或任一元件停止。
//
// Run 不綁定任何檔案路徑或環境變數，所有依賴都由 SvrCfg 注入。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run 相同，但使用呼叫端注入的 NetSvr（自訂 listener、TLS、timeout 等）。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}

	rt, err := Build(context.Background(), sCfg, svr)
	if err != nil {
		sCfg.Log.Error("build runtime failed", slog.Any("err", err))
		return err
	}
	defer rt.Close()

	// Loop 先註冊、server 後註冊：關閉時 server 先停
	a := app.NewWith(rt.Loop(), svr).WithLogger(sCfg.Log)
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[reelspin] listening on http://localhost" + s.Address())
	}
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}

// Build 建立 Runtime 並把路由掛到 r 上；Loop 由呼叫端啟動。
// 線表載入結果只記錄，不阻塞啟動（失敗時以空線表運行）。
func Build(ctx context.Context, sCfg *svrcfg.SvrCfg, r netsvr.NetRouter) (*reelspin.Runtime, error) {
	rt, err := sCfg.Reelspin.NewRuntime(ctx,
		reelspin.WithJournal(sCfg.Journal),
		reelspin.WithLoopOptions(
			clock.WithFrameInterval(sCfg.FrameInterval),
			clock.WithLoopLogger(sCfg.Log),
		),
	)
	if err != nil {
		return nil, err
	}
	if err := api.RegisterRoutes(r, rt, sCfg.Log, sCfg.RequestTimeout); err != nil {
		rt.Close()
		return nil, err
	}
	go func() {
		if err := <-rt.Loaded(); err != nil {
			sCfg.Log.Warn("paylines not loaded, every spin loses", slog.Any("err", err))
		}
	}()
	return rt, nil
}
