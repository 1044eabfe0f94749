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

package api

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/reelspin"
	v1 "github.com/zintix-labs/reelspin/server/api/v1"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/netsvr/middleware"
)

// RegisterRoutes 註冊 middleware 與 v1 api
func RegisterRoutes(svr netsvr.NetRouter, rt *reelspin.Runtime, log *slog.Logger, timeout time.Duration) error {
	h, err := v1.NewSpinHandler(rt, log, timeout)
	if err != nil {
		return err
	}
	registerMiddleware(svr, log)
	registerV1API(svr, h)
	return nil
}

// 順序：request id → access log → recover → 壓縮
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

func registerV1API(svr netsvr.NetRouter, h *v1.SpinHandler) {
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/game", h.Game)
		vOne.Get("/state", h.State)
		vOne.Get("/spin", h.Spin)
		vOne.Post("/spin", h.Spin)
		vOne.Post("/bet/inc", h.IncBet)
		vOne.Post("/bet/dec", h.DecBet)
		vOne.Post("/replay", h.Replay)
		vOne.Get("/sim", h.Sim)
	})
}
