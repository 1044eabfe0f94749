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

package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/server/logger"
)

// SpinHandler 把請求轉給 Runtime；所有 Session 操作都在事件迴圈上執行
type SpinHandler struct {
	rt      *reelspin.Runtime
	log     *slog.Logger
	timeout time.Duration
}

// NewSpinHandler 建立 handler；timeout 為單一請求等待事件迴圈的上限
func NewSpinHandler(rt *reelspin.Runtime, log *slog.Logger, timeout time.Duration) (*SpinHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	if log == nil {
		log = logger.Silent()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SpinHandler{rt: rt, log: log, timeout: timeout}, nil
}

// Spin 請求一局（GET 從 query 讀 stake，POST 從 body 讀）。
//
// 回應的 decision 為 started / fast_forwarded / rejected；只有 started 會帶 outcome。
func (h *SpinHandler) Spin(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSpinRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp, err := h.rt.Spin(ctx, req)
	if err != nil {
		h.fail(w, "spin failed", err)
		return
	}
	writeJSON(w, resp)
}

// IncBet 押注往上一階
func (h *SpinHandler) IncBet(w http.ResponseWriter, r *http.Request) {
	h.bet(w, r, h.rt.IncBet)
}

// DecBet 押注往下一階
func (h *SpinHandler) DecBet(w http.ResponseWriter, r *http.Request) {
	h.bet(w, r, h.rt.DecBet)
}

func (h *SpinHandler) bet(w http.ResponseWriter, r *http.Request, step func(context.Context) (dto.BetResponse, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	resp, err := step(ctx)
	if err != nil {
		h.fail(w, "bet step failed", err)
		return
	}
	writeJSON(w, resp)
}

// State 目前 Session 狀態（含每軸的 View）
func (h *SpinHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	st, err := h.rt.State(ctx)
	if err != nil {
		h.fail(w, "state failed", err)
		return
	}
	writeJSON(w, st)
}

// Replay 以 spin 回應中的 start_b64u 重現同一局；不扣款、不入帳
func (h *SpinHandler) Replay(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeReplayRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	out, err := h.rt.Replay(ctx, req)
	if err != nil {
		h.fail(w, "replay failed", err)
		return
	}
	writeJSON(w, out)
}

func (h *SpinHandler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	httperr.Errs(w, err)
}

// writeJSON 先編碼到記憶體再寫出，避免寫到一半才失敗
func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(b, '\n'))
}
