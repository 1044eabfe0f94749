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
	"bytes"
	"net/http"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/dto"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/httperr"
	"github.com/zintix-labs/reelspin/stats"
)

// SimResponse /v1/sim 的 JSON 回應
type SimResponse struct {
	Stats    *stats.StatReport       `json:"stats"`
	Est      *stats.EstimatorPlayers `json:"est,omitempty"`
	UsedTime int64                   `json:"used_ms"`
}

// Sim 以獨立的 Simulator 跑模擬，不經過事件迴圈，也不影響 Session 帳本。
//
// Query: rounds, stake, seed, players, workers, format(json|yaml|table)。
// players > 0 時每位玩家最多玩 rounds 局，另外回傳玩家體驗估計。
func (h *SpinHandler) Sim(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeSimRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	start := time.Now()
	res, err := h.rt.Sim(r.Context(), req)
	if err != nil {
		h.fail(w, "sim failed", err)
		return
	}
	used := time.Since(start)

	if req.Format == "json" {
		writeJSON(w, SimResponse{Stats: res.Report, Est: res.Est, UsedTime: used.Milliseconds()})
		return
	}
	writeReport(w, req.Format, res)
}

func writeReport(w http.ResponseWriter, format string, res reelspin.SimResult) {
	var b bytes.Buffer
	if err := stats.RenderByName(format).Write(&b, res.Report); err != nil {
		httperr.Errs(w, errs.Wrap(err, "render report"))
		return
	}
	if res.Est != nil {
		if format == "yaml" {
			b.WriteString("---\n")
			if err := (&stats.YAMLEstimatorRender{}).Write(&b, res.Est); err != nil {
				httperr.Errs(w, errs.Wrap(err, "render estimator"))
				return
			}
		} else {
			res.Est.Out(&b)
		}
	}
	ct := "text/plain; charset=utf-8"
	if format == "yaml" {
		ct = "application/yaml"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}

// Game 目前載入的遊戲設定（符號、輪帶、押注階梯、動畫節奏）
func (h *SpinHandler) Game(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.rt.Setting())
}
