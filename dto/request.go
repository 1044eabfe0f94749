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

package dto

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/corefmt"
	"github.com/zintix-labs/reelspin/errs"
)

const (
	// MaxSimRounds 單次 HTTP 模擬的局數上限
	MaxSimRounds = 1_000_000
	// MaxSimPlayers 玩家體驗估計的人數上限
	MaxSimPlayers = 10_000
	// 防止 body 過大（1MiB）
	maxBody = 1 << 20
)

// SpinRequest 押注請求；Stake 缺省時使用目前押注階梯
type SpinRequest struct {
	Stake *decimal.Decimal `json:"stake,omitempty"`
}

// DecodeSpinRequest 會把 HTTP 請求解碼成 SpinRequest。
//
// 支援：
//   - GET：從 query string 讀取 stake。
//   - POST：從 JSON body 反序列化；空 body 視為缺省。
//
// 注意：
//   - 這裡只負責解碼，stake 是否為合法階梯由上層（Session）決定。
//   - POST 開啟 DisallowUnknownFields()，未知欄位一律拒絕。
func DecodeSpinRequest(r *http.Request) (*SpinRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(SpinRequest)
	switch r.Method {
	case http.MethodGet:
		if s := r.URL.Query().Get("stake"); s != "" {
			d, err := parseStake(s)
			if err != nil {
				return nil, err
			}
			req.Stake = &d
		}
		return req, nil
	case http.MethodPost:
		if err := decodeJSONBody(r, req); err != nil {
			return nil, err
		}
		if req.Stake != nil && req.Stake.IsNegative() {
			return nil, errs.Warnf("invalid stake: %s", req.Stake)
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// SimRequest 模擬請求
//
// Fields:
//   - Rounds: 局數（Players > 0 時為每位玩家的局數）
//   - Stake: 押注，缺省為最低階梯
//   - Seed: 0 代表隨機
//   - Players: > 0 時改跑玩家體驗估計
//   - Workers: 平行數，缺省 1
//   - Format: 報告格式 json/yaml/table，預設 json
type SimRequest struct {
	Rounds  int              `json:"rounds"`
	Stake   *decimal.Decimal `json:"stake,omitempty"`
	Seed    int64            `json:"seed"`
	Players int              `json:"players"`
	Workers int              `json:"workers"`
	Format  string           `json:"format"`
}

// DecodeSimRequest 從 query string 讀取模擬參數並檢查範圍
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	q := r.URL.Query()
	req := &SimRequest{Rounds: 10_000, Workers: 1, Format: "json"}

	ints := []struct {
		key string
		dst *int
	}{
		{"rounds", &req.Rounds},
		{"players", &req.Players},
		{"workers", &req.Workers},
	}
	for _, it := range ints {
		if s := q.Get(it.key); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.Warnf("invalid %s: %v", it.key, err)
			}
			*it.dst = v
		}
	}
	if s := q.Get("seed"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errs.Warnf("invalid seed: %v", err)
		}
		req.Seed = v
	}
	if s := q.Get("stake"); s != "" {
		d, err := parseStake(s)
		if err != nil {
			return nil, err
		}
		req.Stake = &d
	}
	if s := q.Get("format"); s != "" {
		req.Format = strings.ToLower(s)
	}

	if req.Rounds <= 0 || req.Rounds > MaxSimRounds {
		return nil, errs.Warnf("rounds must be in [1,%d], got %d", MaxSimRounds, req.Rounds)
	}
	if req.Players < 0 || req.Players > MaxSimPlayers {
		return nil, errs.Warnf("players must be in [0,%d], got %d", MaxSimPlayers, req.Players)
	}
	if req.Workers <= 0 {
		return nil, errs.Warnf("workers must be > 0, got %d", req.Workers)
	}
	switch req.Format {
	case "json", "yaml", "table":
	default:
		return nil, errs.Warnf("unknown format: %s", req.Format)
	}
	return req, nil
}

// ReplayRequest 以回應中的 start_b64u 重現一局
type ReplayRequest struct {
	StartB64U string          `json:"start_b64u"`
	Stake     decimal.Decimal `json:"stake"`

	Start []byte `json:"-"`
}

// DecodeReplayRequest 解碼 POST body 並還原核心快照
func DecodeReplayRequest(r *http.Request) (*ReplayRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := new(ReplayRequest)
	if err := decodeJSONBody(r, req); err != nil {
		return nil, err
	}
	if req.Stake.IsNegative() {
		return nil, errs.Warnf("invalid stake: %s", req.Stake)
	}
	start, err := corefmt.DecodeBase64URL(req.StartB64U)
	if err != nil {
		return nil, err
	}
	req.Start = start
	return req, nil
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		e := errs.Wrap(err, "invalid json")
		e.ErrLv = errs.Warn
		return e
	}
	return nil
}

func parseStake(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Warnf("invalid stake: %v", err)
	}
	if d.IsNegative() {
		return decimal.Zero, errs.Warnf("invalid stake: %s", s)
	}
	return d, nil
}
