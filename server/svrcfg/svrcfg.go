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

package svrcfg

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/server/logger"
)

const (
	DefaultAddr           = ":5808"
	DefaultRequestTimeout = 5 * time.Second
	DefaultFrameInterval  = time.Second / 60
)

// SvrCfg 組裝 server 所需的所有依賴，由 cmd 明確注入
//
// Fields:
//   - Reelspin: 已讀好設定的遊戲（必填）
//   - Journal: 非 nil 時每局入帳後寫一筆
//   - FrameInterval: 事件迴圈影格間隔，clamp 到 [1ms, 100ms]
//   - RequestTimeout: 單一請求等待事件迴圈的上限
type SvrCfg struct {
	Log            *slog.Logger
	Reelspin       *reelspin.Reelspin
	Addr           string
	Journal        *recorder.Journal
	FrameInterval  time.Duration
	RequestTimeout time.Duration
}

// Valid 補預設值並檢查必要依賴
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log = logger.Silent()
	}
	if sc.Reelspin == nil {
		return errs.NewFatal("reelspin is required")
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.FrameInterval == 0 {
		sc.FrameInterval = DefaultFrameInterval
	}
	sc.FrameInterval = max(time.Millisecond, sc.FrameInterval)
	sc.FrameInterval = min(100*time.Millisecond, sc.FrameInterval)
	if sc.RequestTimeout <= 0 {
		sc.RequestTimeout = DefaultRequestTimeout
	}
	return nil
}
