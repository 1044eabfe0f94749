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

// Package demo 以內嵌的 classic 機台組裝 Reelspin，給 cmd 與範例使用。
package demo

import (
	"log/slog"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/demo/demo_assets"
	"github.com/zintix-labs/reelspin/demo/demo_configs"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// New 以內嵌設定與圖素建立 Reelspin；opts 會接在預設選項之後
func New(opts ...reelspin.Option) (*reelspin.Reelspin, error) {
	base := []reelspin.Option{reelspin.WithAssets(demo_assets.FS)}
	rs, err := reelspin.New(demo_configs.FS, demo_configs.GameFile, append(base, opts...)...)
	if err != nil {
		return nil, errs.Wrap(err, "new demo reelspin")
	}
	return rs, nil
}

// NewServerConfig 組出以 classic 機台運行的 server 設定
func NewServerConfig(log *slog.Logger, addr string) (*svrcfg.SvrCfg, error) {
	rs, err := New(reelspin.WithLogger(log))
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Reelspin: rs,
		Addr:     addr,
	}
	if err := sCfg.Valid(); err != nil {
		return nil, err
	}
	return sCfg, nil
}
