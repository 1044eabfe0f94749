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

package outcome

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/spec"
)

// PaylineSource 提供線表的來源（檔案、網路等），可能阻塞
type PaylineSource interface {
	Paylines(ctx context.Context) ([]spec.Payline, error)
}

// PaylineSourceFunc 讓一般函式滿足 PaylineSource
type PaylineSourceFunc func(ctx context.Context) ([]spec.Payline, error)

func (f PaylineSourceFunc) Paylines(ctx context.Context) ([]spec.Payline, error) { return f(ctx) }

// Static 固定線表來源
func Static(lines []spec.Payline) PaylineSource {
	return PaylineSourceFunc(func(context.Context) ([]spec.Payline, error) {
		return lines, nil
	})
}

// FSSource 從 fs 讀取 JSON 或 YAML 線表
type FSSource struct {
	FS   fs.FS
	Name string
}

// Paylines 讀檔並解析；格式檢查由 Generator 依盤面幾何處理
func (s FSSource) Paylines(ctx context.Context) ([]spec.Payline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, errs.NewWarn("payline fs is nil")
	}
	data, err := fs.ReadFile(s.FS, s.Name)
	if err != nil {
		return nil, errs.Wrap(err, "can not read paylines: "+s.Name)
	}
	var ps *spec.PaylineSetting
	switch strings.ToLower(path.Ext(s.Name)) {
	case ".json":
		ps, err = spec.GetPaylinesByJSON(data, nil)
	case ".yaml", ".yml":
		ps, err = spec.GetPaylinesByYAML(data, nil)
	default:
		return nil, errs.Warnf("unsupported payline file: %s", s.Name)
	}
	if err != nil {
		return nil, err
	}
	return ps.Lines, nil
}
