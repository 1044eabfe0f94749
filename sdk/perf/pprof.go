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

// Package perf 為 cmd/sim 提供 pprof 開關，用於模擬器的性能分析與 PGO。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelspin/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profile 種類（空字串代表不分析）
var Modes = []string{"", "cpu", "heap", "allocs"}

// Run 依 mode 執行 exe 並寫出對應的 profile 到 dir（空字串使用 DefaultDir）。
//
//   - cpu: 整段 exe 的 CPU profile（cpu.pprof），也可以作為 PGO 的輸入
//   - heap: exe 結束後 GC 一次再寫 in-use 快照（heap.pprof）
//   - allocs: exe 結束後寫累積配置（allocs.pprof）
//
// 不認得的 mode 回傳 Warn 且不執行 exe。
func Run(mode, dir string, exe func()) error {
	if mode == "" {
		exe()
		return nil
	}
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "cpu", "heap", "allocs":
	default:
		return errs.Warnf("unknown pprof mode: %q", mode)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir")
	}
	f, err := os.Create(filepath.Join(dir, mode+".pprof"))
	if err != nil {
		return errs.Wrap(err, "create "+mode+".pprof")
	}
	defer f.Close()

	switch mode {
	case "cpu":
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile")
		}
		exe()
		pprof.StopCPUProfile()
	case "heap":
		exe()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errs.Wrap(err, "write heap profile")
		}
	case "allocs":
		exe()
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write allocs profile")
		}
	}
	return nil
}
