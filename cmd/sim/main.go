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

package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/reelspin/sdk/perf"
)

// 模擬器入口
//
//	go run ./cmd/sim -rounds 1000000 -workers 8
//	go run ./cmd/sim -players 1000 -rounds 1500 -balance 200
//	go run ./cmd/sim -format yaml -journal build/sim.zst -p cpu
func main() {
	cfg, err := bindVar(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var simErr error
	if err := perf.Run(cfg.pprof, "", func() { simErr = execute(cfg, os.Stdout) }); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if simErr != nil {
		fmt.Fprintln(os.Stderr, simErr)
		os.Exit(1)
	}
}
