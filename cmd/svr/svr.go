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
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/reelspin/demo"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/server"
	"github.com/zintix-labs/reelspin/server/logger"
)

// HTTP 入口：以內嵌的 classic 機台運行一個 Session。
//
//	go run ./cmd/svr -addr :5808 -log-mode dev -journal build/journal.zst
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type config struct {
	addr    string
	logMode string
	journal string
	frame   time.Duration
	timeout time.Duration
}

func run() error {
	cfg := new(config)
	flag.StringVar(&cfg.addr, "addr", ":5808", "listen address")
	flag.StringVar(&cfg.logMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.journal, "journal", "", "write every settled outcome to this zstd journal file")
	flag.DurationVar(&cfg.frame, "frame", time.Second/60, "event loop frame interval")
	flag.DurationVar(&cfg.timeout, "timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	mode, err := logger.ParseMode(cfg.logMode)
	if err != nil {
		return err
	}
	log, ah := logger.NewAsync(4096, mode)
	defer ah.Close()

	sCfg, err := demo.NewServerConfig(log, cfg.addr)
	if err != nil {
		return err
	}
	sCfg.FrameInterval = cfg.frame
	sCfg.RequestTimeout = cfg.timeout

	if cfg.journal != "" {
		f, err := os.Create(cfg.journal)
		if err != nil {
			return err
		}
		defer f.Close()
		j, err := recorder.NewJournal(f)
		if err != nil {
			return err
		}
		// Runtime 關閉時會 flush 並關閉 journal
		sCfg.Journal = j
	}
	return server.Run(sCfg)
}
