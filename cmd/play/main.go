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
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/demo"
	"github.com/zintix-labs/reelspin/sdk/clock"
	"github.com/zintix-labs/reelspin/server/app"
	"github.com/zintix-labs/reelspin/server/logger"
)

// 終端機試玩：以內嵌的 classic 機台在事件迴圈上運行一個 Session。
//
//	go run ./cmd/play
//	go run ./cmd/play -anim=false -seed 42
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		logMode string
		seed    int64
		anim    bool
	)
	flag.StringVar(&logMode, "log-mode", "silence", "log mode: dev|prod|silence")
	flag.Int64Var(&seed, "seed", 0, "int64 seed (0: random)")
	flag.BoolVar(&anim, "anim", true, "redraw reels while spinning")
	flag.Parse()

	mode, err := logger.ParseMode(logMode)
	if err != nil {
		return err
	}
	log := logger.NewDefaultLogger(mode)

	opts := []reelspin.Option{reelspin.WithLogger(log)}
	if seed != 0 {
		opts = append(opts, reelspin.WithSeed(seed))
	}
	rs, err := demo.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, quit := context.WithCancel(ctx)
	defer quit()

	loop := clock.NewLoop(clock.WithFrameInterval(clock.DefaultFrameInterval), clock.WithLoopLogger(log))
	t, loaded, err := newTable(ctx, rs, loop, os.Stdout, anim)
	if err != nil {
		return err
	}
	loop.OnFrame(t.onFrame)

	go func() {
		select {
		case err := <-loaded:
			if err != nil {
				fmt.Fprintln(os.Stderr, "paylines not loaded, every spin loses:", err)
			}
		case <-time.After(5 * time.Second):
			fmt.Fprintln(os.Stderr, "paylines still loading")
		}
		loop.Post(func() {
			t.draw()
			fmt.Fprint(os.Stdout, helpText)
		})
		readInput(os.Stdin, loop, t, quit)
	}()

	return app.NewWith(loop).WithLogger(log).RunContext(ctx)
}

// readInput 逐行讀取輸入並交給迴圈處理
func readInput(r io.Reader, loop *clock.Loop, t *table, quit context.CancelFunc) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if !loop.Post(func() {
			if t.handle(line) {
				quit()
			}
		}) {
			return
		}
	}
	quit()
}
