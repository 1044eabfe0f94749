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
	"errors"
	"os"
	"os/exec"
	"strings"
)

// task 依序執行的一組指令；brief 為 true 時只印出 ok / FAIL 摘要行
type task struct {
	desc  string
	steps [][]string
	brief bool
}

var tasks = map[string]task{
	"test": {
		desc:  "running tests",
		steps: [][]string{{"go", "clean", "-testcache"}, {"go", "test", "./...", "-cover", "-count=1"}},
		brief: true,
	},
	"test-detail": {
		desc:  "running tests (detail)",
		steps: [][]string{{"go", "test", "./...", "-v", "-count=1"}},
	},
	// 事件迴圈、Runtime 與 server 之間跨 goroutine
	"race": {
		desc:  "running race detector on loop/runtime/server",
		steps: [][]string{{"go", "test", "-race", "-count=1", ".", "./sdk/clock/...", "./server/..."}},
		brief: true,
	},
	"sim": {
		desc:  "simulating classic machine (1M rounds x 8 workers)",
		steps: [][]string{{"go", "run", "./cmd/sim", "-rounds", "1000000", "-workers", "8"}},
	},
	"profile": {
		desc:  "profiling simulator (cpu)",
		steps: [][]string{{"go", "run", "./cmd/sim", "-rounds", "2000000", "-pb=false", "-p", "cpu"}},
	},
}

func (t task) run() error {
	for _, args := range t.steps {
		if err := runStep(args, t.brief); err != nil {
			return err
		}
	}
	return nil
}

func runStep(args []string, brief bool) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	if !brief {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return err
	}
	pw.Close()

	failed := false
	sc := bufio.NewScanner(pr)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "ok"):
			PrintDefault(line)
		case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "---"):
			failed = true
			PrintRed(line)
		case strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"), strings.HasPrefix(line, "WARNING: DATA RACE"):
			failed = true
			PrintRed(line)
		}
	}
	pr.Close()
	err = cmd.Wait()
	if err == nil && failed {
		err = errors.New("see output above")
	}
	return err
}
