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

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want LogMode
		ok   bool
	}{
		{"", ModeDev, true},
		{"DEV", ModeDev, true},
		{"prod", ModeProd, true},
		{" silence ", ModeSilence, true},
		{"verbose", ModeDev, false},
	}
	for _, c := range cases {
		got, err := ParseMode(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("ParseMode(%q) = %v, %v", c.in, got, err)
		}
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	buf := &lockedBuf{}
	ah := NewAsyncHandler(slog.NewTextHandler(buf, nil), 64)
	log := slog.New(ah).With("game", "classic")
	for i := 0; i < 10; i++ {
		log.Info("spin settled", "round", i)
	}
	ah.Close()
	out := buf.String()
	if strings.Count(out, "spin settled") != 10 || !strings.Contains(out, "game=classic") {
		t.Fatalf("output:\n%s", out)
	}
	log.Info("after close")
	if ah.Dropped() != 1 {
		t.Fatalf("dropped = %d", ah.Dropped())
	}
	ah.Close()
}

func TestAsyncHandlerNotReady(t *testing.T) {
	var ah *AsyncHandler
	if ah.Ready() || ah.Dropped() != 0 {
		t.Fatalf("nil handler must not be ready")
	}
	ah.Close()
	if err := (&AsyncHandler{}).Handle(context.Background(), slog.Record{}); err != nil {
		t.Fatalf("handle: %v", err)
	}
}
