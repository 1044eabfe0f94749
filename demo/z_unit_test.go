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

package demo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/server/logger"
)

func TestClassicMachine(t *testing.T) {
	rs, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	cfg := rs.Config()
	if cfg.ReelCount() != 5 || cfg.RowCount() != 3 || cfg.Strip().Len() != 20 {
		t.Fatalf("geometry: %d x %d strip %d", cfg.ReelCount(), cfg.RowCount(), cfg.Strip().Len())
	}
	atlas, err := rs.NewAtlas()
	if err != nil {
		t.Fatalf("atlas: %v", err)
	}
	for _, s := range cfg.Symbols() {
		if _, ok := atlas.Lookup(s.ID); !ok {
			t.Fatalf("missing texture for %s", s.ID)
		}
	}
	lines, err := rs.Paylines(context.Background())
	if err != nil || len(lines) == 0 {
		t.Fatalf("paylines: %d %v", len(lines), err)
	}

	sim, err := rs.NewSimulator(context.Background(), 2025)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	rep, _, err := sim.Sim(decimal.NewFromInt(1), 2000, false)
	if err != nil {
		t.Fatalf("sim: %v", err)
	}
	if rep.Summary.Rounds != 2000 || rep.Summary.TotalBet != 2000 || rep.Summary.RTP < 0 {
		t.Fatalf("summary: %+v", rep.Summary)
	}
}

func TestNewServerConfig(t *testing.T) {
	sCfg, err := NewServerConfig(logger.Silent(), "")
	if err != nil {
		t.Fatalf("server config: %v", err)
	}
	if sCfg.Addr == "" || sCfg.Reelspin == nil || sCfg.RequestTimeout == 0 {
		t.Fatalf("defaults not applied: %+v", sCfg)
	}
}
