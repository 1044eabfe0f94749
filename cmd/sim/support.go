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
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/demo"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxPlayers        = 100_000
	maxRoundsPerPlay  = 15_000
	green, resetColor = "\033[1;32m", "\033[0m"
)

type config struct {
	dir     string
	game    string
	rounds  int
	workers int
	players int
	stake   string
	balance string
	seed    int64
	format  string
	pb      bool
	journal string
	pprof   string
}

func bindVar(args []string) (*config, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	fs.StringVar(&cfg.dir, "dir", "", "config directory (default: embedded classic machine)")
	fs.StringVar(&cfg.game, "game", "classic.yaml", "game setting file inside -dir")
	fs.IntVar(&cfg.rounds, "rounds", 1_000_000, "rounds per worker, or per player with -players")
	fs.IntVar(&cfg.workers, "workers", 1, "number of workers")
	fs.IntVar(&cfg.players, "players", 0, "simulate this many players (0: machine only)")
	fs.StringVar(&cfg.stake, "stake", "", "stake per spin (default: first bet level)")
	fs.StringVar(&cfg.balance, "balance", "", "initial balance per player (default: game setting)")
	fs.Int64Var(&cfg.seed, "seed", 0, "int64 seed (0: random)")
	fs.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	fs.BoolVar(&cfg.pb, "pb", true, "show progress bar")
	fs.StringVar(&cfg.journal, "journal", "", "write every outcome to this zstd journal file")
	fs.StringVar(&cfg.pprof, "p", "", "pprof: '', cpu, heap, allocs")
	if err := fs.Parse(args); err != nil {
		return nil, errs.Wrap(err, "parse flags")
	}
	return cfg, cfg.valid()
}

func (cfg *config) valid() error {
	if cfg.workers < 1 {
		return errs.NewWarn("workers must > 0")
	}
	if cfg.rounds < 1 {
		return errs.NewWarn("rounds must > 0")
	}
	if cfg.players < 0 {
		return errs.NewWarn("players must >= 0")
	}
	switch cfg.format {
	case "table", "json", "yaml":
	default:
		return errs.Warnf("unknown format: %s", cfg.format)
	}
	p := message.NewPrinter(language.English)
	if cfg.players > maxPlayers {
		p.Fprintf(os.Stderr, "too many players: %d resized to %d\n", cfg.players, maxPlayers)
		cfg.players = maxPlayers
	}
	// 一位玩家 1500 局約一小時，超過 15000 局已經是長期體驗，直接跑機台模擬即可
	if cfg.players > 0 && cfg.rounds > maxRoundsPerPlay {
		p.Fprintf(os.Stderr, "too many rounds per player: %d resized to %d\n", cfg.rounds, maxRoundsPerPlay)
		cfg.rounds = maxRoundsPerPlay
	}
	return nil
}

func (cfg *config) load() (*reelspin.Reelspin, error) {
	if cfg.dir == "" {
		return demo.New()
	}
	return reelspin.New(os.DirFS(cfg.dir), cfg.game)
}

func parseAmount(s string, def decimal.Decimal, name string) (decimal.Decimal, error) {
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, errs.Warnf("invalid %s: %q", name, s)
	}
	return d, nil
}

// execute 跑模擬並把報告寫到 w
func execute(cfg *config, w io.Writer) (err error) {
	rs, err := cfg.load()
	if err != nil {
		return err
	}
	stake, err := parseAmount(cfg.stake, rs.Config().BetLevels()[0], "stake")
	if err != nil {
		return err
	}
	balance, err := parseAmount(cfg.balance, rs.Config().InitBalance(), "balance")
	if err != nil {
		return err
	}
	sim, err := rs.NewSimulator(context.Background(), cfg.seed)
	if err != nil {
		return err
	}
	if cfg.journal != "" {
		j, closeJournal, jerr := openJournal(cfg.journal)
		if jerr != nil {
			return jerr
		}
		defer func() {
			if cerr := closeJournal(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		sim.SetJournal(j)
	}

	p := message.NewPrinter(language.English)
	name := rs.Config().Name()
	var (
		st   *stats.StatReport
		est  *stats.EstimatorPlayers
		used time.Duration
	)
	switch {
	case cfg.players > 0:
		p.Fprintf(w, "%s[WORKERS:%d] [GAME:%s] [SEED:%d] [PLAYERS:%d BALANCE:%s STAKE:%s ROUNDS:%d]%s\n",
			green, cfg.workers, name, sim.Seed(), cfg.players, balance, stake, cfg.rounds, resetColor)
		st, est, used, err = sim.SimPlayers(cfg.workers, cfg.players, balance, stake, cfg.rounds, cfg.pb)
	case cfg.workers == 1:
		p.Fprintf(w, "%s[GAME:%s] [SEED:%d] [STAKE:%s] [ROUNDS:%d]%s\n", green, name, sim.Seed(), stake, cfg.rounds, resetColor)
		st, used, err = sim.Sim(stake, cfg.rounds, cfg.pb)
	default:
		p.Fprintf(w, "%s[WORKERS:%d] [GAME:%s] [SEED:%d] [STAKE:%s] [ROUNDS:%d]%s\n",
			green, cfg.workers, name, sim.Seed(), stake, cfg.workers*cfg.rounds, resetColor)
		st, used, err = sim.SimMP(stake, cfg.rounds, cfg.workers, cfg.pb)
	}
	if err != nil {
		return err
	}
	return report(w, cfg.format, st, est, used)
}

// openJournal 建立 journal 檔；回傳的 close 先收尾壓縮串流再關檔
func openJournal(path string) (*recorder.Journal, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errs.Wrap(err, "create journal")
	}
	j, err := recorder.NewJournal(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		jerr := j.Close()
		if ferr := f.Close(); ferr != nil && jerr == nil {
			jerr = errs.Wrap(ferr, "close journal file")
		}
		return jerr
	}
	return j, closeFn, nil
}

func report(w io.Writer, format string, st *stats.StatReport, est *stats.EstimatorPlayers, used time.Duration) error {
	if format == "table" {
		message.NewPrinter(language.English).Fprintf(w, "used: %v (%d rounds)\n", used.Round(time.Millisecond), st.Summary.Rounds)
	}
	if err := st.WriteWith(w, stats.RenderByName(format)); err != nil {
		return errs.Wrap(err, "render report")
	}
	if est == nil {
		return nil
	}
	switch format {
	case "json":
		return (&stats.JsonEstimatorRender{}).Write(w, est)
	case "yaml":
		io.WriteString(w, "---\n")
		return (&stats.YAMLEstimatorRender{}).Write(w, est)
	default:
		est.Out(w)
		return nil
	}
}
