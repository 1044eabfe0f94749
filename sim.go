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

package reelspin

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/ledger"
	"github.com/zintix-labs/reelspin/sdk/outcome"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

const capPrepare int = 100

// Simulator 不跑動畫，直接以 Generator 大量出局並統計。
//
// 每個 worker 各自持有 Generator（獨立帳本與亂數核心）與 SpinRecorder，結束後合併。
// Simulator 本身不是並行安全的：同一時間只能執行一個 Sim* 方法。
type Simulator struct {
	GameName  string
	cfg       *spec.Config
	lines     []spec.Payline
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker
	journal   *recorder.Journal
	jmu       sync.Mutex
	jerr      error
	gBuf      []*outcome.Generator
	rBuf      []*recorder.SpinRecorder
	sBuf      []*stats.StatReport
}

func newSimulatorWithSeed(cfg *spec.Config, lines []spec.Payline, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	s := &Simulator{
		GameName:  cfg.Name(),
		cfg:       cfg,
		lines:     lines,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		gBuf:      make([]*outcome.Generator, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	g, err := s.newGenerator(seed)
	if err != nil {
		return nil, err
	}
	s.gBuf[0] = g
	return s, nil
}

// Seed 模擬器的初始 seed（第一台 Generator 使用）
func (s *Simulator) Seed() int64 { return s.initSeed }

// SetJournal 之後每一局結果都寫入 journal（nil 關閉）
func (s *Simulator) SetJournal(j *recorder.Journal) { s.journal = j }

// Sim 單線模擬：以一台 Generator 連續跑指定 rounds 並回傳統計結果與用時
func (s *Simulator) Sim(stake decimal.Decimal, rounds int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := s.validStake(stake); err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	r, err := s.newRecorder(stake, s.cfg.InitBalance())
	if err != nil {
		return nil, 0, err
	}
	g := s.gBuf[0]

	bar := newBar(rounds, showpb)
	for i := 0; i < rounds; i++ {
		o := s.spin(g, stake)
		r.Record(&o)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err := s.journalErr(); err != nil {
		return nil, 0, err
	}

	result := r.Done()
	result.Done()
	return result, used, nil
}

// SimMP 平行執行 mp 台 Generator，總計 rounds*mp 局，合併統計結果後回傳
func (s *Simulator) SimMP(stake decimal.Decimal, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if err := s.validStake(stake); err != nil {
		return nil, 0, err
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("round must > 0")
	}
	if err := s.prepareGenerators(mp); err != nil {
		return nil, 0, err
	}
	for len(s.rBuf) < mp {
		r, err := s.newRecorder(stake, s.cfg.InitBalance())
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			g := s.gBuf[i]
			rec := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				o := s.spin(g, stake)
				rec.Record(&o)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err := s.journalErr(); err != nil {
		return nil, 0, err
	}

	result := s.rBuf[0].Done()
	for _, r := range s.rBuf[1:] {
		result.Merge(r.Done())
	}
	result.Done()
	return result, used, nil
}

// SimPlayers 模擬多位玩家各自帶入初始資金、最多玩 rounds 局（破產或翻三倍即離場），
// 回傳機台合併報表與玩家體驗估計。
func (s *Simulator) SimPlayers(mp int, players int, initBalance decimal.Decimal, stake decimal.Decimal, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || rounds < 1 || mp < 1 || !initBalance.IsPositive() {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	if err := s.validStake(stake); err != nil {
		return nil, nil, 0, err
	}
	if err := s.prepareGenerators(mp); err != nil {
		return nil, nil, 0, err
	}
	for len(s.rBuf) < players {
		r, err := s.newRecorder(stake, initBalance)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	// 玩家依序排隊，由 mp 台機台取用
	jobs := make(chan *recorder.SpinRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(players, showpb)
	for w := 0; w < mp; w++ {
		go s.simPlayer(wg, s.gBuf[w], jobs, stake, rounds, bar)
	}
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err := s.journalErr(); err != nil {
		return nil, nil, 0, err
	}

	s.sBuf = make([]*stats.StatReport, len(s.rBuf))
	st := s.rBuf[0].Done()
	for i, r := range s.rBuf {
		if i > 0 {
			st.Merge(r.Done())
		}
		s.sBuf[i] = r.Done()
		s.sBuf[i].Done()
	}
	st.Done()
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

func (s *Simulator) simPlayer(wg *sync.WaitGroup, g *outcome.Generator, jobs chan *recorder.SpinRecorder, stake decimal.Decimal, rounds int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs {
		for range rounds {
			o := s.spin(g, stake)
			if j.RecordWithPlayer(&o) {
				break
			}
		}
		bar.Increment()
	}
}

// spin 出一局並立即入帳（模擬沒有演出階段）
func (s *Simulator) spin(g *outcome.Generator, stake decimal.Decimal) outcome.Outcome {
	o := g.Spin(stake)
	balance := g.CreditWin(o.Win)
	if s.journal != nil {
		if err := s.journal.Write(o, balance); err != nil {
			s.setJournalErr(err)
		}
	}
	return o
}

func (s *Simulator) setJournalErr(err error) {
	s.jmu.Lock()
	defer s.jmu.Unlock()
	if s.jerr == nil {
		s.jerr = err
	}
}

// journalErr 刷新 journal 並回傳本次模擬的第一個寫入錯誤
func (s *Simulator) journalErr() error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.Flush(); err != nil {
		s.setJournalErr(err)
	}
	s.jmu.Lock()
	defer s.jmu.Unlock()
	return s.jerr
}

func (s *Simulator) prepareGenerators(n int) error {
	for len(s.gBuf) < n {
		g, err := s.newGenerator(s.seedmaker.next())
		if err != nil {
			return err
		}
		s.gBuf = append(s.gBuf, g)
	}
	return nil
}

func (s *Simulator) newGenerator(seed int64) (*outcome.Generator, error) {
	g := outcome.New(s.cfg,
		outcome.WithCore(core.NewWithSeed(s.cf, seed)),
		outcome.WithLedger(ledger.New(s.cfg.InitBalance())),
	)
	if err := g.SetPaylines(s.lines); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Simulator) newRecorder(stake, initBalance decimal.Decimal) (*recorder.SpinRecorder, error) {
	return recorder.NewSpinRecorder(s.GameName, stake, len(s.lines), initBalance, s.initSeed)
}

// validStake 模擬只接受設定中的押注階梯
func (s *Simulator) validStake(stake decimal.Decimal) error {
	for _, lv := range s.cfg.BetLevels() {
		if lv.Equal(stake) {
			return nil
		}
	}
	return errs.Warnf("stake %s is not a configured bet level", stake)
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.jmu.Lock()
	s.jerr = nil
	s.jmu.Unlock()
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.StartNew(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆的 mix63 打散；CAS 保證併發下每次取得唯一值
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63：只用可逆的 bit 操作與乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
