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

package bet

import (
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
)

// StakeObserver 押注變動時被同步呼叫
type StakeObserver interface {
	OnStake(stake decimal.Decimal)
}

// StakeObserverFunc 讓一般函式滿足 StakeObserver
type StakeObserverFunc func(stake decimal.Decimal)

func (f StakeObserverFunc) OnStake(stake decimal.Decimal) { f(stake) }

// Stepper 在固定的押注階梯上移動，兩端夾住（超出不動作）。
type Stepper struct {
	levels []decimal.Decimal
	idx    int
	obs    StakeObserver
}

// New 建立押注階梯，初始在第 0 階；obs 非 nil 時立即以初始押注通知一次。
// levels 需非空且嚴格遞增。
func New(levels []decimal.Decimal, obs StakeObserver) (*Stepper, error) {
	if len(levels) == 0 {
		return nil, errs.NewFatal("bet levels is empty")
	}
	for i := 1; i < len(levels); i++ {
		if !levels[i].GreaterThan(levels[i-1]) {
			return nil, errs.Fatalf("bet levels must be strictly ascending at %d", i)
		}
	}
	cp := make([]decimal.Decimal, len(levels))
	copy(cp, levels)
	s := &Stepper{levels: cp, obs: obs}
	s.notify()
	return s, nil
}

// Current 目前押注
func (s *Stepper) Current() decimal.Decimal { return s.levels[s.idx] }

// Index 目前所在階
func (s *Stepper) Index() int { return s.idx }

// Levels 回傳階梯複本
func (s *Stepper) Levels() []decimal.Decimal {
	cp := make([]decimal.Decimal, len(s.levels))
	copy(cp, s.levels)
	return cp
}

// Inc 往上一階，已在最高階時不動作；回傳是否有變動
func (s *Stepper) Inc() bool {
	if s.idx >= len(s.levels)-1 {
		return false
	}
	s.idx++
	s.notify()
	return true
}

// Dec 往下一階，已在最低階時不動作；回傳是否有變動
func (s *Stepper) Dec() bool {
	if s.idx <= 0 {
		return false
	}
	s.idx--
	s.notify()
	return true
}

func (s *Stepper) notify() {
	if s.obs != nil {
		s.obs.OnStake(s.levels[s.idx])
	}
}
