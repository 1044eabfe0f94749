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

package ledger

import (
	"sync"

	"github.com/shopspring/decimal"
)

// BalanceObserver 餘額變動時被同步呼叫，參數為變動後的新餘額
type BalanceObserver interface {
	OnBalance(balance decimal.Decimal)
}

// BalanceObserverFunc 讓一般函式滿足 BalanceObserver
type BalanceObserverFunc func(balance decimal.Decimal)

func (f BalanceObserverFunc) OnBalance(balance decimal.Decimal) { f(balance) }

// Ledger 單一餘額帳本。
//
// 不做餘額檢查：扣款可以讓餘額變成負數。
// 每次 Debit/Credit 後同步通知所有觀察者（於鎖外呼叫，觀察者可回頭讀取 Balance）。
type Ledger struct {
	mu        sync.Mutex
	balance   decimal.Decimal
	observers []BalanceObserver
}

// New 以初始餘額建立帳本
func New(initial decimal.Decimal) *Ledger {
	return &Ledger{balance: initial}
}

// Observe 註冊觀察者並立即以目前餘額通知一次
func (l *Ledger) Observe(o BalanceObserver) {
	if o == nil {
		return
	}
	l.mu.Lock()
	l.observers = append(l.observers, o)
	b := l.balance
	l.mu.Unlock()
	o.OnBalance(b)
}

// Balance 目前餘額
func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Debit 扣款並回傳新餘額
func (l *Ledger) Debit(amount decimal.Decimal) decimal.Decimal {
	return l.apply(amount.Neg())
}

// Credit 入帳並回傳新餘額
func (l *Ledger) Credit(amount decimal.Decimal) decimal.Decimal {
	return l.apply(amount)
}

func (l *Ledger) apply(delta decimal.Decimal) decimal.Decimal {
	l.mu.Lock()
	l.balance = l.balance.Add(delta)
	b := l.balance
	obs := l.observers
	l.mu.Unlock()
	for _, o := range obs {
		o.OnBalance(b)
	}
	return b
}
