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
	"testing"

	"github.com/shopspring/decimal"
)

func TestLedgerDebitCreditNotifies(t *testing.T) {
	l := New(decimal.NewFromInt(1000))
	var seen []string
	l.Observe(BalanceObserverFunc(func(b decimal.Decimal) {
		seen = append(seen, b.String())
	}))
	l.Debit(decimal.NewFromInt(25))
	l.Credit(decimal.NewFromFloat(12.5))
	want := []string{"1000", "975", "987.5"}
	if len(seen) != len(want) {
		t.Fatalf("unexpected notifications: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d: got %s want %s", i, seen[i], want[i])
		}
	}
}

func TestLedgerAllowsNegative(t *testing.T) {
	l := New(decimal.NewFromInt(10))
	if got := l.Debit(decimal.NewFromInt(100)); !got.Equal(decimal.NewFromInt(-90)) {
		t.Fatalf("expected -90, got %s", got)
	}
	if !l.Balance().Equal(decimal.NewFromInt(-90)) {
		t.Fatalf("balance mismatch: %s", l.Balance())
	}
}

func TestLedgerObserverMayReadBalance(t *testing.T) {
	l := New(decimal.Zero)
	var got decimal.Decimal
	l.Observe(BalanceObserverFunc(func(decimal.Decimal) { got = l.Balance() }))
	l.Credit(decimal.NewFromInt(3))
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("observer read %s", got)
	}
	l.Observe(nil)
}
