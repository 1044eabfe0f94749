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
	"testing"

	"github.com/shopspring/decimal"
)

func defaultLevels() []decimal.Decimal {
	out := []decimal.Decimal{}
	for _, v := range []int64{1, 5, 10, 25, 50, 100} {
		out = append(out, decimal.NewFromInt(v))
	}
	return out
}

func TestStepperIncClamps(t *testing.T) {
	s, err := New(defaultLevels(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{5, 10, 25, 50, 100, 100}
	for i, w := range want {
		s.Inc()
		if !s.Current().Equal(decimal.NewFromInt(w)) {
			t.Fatalf("step %d: got %s want %d", i, s.Current(), w)
		}
	}
}

func TestStepperDecClamps(t *testing.T) {
	s, _ := New(defaultLevels(), nil)
	if s.Dec() {
		t.Fatalf("dec at level 0 must be a no-op")
	}
	if !s.Current().Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 1, got %s", s.Current())
	}
}

func TestStepperNotifies(t *testing.T) {
	var seen []string
	s, _ := New(defaultLevels(), StakeObserverFunc(func(d decimal.Decimal) {
		seen = append(seen, d.String())
	}))
	s.Inc()
	s.Dec()
	s.Dec()
	want := []string{"1", "5", "1"}
	if len(seen) != len(want) {
		t.Fatalf("unexpected notifications: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("notification %d: %s != %s", i, seen[i], want[i])
		}
	}
}

func TestStepperRejectsBadLevels(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error for empty levels")
	}
	bad := []decimal.Decimal{decimal.NewFromInt(5), decimal.NewFromInt(5)}
	if _, err := New(bad, nil); err == nil {
		t.Fatalf("expected error for non ascending levels")
	}
}
