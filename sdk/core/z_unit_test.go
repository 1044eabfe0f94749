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

package core

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestIntNBounds(t *testing.T) {
	c := New(Default().New(3))
	if c.IntN(0) != -1 || c.IntN(-4) != -1 {
		t.Fatalf("expected -1 for non-positive bound")
	}
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 1<<20).Draw(t, "n")
		v := c.IntN(n)
		if v < 0 || v >= n {
			t.Fatalf("IntN(%d)=%d out of range", n, v)
		}
	})
}

func TestStops(t *testing.T) {
	c := NewWithSeed(Default(), 42)
	if c.Seed() != 42 {
		t.Fatalf("seed not kept: %d", c.Seed())
	}
	stops := c.Stops(nil, 5, 20)
	if len(stops) != 5 {
		t.Fatalf("unexpected len: %d", len(stops))
	}
	for _, s := range stops {
		if s < 0 || s >= 20 {
			t.Fatalf("stop out of range: %d", s)
		}
	}
	buf := make([]int, 0, 8)
	out := c.Stops(buf, 3, 20)
	if &out[0] != &buf[:1][0] {
		t.Fatalf("expected dst to be reused")
	}
	for _, s := range c.Stops(nil, 4, 0) {
		if s != 0 {
			t.Fatalf("empty strip must yield zero stops")
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	r := NewPCG64WithSeed(11)
	r.Uint64()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := r.Uint64()
	if err := r.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := r.Uint64(); got != want {
		t.Fatalf("restore mismatch: %d != %d", got, want)
	}
}
