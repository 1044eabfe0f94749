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
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 相同實作下 New(seed) 必須是決定性的：相同 seed 產生相同輸出序列，
// 模擬與測試才能重現同一串停輪結果。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 預設工廠（PCG64）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// NewSeed 從加密亂數來源取得一個非負 seed
func NewSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0
	}
	return n.Int64()
}

// Core 封裝 PRNG，並提供停輪取樣等工具方法。
type Core struct {
	PRNG
	seed int64
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{PRNG: rng}
}

// NewWithSeed 以工廠與 seed 建立 Core 並保留 seed 供回放
func NewWithSeed(f PRNGFactory, seed int64) *Core {
	return &Core{PRNG: f.New(seed), seed: seed}
}

// Seed 回傳建立時的 seed（以 New 建立者為 0）
func (c *Core) Seed() int64 { return c.seed }

// Stops 為每一軸抽一個 [0,stripLen) 的均勻停輪位置，寫入 dst 並回傳。
//
// dst 長度不足時會重新配置；stripLen <= 0 時全部填 0。
func (c *Core) Stops(dst []int, reels int, stripLen int) []int {
	if cap(dst) < reels {
		dst = make([]int, reels)
	}
	dst = dst[:reels]
	for i := range dst {
		if stripLen <= 0 {
			dst[i] = 0
			continue
		}
		dst[i] = c.IntN(stripLen)
	}
	return dst
}
