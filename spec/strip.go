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

package spec

// Strip 輪帶：循環的符號 id 序列。
//
// 所有索引運算都先經過 Wrap 落在 [0, Len())，負數索引同樣成立。
type Strip struct {
	ids []string
}

// NewStrip 以符號 id 建立輪帶（會複製一份，外部修改不影響輪帶）。
func NewStrip(ids []string) Strip {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return Strip{ids: cp}
}

// Len 回傳輪帶長度
func (s Strip) Len() int { return len(s.ids) }

// Wrap 把任意整數索引正規化到 [0, Len())。空輪帶回傳 0。
func (s Strip) Wrap(i int) int {
	n := len(s.ids)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// At 回傳索引位置（已 wrap）上的符號 id
func (s Strip) At(i int) string {
	return s.ids[s.Wrap(i)]
}

// IDs 回傳輪帶內容的複本
func (s Strip) IDs() []string {
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp
}
