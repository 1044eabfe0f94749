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

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
)

// Symbol 符號定義：id、賠付值與對應的美術資源。
//
// ValueRaw 為設定檔原始數值；Value 為 init 後的十進位賠付值（乘上押注即為單線贏分）。
type Symbol struct {
	ID       string          `yaml:"id"    json:"id"`
	Asset    string          `yaml:"asset" json:"asset"`
	ValueRaw float64         `yaml:"value" json:"value"`
	Value    decimal.Decimal `yaml:"-"     json:"-"`
}

// SymbolSetting 統整所有符號並建立 id 反查表。
type SymbolSetting struct {
	Symbols  []Symbol
	index    map[string]int
	initFlag bool
}

// Init 檢查符號 id 唯一、資源存在並轉換賠付值
func (ss *SymbolSetting) Init() error {
	if ss.initFlag {
		return nil
	}
	if len(ss.Symbols) == 0 {
		return errs.NewFatal("symbols is empty")
	}
	ss.index = make(map[string]int, len(ss.Symbols))
	for i := range ss.Symbols {
		s := &ss.Symbols[i]
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return errs.Fatalf("symbol #%d has empty id", i)
		}
		if _, dup := ss.index[s.ID]; dup {
			return errs.Fatalf("duplicate symbol id: %s", s.ID)
		}
		if strings.TrimSpace(s.Asset) == "" {
			return errs.Fatalf("symbol %s has no asset", s.ID)
		}
		if s.ValueRaw < 0 {
			return errs.Fatalf("symbol %s has negative value %v", s.ID, s.ValueRaw)
		}
		s.Value = decimal.NewFromFloat(s.ValueRaw)
		ss.index[s.ID] = i
	}
	ss.initFlag = true
	return nil
}

// Lookup 依 id 取得符號定義
func (ss *SymbolSetting) Lookup(id string) (Symbol, bool) {
	i, ok := ss.index[id]
	if !ok {
		return Symbol{}, false
	}
	return ss.Symbols[i], true
}
