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

import "github.com/zintix-labs/reelspin/errs"

// BufferRows 每軸上下各一顆隱藏的緩衝圖標
const BufferRows = 2

// ReelSetting 描述盤面幾何。
//
// Fields:
//   - ReelCount: 軸數
//   - RowCount: 可見列數
//   - SymbolSize: 單顆圖標邊長（同時也是捲動距離單位）
//   - ReelPadding: 軸與軸之間的間距
//   - SlotCount: 每軸實際持有的圖標數 = RowCount + BufferRows
type ReelSetting struct {
	ReelCount   int     `yaml:"reel_count"   json:"reelCount"`
	RowCount    int     `yaml:"row_count"    json:"rowCount"`
	SymbolSize  float64 `yaml:"symbol_size"  json:"symbolSize"`
	ReelPadding float64 `yaml:"reel_padding" json:"reelPadding"`
	SlotCount   int     `yaml:"-"            json:"-"`
	initFlag    bool
}

// Init 檢查不合法的設定
func (rs *ReelSetting) Init() error {
	if rs.initFlag {
		return nil
	}
	if rs.ReelCount <= 0 || rs.RowCount <= 0 {
		return errs.Fatalf("invalid reel dimensions: reels=%d rows=%d", rs.ReelCount, rs.RowCount)
	}
	if rs.SymbolSize <= 0 {
		return errs.Fatalf("invalid symbol size: %v", rs.SymbolSize)
	}
	if rs.ReelPadding < 0 {
		return errs.Fatalf("invalid reel padding: %v", rs.ReelPadding)
	}
	rs.SlotCount = rs.RowCount + BufferRows
	rs.initFlag = true
	return nil
}

// Width 回傳整組軸的總寬
func (rs *ReelSetting) Width() float64 {
	n := float64(rs.ReelCount)
	return n*rs.SymbolSize + (n-1)*rs.ReelPadding
}

// Height 回傳可見區域高度
func (rs *ReelSetting) Height() float64 {
	return float64(rs.RowCount) * rs.SymbolSize
}
