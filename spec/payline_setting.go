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
	"encoding/json"

	"github.com/zintix-labs/reelspin/errs"
	"gopkg.in/yaml.v3"
)

// Payline 一條線：每軸一個列偏移（相對停輪位置）
type Payline []int

// PaylineSetting 線表設定。
//
// 設定檔本身就是一個二維陣列，例如 [[1,1,1,1,1],[0,0,0,0,0],[2,2,2,2,2]]。
type PaylineSetting struct {
	Lines []Payline
}

// Valid 檢查每條線長度等於軸數、偏移落在可見列內（rs 為 nil 時只檢查非空線）
func (ps *PaylineSetting) Valid(rs *ReelSetting) error {
	if rs == nil {
		for i, line := range ps.Lines {
			if len(line) == 0 {
				return errs.Fatalf("payline %d is empty", i+1)
			}
		}
		return nil
	}
	for i, line := range ps.Lines {
		if len(line) != rs.ReelCount {
			return errs.Fatalf("payline %d length %d != reel count %d", i+1, len(line), rs.ReelCount)
		}
		for reel, row := range line {
			if row < 0 || row >= rs.RowCount {
				return errs.Fatalf("payline %d reel %d row %d out of [0,%d)", i+1, reel, row, rs.RowCount)
			}
		}
	}
	return nil
}

// GetPaylinesByJSON 解析 JSON 線表並依盤面檢查（rs 可為 nil，延後到使用端檢查）
func GetPaylinesByJSON(data []byte, rs *ReelSetting) (*PaylineSetting, error) {
	ps := &PaylineSetting{}
	if err := json.Unmarshal(data, &ps.Lines); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal payline json")
	}
	if err := ps.Valid(rs); err != nil {
		return nil, err
	}
	return ps, nil
}

// GetPaylinesByYAML 解析 YAML 線表並依盤面檢查
func GetPaylinesByYAML(data []byte, rs *ReelSetting) (*PaylineSetting, error) {
	ps := &PaylineSetting{}
	if err := yaml.Unmarshal(data, &ps.Lines); err != nil {
		return nil, errs.Wrap(err, "can not unmarshal payline yaml")
	}
	if err := ps.Valid(rs); err != nil {
		return nil, err
	}
	return ps, nil
}
