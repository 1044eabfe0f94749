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

package recorder

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/outcome"
)

// Entry 日誌中的一筆紀錄：結果與結算後餘額
type Entry struct {
	Outcome outcome.Outcome `json:"outcome"`
	Balance decimal.Decimal `json:"balance"`
}

// Journal 以 zstd 壓縮的 JSON Lines 逐局寫入結果，可並行呼叫 Write。
//
// 第一個寫入錯誤會被記住，之後的 Write / Flush / Close 都回傳同一個錯誤。
type Journal struct {
	mu  sync.Mutex
	zw  *zstd.Encoder
	enc *json.Encoder
	n   int
	err error
}

func NewJournal(w io.Writer) (*Journal, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd writer failed")
	}
	return &Journal{zw: zw, enc: json.NewEncoder(zw)}, nil
}

// Write 寫入一局
func (j *Journal) Write(o outcome.Outcome, balance decimal.Decimal) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	if j.zw == nil {
		return errs.NewWarn("journal closed")
	}
	if err := j.enc.Encode(Entry{Outcome: o, Balance: balance}); err != nil {
		j.err = errs.Wrap(err, "journal encode failed")
		return j.err
	}
	j.n++
	return nil
}

// Flush 把緩衝中的資料寫到底層 writer
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil || j.zw == nil {
		return j.err
	}
	if err := j.zw.Flush(); err != nil {
		j.err = errs.Wrap(err, "journal flush failed")
	}
	return j.err
}

// Err 第一個寫入錯誤
func (j *Journal) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Len 已寫入筆數
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

// Close 刷新壓縮串流；不關閉底層 writer
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.zw == nil {
		return j.err
	}
	err := j.zw.Close()
	j.zw = nil
	if err != nil && j.err == nil {
		j.err = errs.Wrap(err, "close zstd writer failed")
	}
	return j.err
}

// ReadJournal 讀回整份日誌
func ReadJournal(r io.Reader) ([]Entry, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd reader failed")
	}
	defer zr.Close()

	var out []Entry
	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, errs.Wrap(err, "journal decode failed")
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return out, errs.Wrap(err, "journal read failed")
	}
	return out, nil
}
