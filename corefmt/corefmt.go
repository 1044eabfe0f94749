// Package corefmt 定義亂數核心快照在對外傳輸時的文字編碼。
package corefmt

import (
	"encoding/base64"
	"strings"

	"github.com/zintix-labs/reelspin/errs"
)

// EncodeBase64URL 以 URL-safe、無 padding 的 base64 編碼快照，可直接放在 query string
func EncodeBase64URL(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL 解碼 EncodeBase64URL 的輸出；容忍尾端 padding
func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	if s == "" {
		return nil, errs.NewWarn("decode base64url failed: empty input")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		// 輸入來自呼叫端
		e := errs.Wrap(err, "decode base64url failed")
		e.ErrLv = errs.Warn
		return nil, e
	}
	return b, nil
}
