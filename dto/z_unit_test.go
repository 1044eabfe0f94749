package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelspin/corefmt"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/outcome"
)

func TestDecodeSpinRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/spin?stake=25", nil)
	req, err := DecodeSpinRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Stake == nil || !req.Stake.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected request: %+v", req)
	}
	r = httptest.NewRequest(http.MethodGet, "/v1/spin?stake=abc", nil)
	if _, err := DecodeSpinRequest(r); errs.Level(err) != errs.Warn {
		t.Fatalf("expected warn, got %v", err)
	}
}

func TestDecodeSpinRequestPOST(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/spin", strings.NewReader(`{"stake":"5"}`))
	req, err := DecodeSpinRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.Stake.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected stake: %s", req.Stake)
	}

	// 空 body 使用目前押注
	r = httptest.NewRequest(http.MethodPost, "/v1/spin", nil)
	req, err = DecodeSpinRequest(r)
	if err != nil || req.Stake != nil {
		t.Fatalf("empty body: %+v %v", req, err)
	}
}

func TestDecodeSpinRequestRejects(t *testing.T) {
	cases := []struct {
		name   string
		method string
		body   string
	}{
		{"unknown field", http.MethodPost, `{"stake":1,"unknown":true}`},
		{"negative", http.MethodPost, `{"stake":-1}`},
		{"broken json", http.MethodPost, `{"stake":`},
		{"method", http.MethodDelete, ``},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := httptest.NewRequest(c.method, "/v1/spin", strings.NewReader(c.body))
			_, err := DecodeSpinRequest(r)
			if err == nil {
				t.Fatalf("expected error")
			}
			if errs.Level(err) != errs.Warn {
				t.Fatalf("bad input should be warn, got %v", err)
			}
		})
	}
}

func TestDecodeSimRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/sim?rounds=500&seed=7&stake=5&workers=2&format=YAML", nil)
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Rounds != 500 || req.Seed != 7 || req.Workers != 2 || req.Format != "yaml" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !req.Stake.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected stake: %s", req.Stake)
	}

	def, err := DecodeSimRequest(httptest.NewRequest(http.MethodGet, "/v1/sim", nil))
	if err != nil || def.Rounds != 10_000 || def.Workers != 1 || def.Format != "json" || def.Stake != nil {
		t.Fatalf("defaults: %+v %v", def, err)
	}

	for _, q := range []string{"rounds=0", "rounds=2000000", "players=-1", "workers=0", "format=xml", "seed=x"} {
		if _, err := DecodeSimRequest(httptest.NewRequest(http.MethodGet, "/v1/sim?"+q, nil)); err == nil {
			t.Fatalf("%s: expected error", q)
		}
	}
}

func TestDecodeReplayRequest(t *testing.T) {
	snap := []byte("pcg:0123456789abcdef0123456789abcdef")
	body, _ := json.Marshal(map[string]any{"start_b64u": corefmt.EncodeBase64URL(snap), "stake": "2"})
	req, err := DecodeReplayRequest(httptest.NewRequest(http.MethodPost, "/v1/replay", bytes.NewReader(body)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(req.Start, snap) || !req.Stake.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected request: %+v", req)
	}
	if _, err := DecodeReplayRequest(httptest.NewRequest(http.MethodPost, "/v1/replay", strings.NewReader(`{"stake":"1"}`))); err == nil {
		t.Fatalf("missing snapshot should fail")
	}
	if _, err := DecodeReplayRequest(httptest.NewRequest(http.MethodGet, "/v1/replay", nil)); err == nil {
		t.Fatalf("GET should fail")
	}
}

func TestNewSpinOutcome(t *testing.T) {
	o := &outcome.Outcome{
		Round: 3,
		Stops: []int{1, 2, 3, 4, 5},
		Hits: []calc.Hit{{
			LineID: 2, Label: "5x", Count: 5, SymbolID: "bell",
			Coords: []calc.Coord{{Reel: 0, Row: 0}, {Reel: 1, Row: 0}, {Reel: 2, Row: 0}, {Reel: 3, Row: 0}, {Reel: 4, Row: 0}},
			Win:    decimal.NewFromInt(20),
		}},
		Stake:     decimal.NewFromInt(1),
		Win:       decimal.NewFromInt(20),
		Tag:       outcome.TagWin,
		StartSnap: []byte{1, 2, 3},
	}
	grid := [][]string{{"bell", "bell", "bell", "bell", "bell"}}
	out, err := NewSpinOutcome(o, grid, decimal.NewFromInt(1019))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.Stops[0] = 99
	if out.Stops[0] != 1 {
		t.Fatalf("stops must be copied")
	}
	if len(out.Hits) != 1 || out.Hits[0].Coords[4] != [2]int{4, 0} || out.StartB64U != "AQID" {
		t.Fatalf("unexpected dto: %+v", out)
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"win":"20"`) || !strings.Contains(string(data), `"balance":"1019"`) {
		t.Fatalf("unexpected json: %s", data)
	}
	if _, err := NewSpinOutcome(nil, nil, decimal.Zero); err == nil {
		t.Fatalf("nil outcome should fail")
	}
}
