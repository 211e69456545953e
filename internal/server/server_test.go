package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"po-executor/internal/executor"
	"po-executor/internal/types"
)

type stubExecutor struct {
	res types.TradeResult
	err error
	got *types.TradeRequest
}

func (s *stubExecutor) Execute(ctx context.Context, req types.TradeRequest) (types.TradeResult, error) {
	s.got = &req
	return s.res, s.err
}

type stubAlive bool

func (s stubAlive) Alive() bool { return bool(s) }

func postTrade(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/trade", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Response is not JSON: %v", err)
	}
	return out
}

func TestTradeSuccess(t *testing.T) {
	exec := &stubExecutor{res: types.TradeResult{
		ID:        "01TEST",
		Outcome:   types.OutcomeWin,
		Profit:    8.4,
		Pair:      "EUR/JPY OTC",
		Amount:    5,
		Direction: types.DirectionBuy,
		Tag:       "manual",
	}}
	srv := New(exec, stubAlive(true))

	rec := postTrade(t, srv, `{"pair":"EUR/JPY OTC","amount":5,"direction":"buy","tag":"manual"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["success"] != true {
		t.Error("Expected success true")
	}
	if out["outcome"] != "WIN" {
		t.Errorf("Expected WIN, got %v", out["outcome"])
	}
	if out["profit"] != 8.4 {
		t.Errorf("Expected profit 8.4, got %v", out["profit"])
	}
	if exec.got == nil || exec.got.Direction != types.DirectionBuy {
		t.Errorf("Direction not parsed into request: %+v", exec.got)
	}
}

func TestTradeValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing pair", `{"amount":5,"direction":"buy"}`},
		{"missing amount", `{"pair":"EUR/JPY","direction":"buy"}`},
		{"negative amount", `{"pair":"EUR/JPY","amount":-1,"direction":"buy"}`},
		{"missing direction", `{"pair":"EUR/JPY","amount":5}`},
		{"bad direction", `{"pair":"EUR/JPY","amount":5,"direction":"hold"}`},
	}

	exec := &stubExecutor{}
	srv := New(exec, stubAlive(true))

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postTrade(t, srv, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			out := decode(t, rec)
			if out["success"] != false {
				t.Error("Expected success false")
			}
			if out["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
	if exec.got != nil {
		t.Error("Invalid requests must never reach the executor")
	}
}

func TestTradeExecutorFailure(t *testing.T) {
	exec := &stubExecutor{err: executor.ErrPairSelection}
	srv := New(exec, stubAlive(true))

	rec := postTrade(t, srv, `{"pair":"EUR/JPY","amount":5,"direction":"sell"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["success"] != false {
		t.Error("Expected success false")
	}
	if out["error"] != "PAIR_SELECTION_FAILED" {
		t.Errorf("Expected PAIR_SELECTION_FAILED, got %v", out["error"])
	}
}

func TestHealth(t *testing.T) {
	srv := New(&stubExecutor{}, stubAlive(false))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	out := decode(t, rec)
	if out["ok"] != true {
		t.Error("Expected ok true")
	}
	if out["session_alive"] != false {
		t.Error("Expected session_alive false")
	}
}
