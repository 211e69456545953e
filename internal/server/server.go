// Package server exposes the executor over a small JSON-over-HTTP surface.
// This API is a local control plane, not a public one: no auth, no TLS, bind
// it to localhost.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"po-executor/internal/executor"
	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/types"
)

// AliveChecker is the slice of the browser session the health endpoint reads.
type AliveChecker interface {
	Alive() bool
}

type Server struct {
	exec interfaces.Executor
	page AliveChecker
	mux  *http.ServeMux
}

func New(exec interfaces.Executor, page AliveChecker) *Server {
	s := &Server{exec: exec, page: page, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /trade", s.handleTrade)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type tradeRequest struct {
	Pair      string  `json:"pair"`
	Amount    float64 `json:"amount"`
	Direction string  `json:"direction"`
	Tag       string  `json:"tag"`
}

type tradeResponse struct {
	Success   bool    `json:"success"`
	ID        string  `json:"id,omitempty"`
	Outcome   string  `json:"outcome,omitempty"`
	Profit    float64 `json:"profit"`
	Pair      string  `json:"pair,omitempty"`
	Amount    float64 `json:"amount,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Tag       string  `json:"tag,omitempty"`
	Error     string  `json:"error,omitempty"`
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var in tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, tradeResponse{Success: false, Error: "invalid JSON body"})
		return
	}
	if in.Pair == "" || in.Amount <= 0 || in.Direction == "" {
		writeJSON(w, http.StatusBadRequest, tradeResponse{Success: false, Error: "pair, amount and direction are required"})
		return
	}
	dir, err := types.ParseDirection(in.Direction)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, tradeResponse{Success: false, Error: err.Error()})
		return
	}

	req := types.TradeRequest{Pair: in.Pair, Amount: in.Amount, Direction: dir, Tag: in.Tag}

	// The trade outlives the HTTP exchange by design: even if the caller
	// disconnects mid-expiry, the committed trade runs to settlement.
	ctx := context.WithoutCancel(r.Context())

	res, err := s.exec.Execute(ctx, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, tradeResponse{
			Success: false,
			ID:      res.ID,
			Error:   executor.Classify(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, tradeResponse{
		Success:   true,
		ID:        res.ID,
		Outcome:   string(res.Outcome),
		Profit:    res.Profit,
		Pair:      res.Pair,
		Amount:    res.Amount,
		Direction: string(res.Direction),
		Tag:       res.Tag,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":            true,
		"session_alive": s.page.Alive(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn(context.Background(), "response encode failed", "error", err)
	}
}
