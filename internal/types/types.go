package types

import (
	"fmt"
	"strings"
	"time"
)

// Direction is the side of a binary-option trade.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// ParseDirection accepts "buy"/"sell" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return DirectionBuy, nil
	case "SELL":
		return DirectionSell, nil
	}
	return "", fmt.Errorf("invalid direction %q: must be 'buy' or 'sell'", s)
}

// Outcome is the final classification of one trade request.
type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
	OutcomeSkipped Outcome = "SKIPPED"
)

// TradeRequest is one inbound trade order. Immutable once accepted.
type TradeRequest struct {
	Pair      string    `json:"pair"`
	Amount    float64   `json:"amount"`
	Direction Direction `json:"direction"`
	Tag       string    `json:"tag,omitempty"`
}

// TradeResult is produced once per accepted request and never mutated.
type TradeResult struct {
	ID        string    `json:"id"`
	Outcome   Outcome   `json:"outcome"`
	Profit    float64   `json:"profit"`
	Pair      string    `json:"pair"`
	Amount    float64   `json:"amount"`
	Direction Direction `json:"direction"`
	Tag       string    `json:"tag,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
