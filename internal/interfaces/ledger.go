package interfaces

import (
	"context"

	"po-executor/internal/types"
)

// Ledger records completed trades. Append-only; rows are never updated or
// deleted by this system.
type Ledger interface {
	Append(res types.TradeResult) error
}

// Executor accepts trade requests. The HTTP layer depends on this rather
// than the concrete state machine.
type Executor interface {
	Execute(ctx context.Context, req types.TradeRequest) (types.TradeResult, error)
}
