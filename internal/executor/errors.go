package executor

import "errors"

// Error kinds for one trade request. Every fatal condition aborts the current
// request only; none terminates the long-lived session process.
var (
	// ErrSessionLost means the session handle was unusable and healing failed.
	ErrSessionLost = errors.New("session lost")
	// ErrPanelNotFound means the trade panel never appeared after the guard's
	// retry budget.
	ErrPanelNotFound = errors.New("trade panel not found")
	// ErrPairSelection means the full pair-selection sequence exhausted its
	// retries; the request failed without acting on amount or direction.
	ErrPairSelection = errors.New("pair selection failed")
	// ErrAmountSet means both amount strategies failed.
	ErrAmountSet = errors.New("amount set failed")
	// ErrDirectionClick means the buy/sell click failed after retries. This
	// can occur after partial UI mutation, so the in-flight flag is still
	// cleared on this path.
	ErrDirectionClick = errors.New("direction click failed")
	// ErrClosedTabUnreachable means the closed-deals tab could not be opened.
	ErrClosedTabUnreachable = errors.New("closed deals tab unreachable")
	// ErrNoClosedRow means no settled deal row became visible in time.
	ErrNoClosedRow = errors.New("no closed deal row")
)

// Classify maps a core error to the stable classification string surfaced by
// the HTTP layer.
func Classify(err error) string {
	switch {
	case errors.Is(err, ErrSessionLost):
		return "SESSION_LOST"
	case errors.Is(err, ErrPanelNotFound):
		return "PANEL_NOT_FOUND"
	case errors.Is(err, ErrPairSelection):
		return "PAIR_SELECTION_FAILED"
	case errors.Is(err, ErrAmountSet):
		return "AMOUNT_SET_FAILED"
	case errors.Is(err, ErrDirectionClick):
		return "DIRECTION_CLICK_FAILED"
	case errors.Is(err, ErrClosedTabUnreachable):
		return "CLOSED_TAB_UNREACHABLE"
	case errors.Is(err, ErrNoClosedRow):
		return "NO_CLOSED_ROW"
	default:
		return "INTERNAL"
	}
}
