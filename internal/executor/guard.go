package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/selectors"
)

// navGuard is the sole authority for "is the session usable". It is
// idempotent and safe to call redundantly; every trade-placing entry point
// runs it first so upstream partial failures cannot leave a later step
// driving a dead session.
type navGuard struct {
	page         interfaces.Page
	sel          selectors.Table
	host         string
	tradeURL     string
	attempts     int
	backoff      time.Duration
	panelTimeout time.Duration
}

// EnsureSessionUsable heals a dead session, navigates back to the platform
// when the page has wandered off it, and confirms the trade panel is present.
func (g *navGuard) EnsureSessionUsable(ctx context.Context) error {
	if !g.page.Alive() {
		logger.Warn(ctx, "browser session not alive, healing")
		if err := g.page.Recreate(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrSessionLost, err)
		}
	}

	url, err := g.page.URL(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionLost, err)
	}
	if !strings.Contains(url, g.host) {
		logger.Info(ctx, "navigating to trade page", "from", url, "to", g.tradeURL)
		if err := g.page.Navigate(ctx, g.tradeURL); err != nil {
			return fmt.Errorf("%w: %v", ErrSessionLost, err)
		}
		g.page.Capture(ctx, "navigate")
	}

	err = withRetry(ctx, g.attempts, g.backoff, "wait trade panel", func(ctx context.Context) error {
		wctx, cancel := context.WithTimeout(ctx, g.panelTimeout)
		defer cancel()
		return g.page.WaitVisible(wctx, g.sel.For(selectors.TradePanel))
	})
	if err != nil {
		g.page.Capture(ctx, "panel-missing")
		return fmt.Errorf("%w: %v", ErrPanelNotFound, err)
	}
	return nil
}

// EnsurePageAlive is the lighter-weight precondition run before every trade:
// a quick panel visibility check, one reload when it is missing, then the
// full usability check.
func (g *navGuard) EnsurePageAlive(ctx context.Context) error {
	if !g.page.Alive() {
		return g.EnsureSessionUsable(ctx)
	}

	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	visible := g.page.Visible(cctx, g.sel.For(selectors.TradePanel))
	cancel()
	if visible {
		return nil
	}

	logger.Warn(ctx, "trade panel not visible, reloading")
	if err := g.page.Reload(ctx); err != nil {
		logger.Warn(ctx, "reload failed", "error", err)
	}
	return g.EnsureSessionUsable(ctx)
}
