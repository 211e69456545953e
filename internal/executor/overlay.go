package executor

import (
	"context"
	"time"

	"po-executor/internal/browser"
	"po-executor/internal/interfaces"
	"po-executor/internal/selectors"
)

// overlayDismisser closes stray modals and dropdowns that would otherwise
// swallow clicks meant for the trade panel.
type overlayDismisser struct {
	page interfaces.Page
	sel  selectors.Table
}

const (
	overlayAttempts = 3
	overlayPause    = 120 * time.Millisecond
	overlayCheck    = 500 * time.Millisecond
)

// Close runs a bounded sequence of dismissal gestures: escape, re-check,
// neutral off-overlay click, short pause. It never fails; worst case an
// overlay stays open and the caller's next step errors at the right layer
// instead of silently misclicking.
func (o *overlayDismisser) Close(ctx context.Context) {
	for i := 0; i < overlayAttempts; i++ {
		_ = o.page.Press(ctx, browser.KeyEscape)

		cctx, cancel := context.WithTimeout(ctx, overlayCheck)
		visible := o.page.Visible(cctx, o.sel.For(selectors.AssetOverlay))
		cancel()
		if !visible {
			return
		}

		_ = o.page.ClickAt(ctx, 10, 10)
		time.Sleep(overlayPause)
	}
}
