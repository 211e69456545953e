package executor

import (
	"context"
	"strings"
	"time"

	"po-executor/internal/browser"
	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/selectors"
)

// pairSelector converges the UI's active instrument to the requested pair,
// opening the picker only when the displayed symbol does not already match.
type pairSelector struct {
	page     interfaces.Page
	sel      selectors.Table
	overlays *overlayDismisser
	attempts int
	backoff  time.Duration
	settle   time.Duration
}

const labelReadTimeout = 800 * time.Millisecond

// NormalizePair produces the search string for the instrument picker: the
// " OTC" suffix and "/" separator are dropped and the rest lowercased, which
// is the form the platform's search field filters on.
func NormalizePair(pair string) string {
	p := strings.ToLower(strings.TrimSpace(pair))
	p = strings.TrimSuffix(p, " otc")
	p = strings.ReplaceAll(p, "/", "")
	return strings.TrimSpace(p)
}

// displayedNeedle is the fragment the currently displayed symbol must contain
// for the instrument to count as already selected.
func displayedNeedle(pair string) string {
	p := strings.ToLower(strings.TrimSpace(pair))
	return strings.TrimSpace(strings.TrimSuffix(p, " otc"))
}

// EnsurePair makes the active instrument match the requested pair. When the
// displayed symbol already matches, it only dismisses stray overlays and
// returns: re-selecting an already-correct pair is both unnecessary and the
// flakiest interaction on the page.
func (ps *pairSelector) EnsurePair(ctx context.Context, pair string) error {
	rctx, cancel := context.WithTimeout(ctx, labelReadTimeout)
	current, err := ps.page.Text(rctx, ps.sel.For(selectors.SymbolToggle))
	cancel()
	if err != nil {
		// Unknown label is not fatal; proceed to explicit selection.
		current = ""
	}

	if current != "" && strings.Contains(strings.ToLower(current), displayedNeedle(pair)) {
		logger.Debug(ctx, "pair already selected", "pair", pair, "displayed", current)
		ps.overlays.Close(ctx)
		return nil
	}

	err = withRetry(ctx, ps.attempts, ps.backoff, "open asset picker", func(ctx context.Context) error {
		if err := ps.page.Click(ctx, ps.sel.For(selectors.SymbolToggle)); err != nil {
			return err
		}
		return ps.page.WaitVisible(ctx, ps.sel.For(selectors.AssetOverlay))
	})
	if err != nil {
		return err
	}

	query := NormalizePair(pair)
	if err := ps.page.Fill(ctx, ps.sel.For(selectors.SearchInput), ""); err != nil {
		return err
	}
	if err := ps.page.Click(ctx, ps.sel.For(selectors.SearchInput)); err != nil {
		return err
	}
	if err := ps.page.TypeText(ctx, query); err != nil {
		return err
	}
	// Keystrokes are not individually awaited; a fixed settle delay stands in
	// for a DOM-stability signal the page does not offer.
	time.Sleep(ps.settle)

	err = withRetry(ctx, ps.attempts, ps.backoff, "select pair from list", func(ctx context.Context) error {
		return ps.page.ClickText(ctx, ps.sel.For(selectors.PairListItem), pair)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, "pair selected", "pair", pair)

	// Force-dismiss the picker so no residual modal blocks the next step.
	_ = ps.page.Press(ctx, browser.KeyEscape)
	ps.overlays.Close(ctx)
	return nil
}
