package executor

import (
	"context"
	"strconv"
	"time"

	"po-executor/internal/browser"
	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/selectors"
)

// amountSetter converges the stake field to the requested amount. Resilience
// comes from an ordered strategy list, each tried once, not from nested
// retries: a direct fill first, then a keyboard-driven replacement for masks
// that reject programmatic value writes.
type amountSetter struct {
	page interfaces.Page
	sel  selectors.Table
}

const (
	amountAttachTimeout = 2 * time.Second
	amountFillTimeout   = 1500 * time.Millisecond
)

type amountStrategy struct {
	name string
	run  func(ctx context.Context, value string) error
}

func (as *amountSetter) strategies() []amountStrategy {
	return []amountStrategy{
		{name: "direct fill", run: as.directFill},
		{name: "keyboard replace", run: as.keyboardReplace},
	}
}

// EnsureAmount sets the stake input to value, trying each strategy in order.
func (as *amountSetter) EnsureAmount(ctx context.Context, amount float64) error {
	value := formatAmount(amount)

	// Best-effort attach wait; a timeout here is not fatal because the fill
	// itself will fail loudly if the input truly is not there.
	wctx, cancel := context.WithTimeout(ctx, amountAttachTimeout)
	_ = as.page.WaitVisible(wctx, as.sel.For(selectors.AmountInput))
	cancel()

	var lastErr error
	for _, st := range as.strategies() {
		if err := st.run(ctx, value); err != nil {
			lastErr = err
			logger.Warn(ctx, "amount strategy failed", "strategy", st.name, "error", err)
			continue
		}
		logger.Debug(ctx, "amount set", "value", value, "strategy", st.name)
		return nil
	}
	return lastErr
}

func (as *amountSetter) directFill(ctx context.Context, value string) error {
	fctx, cancel := context.WithTimeout(ctx, amountFillTimeout)
	defer cancel()
	return as.page.Fill(fctx, as.sel.For(selectors.AmountInput), value)
}

func (as *amountSetter) keyboardReplace(ctx context.Context, value string) error {
	if err := as.page.Click(ctx, as.sel.For(selectors.TradePanel)); err != nil {
		return err
	}
	if err := as.page.SelectAll(ctx); err != nil {
		return err
	}
	if err := as.page.Press(ctx, browser.KeyBackspace); err != nil {
		return err
	}
	return as.page.TypeText(ctx, value)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
