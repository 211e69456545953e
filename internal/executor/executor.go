package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"po-executor/internal/config"
	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/selectors"
	"po-executor/internal/trace"
	"po-executor/internal/types"
)

// Executor runs one trade at a time through the platform UI. Each accepted
// request walks a fixed pipeline: session guard, pair selection, amount
// entry, direction click, expiry wait, outcome scrape, ledger append.
//
// The in-flight flag admits at most one trade concurrently. A request that
// arrives while another is running is answered SKIPPED without touching the
// browser at all.
type Executor struct {
	cfg    *config.Config
	page   interfaces.Page
	ledger interfaces.Ledger
	sel    selectors.Table

	guard    *navGuard
	pairs    *pairSelector
	amounts  *amountSetter
	outcomes *outcomeScraper
	overlays *overlayDismisser

	inFlight atomic.Bool
}

func New(cfg *config.Config, page interfaces.Page, ledger interfaces.Ledger) *Executor {
	sel := selectors.Default()
	overlays := &overlayDismisser{page: page, sel: sel}
	return &Executor{
		cfg:    cfg,
		page:   page,
		ledger: ledger,
		sel:    sel,
		guard: &navGuard{
			page:         page,
			sel:          sel,
			host:         cfg.Platform.Host,
			tradeURL:     cfg.Platform.TradeURL,
			attempts:     cfg.Trade.RetryAttempts,
			backoff:      cfg.RetryBackoff(),
			panelTimeout: cfg.BrowserTimeout(),
		},
		pairs: &pairSelector{
			page:     page,
			sel:      sel,
			overlays: overlays,
			attempts: cfg.Trade.RetryAttempts,
			backoff:  cfg.RetryBackoff(),
			settle:   cfg.SearchSettle(),
		},
		amounts:  &amountSetter{page: page, sel: sel},
		outcomes: &outcomeScraper{page: page, sel: sel},
		overlays: overlays,
	}
}

// Busy reports whether a trade is currently in flight.
func (e *Executor) Busy() bool {
	return e.inFlight.Load()
}

// Execute runs one trade end to end. It blocks for the full expiry window
// plus settlement. A concurrent call while another trade is in flight
// returns a SKIPPED result and a nil error; rejection is an outcome, not a
// failure. Every other error aborts the current request only.
func (e *Executor) Execute(ctx context.Context, req types.TradeRequest) (types.TradeResult, error) {
	id := ulid.Make().String()

	if !e.inFlight.CompareAndSwap(false, true) {
		logger.Warn(ctx, "trade skipped, another in flight",
			"id", id, "pair", req.Pair, "direction", string(req.Direction))
		return e.result(id, req, types.OutcomeSkipped, 0), nil
	}
	defer e.inFlight.Store(false)

	ctx, span := trace.StartSpan(ctx, "trade.execute", oteltrace.WithAttributes(
		attribute.String("trade.id", id),
		attribute.String("trade.pair", req.Pair),
		attribute.String("trade.direction", string(req.Direction)),
		attribute.Float64("trade.amount", req.Amount),
	))
	defer span.End()

	logger.Info(ctx, "trade accepted",
		"id", id, "pair", req.Pair, "amount", req.Amount,
		"direction", string(req.Direction), "tag", req.Tag)

	err := e.phase(ctx, "trade.guard", func(ctx context.Context) error {
		if err := e.guard.EnsurePageAlive(ctx); err != nil {
			return err
		}
		return e.guard.EnsureSessionUsable(ctx)
	})
	if err != nil {
		return e.fail(ctx, id, req, err)
	}

	err = e.phase(ctx, "trade.select_pair", func(ctx context.Context) error {
		return withRetry(ctx, e.cfg.Trade.RetryAttempts, e.cfg.RetryBackoff(), "select pair", func(ctx context.Context) error {
			return e.pairs.EnsurePair(ctx, req.Pair)
		})
	})
	if err != nil {
		return e.fail(ctx, id, req, fmt.Errorf("%w: %v", ErrPairSelection, err))
	}

	err = e.phase(ctx, "trade.set_amount", func(ctx context.Context) error {
		return withRetry(ctx, e.cfg.Trade.RetryAttempts, e.cfg.RetryBackoff(), "set amount", func(ctx context.Context) error {
			return e.amounts.EnsureAmount(ctx, req.Amount)
		})
	})
	if err != nil {
		return e.fail(ctx, id, req, fmt.Errorf("%w: %v", ErrAmountSet, err))
	}

	err = e.phase(ctx, "trade.click_direction", func(ctx context.Context) error {
		return e.clickDirection(ctx, req.Direction)
	})
	if err != nil {
		return e.fail(ctx, id, req, fmt.Errorf("%w: %v", ErrDirectionClick, err))
	}

	logger.Info(ctx, "trade placed, awaiting expiry",
		"id", id, "wait", e.cfg.ExpiryWait().String())
	// The wait is unconditional: once the direction click landed, money is
	// committed and the only correct move is to see the trade through.
	time.Sleep(e.cfg.ExpiryWait())

	var outcome types.Outcome
	var profit float64
	err = e.phase(ctx, "trade.scrape_outcome", func(ctx context.Context) error {
		var serr error
		outcome, profit, serr = e.outcomes.Scrape(ctx)
		return serr
	})
	if err != nil {
		return e.fail(ctx, id, req, err)
	}

	res := e.result(id, req, outcome, profit)
	if err := e.ledger.Append(res); err != nil {
		logger.ErrorWithErr(ctx, "ledger append failed", err, "id", id)
	}
	logger.Trade(ctx, id, req.Pair, string(req.Direction), req.Amount, string(outcome), profit, "tag", req.Tag)
	return res, nil
}

// phase runs one pipeline step under its own span.
func (e *Executor) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	pctx, span := trace.StartSpan(ctx, name)
	defer span.End()
	return fn(pctx)
}

// clickDirection presses the buy or sell button on the trade panel. This is
// the point of no return; a verified click commits the stake.
func (e *Executor) clickDirection(ctx context.Context, dir types.Direction) error {
	el := selectors.BuyButton
	if dir == types.DirectionSell {
		el = selectors.SellButton
	}
	sels := e.sel.For(el)

	e.overlays.Close(ctx)

	wctx, cancel := context.WithTimeout(ctx, e.cfg.BrowserTimeout())
	err := e.page.WaitVisible(wctx, sels)
	cancel()
	if err != nil {
		return err
	}
	return withRetry(ctx, e.cfg.Trade.RetryAttempts, e.cfg.RetryBackoff(), "click direction", func(ctx context.Context) error {
		return e.page.Click(ctx, sels)
	})
}

func (e *Executor) fail(ctx context.Context, id string, req types.TradeRequest, err error) (types.TradeResult, error) {
	e.page.Capture(ctx, "trade-failed")
	logger.ErrorWithErr(ctx, "trade failed", err,
		"id", id, "pair", req.Pair, "kind", Classify(err))
	return e.result(id, req, types.OutcomeLoss, 0), err
}

func (e *Executor) result(id string, req types.TradeRequest, outcome types.Outcome, profit float64) types.TradeResult {
	return types.TradeResult{
		ID:        id,
		Outcome:   outcome,
		Profit:    profit,
		Pair:      req.Pair,
		Amount:    req.Amount,
		Direction: req.Direction,
		Tag:       req.Tag,
		Timestamp: time.Now().UTC(),
	}
}
