package executor

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"po-executor/internal/interfaces"
	"po-executor/internal/logger"
	"po-executor/internal/selectors"
	"po-executor/internal/types"
)

// outcomeScraper reads the most recent closed-trade row and classifies it.
type outcomeScraper struct {
	page interfaces.Page
	sel  selectors.Table
}

const (
	closedTabTimeout = 5 * time.Second
	closedRowTimeout = 10 * time.Second
)

var dollarFigure = regexp.MustCompile(`\$[0-9]+(?:\.[0-9]+)?`)

// Scrape opens the Closed tab, waits for the newest row, and returns its
// classified outcome and settlement figure.
func (os *outcomeScraper) Scrape(ctx context.Context) (types.Outcome, float64, error) {
	tctx, cancel := context.WithTimeout(ctx, closedTabTimeout)
	err := os.page.Click(tctx, os.sel.For(selectors.ClosedTab))
	cancel()
	if err != nil {
		return types.OutcomeLoss, 0, ErrClosedTabUnreachable
	}

	rctx, cancel := context.WithTimeout(ctx, closedRowTimeout)
	err = os.page.WaitVisible(rctx, os.sel.For(selectors.ClosedRow))
	cancel()
	if err != nil {
		return types.OutcomeLoss, 0, ErrNoClosedRow
	}

	html, err := os.page.OuterHTML(ctx, os.sel.For(selectors.ClosedRow))
	if err != nil {
		return types.OutcomeLoss, 0, ErrNoClosedRow
	}

	text, err := rowText(html)
	if err != nil {
		return types.OutcomeLoss, 0, err
	}
	outcome, profit := ClassifyOutcome(text)
	logger.Debug(ctx, "closed row scraped", "text", text, "outcome", string(outcome), "profit", profit)
	return outcome, profit, nil
}

// rowText flattens the closed-row markup into whitespace-normalized text.
func rowText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

// ClassifyOutcome maps the text of a closed-trade row to a result. The row
// carries the stake followed by the settlement payout; a payout above zero is
// a win. A row with a single dollar figure is ambiguous and is treated as a
// loss carrying that figure, so callers can spot it in the ledger.
func ClassifyOutcome(row string) (types.Outcome, float64) {
	figures := dollarFigure.FindAllString(row, -1)
	if len(figures) == 0 {
		return types.OutcomeLoss, 0
	}
	last := parseDollar(figures[len(figures)-1])
	if len(figures) == 1 {
		return types.OutcomeLoss, last
	}
	if last > 0 {
		return types.OutcomeWin, last
	}
	return types.OutcomeLoss, last
}

func parseDollar(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil {
		return 0
	}
	return v
}
