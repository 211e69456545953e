package executor

import (
	"testing"

	"po-executor/internal/types"
)

func TestClassifyOutcome(t *testing.T) {
	cases := []struct {
		name    string
		row     string
		outcome types.Outcome
		profit  float64
	}{
		{
			name:    "win row with stake and payout",
			row:     "EUR/JPY OTC 14:05 $5.00 14:10 $8.40",
			outcome: types.OutcomeWin,
			profit:  8.40,
		},
		{
			name:    "loss row with zero payout",
			row:     "EUR/JPY OTC $5.00 $0",
			outcome: types.OutcomeLoss,
			profit:  0,
		},
		{
			name:    "no dollar figures",
			row:     "EUR/JPY OTC pending",
			outcome: types.OutcomeLoss,
			profit:  0,
		},
		{
			// A single figure leaves stake and payout indistinguishable; the
			// figure is kept on the loss row so it stands out in the ledger.
			name:    "single ambiguous figure",
			row:     "EUR/JPY OTC $5.00",
			outcome: types.OutcomeLoss,
			profit:  5.00,
		},
		{
			name:    "interleaved text between figures",
			row:     "GBP/USD Buy $10 result: payout $19.20 closed",
			outcome: types.OutcomeWin,
			profit:  19.20,
		},
		{
			name:    "last figure wins even with many",
			row:     "$1 $2 $3 $0",
			outcome: types.OutcomeLoss,
			profit:  0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, profit := ClassifyOutcome(tc.row)
			if outcome != tc.outcome {
				t.Errorf("Expected outcome %s, got %s", tc.outcome, outcome)
			}
			if profit != tc.profit {
				t.Errorf("Expected profit %.2f, got %.2f", tc.profit, profit)
			}
		})
	}
}

func TestRowTextCollapsesMarkup(t *testing.T) {
	html := `<div class="deals-list__item">
		<span>EUR/JPY OTC</span>
		<span> $5.00 </span>
		<span>$8.40</span>
	</div>`

	text, err := rowText(html)
	if err != nil {
		t.Fatalf("rowText failed: %v", err)
	}
	if text != "EUR/JPY OTC $5.00 $8.40" {
		t.Errorf("Expected collapsed text, got %q", text)
	}
}
