package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"po-executor/internal/types"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleResult() types.TradeResult {
	return types.TradeResult{
		ID:        "01J0TESTTESTTESTTESTTESTTE",
		Outcome:   types.OutcomeWin,
		Profit:    8.4,
		Pair:      "EUR/JPY OTC",
		Amount:    5,
		Direction: types.DirectionBuy,
		Tag:       "manual",
		Timestamp: time.Date(2026, 8, 30, 14, 10, 0, 0, time.UTC),
	}
}

func TestNewCSVWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")

	_, err := NewCSV(path)
	require.NoError(t, err)

	rows := readAll(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Time", "Pair", "Dir", "Amount", "Result", "Profit", "Tag"}, rows[0])

	// Reopening an existing ledger must not duplicate the header.
	_, err = NewCSV(path)
	require.NoError(t, err)
	assert.Len(t, readAll(t, path), 1)
}

func TestAppendRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	led, err := NewCSV(path)
	require.NoError(t, err)

	require.NoError(t, led.Append(sampleResult()))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"2026-08-30T14:10:00Z", "EUR/JPY OTC", "BUY", "5", "WIN", "8.40", "manual",
	}, rows[1])
}

func TestAppendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	led, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, led.Append(sampleResult()))

	led2, err := NewCSV(path)
	require.NoError(t, err)
	loss := sampleResult()
	loss.Outcome = types.OutcomeLoss
	loss.Profit = 0
	require.NoError(t, led2.Append(loss))

	rows := readAll(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, "WIN", rows[1][4])
	assert.Equal(t, "LOSS", rows[2][4])
	assert.Equal(t, "0.00", rows[2][5])
}

func TestNewCSVCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "trades.csv")
	_, err := NewCSV(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
