// Package ledger appends one durable CSV record per completed trade. Rows are
// never updated or deleted; skipped and failed requests are never written.
package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"po-executor/internal/types"
)

var header = []string{"Time", "Pair", "Dir", "Amount", "Result", "Profit", "Tag"}

type CSV struct {
	mu   sync.Mutex
	path string
}

// NewCSV opens (or creates) the ledger file at path, writing the header when
// the file is new or empty.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(path)
	needHeader := err != nil || info.Size() == 0
	if needHeader {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return &CSV{path: path}, nil
}

// Append writes one row for a completed trade and flushes it to disk before
// returning.
func (c *CSV) Append(res types.TradeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		res.Timestamp.UTC().Format(time.RFC3339),
		res.Pair,
		string(res.Direction),
		strconv.FormatFloat(res.Amount, 'f', -1, 64),
		string(res.Outcome),
		strconv.FormatFloat(res.Profit, 'f', 2, 64),
		res.Tag,
	}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
