// Package browser owns the single live browser session the executor drives.
// All interaction goes through the Chrome DevTools Protocol; every operation
// is bounded by a timeout so callers never hang on a wedged page.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"po-executor/internal/logger"
)

// Key constants for Page.Press.
const (
	KeyEscape    = "\u001b"
	KeyBackspace = "\b"
)

const defaultTimeout = 60 * time.Second

type Options struct {
	Headless         bool
	UserAgent        string
	SessionStatePath string
	ScreenshotDir    string
	DefaultTimeout   time.Duration
}

// Session is the process-wide handle to the automated browser. Exactly one
// instance exists at a time; the executor owns it exclusively for the
// duration of a trade.
type Session struct {
	opts Options

	mu          sync.Mutex
	parent      context.Context
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func New(opts Options) *Session {
	if opts.DefaultTimeout == 0 {
		opts.DefaultTimeout = defaultTimeout
	}
	return &Session{opts: opts}
}

// Start launches the browser under the given parent context and installs any
// persisted session cookies. The parent should be the process-lifetime
// context: canceling it tears the browser down.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = ctx
	return s.startLocked()
}

func (s *Session) startLocked() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("start-maximized", true),
	)
	if s.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(s.opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(s.parent, opts...)
	bctx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(bctx); err != nil {
		cancel()
		allocCancel()
		return fmt.Errorf("launch browser: %w", err)
	}

	if s.opts.SessionStatePath != "" {
		if err := s.installCookies(bctx); err != nil {
			// A missing or stale blob is not fatal: a headed session can
			// still be logged in manually.
			logger.Warn(bctx, "session state not restored", "path", s.opts.SessionStatePath, "error", err)
		}
	}

	s.ctx = bctx
	s.cancel = cancel
	s.allocCancel = allocCancel
	logger.Info(bctx, "browser session started", "headless", s.opts.Headless)
	return nil
}

func (s *Session) installCookies(bctx context.Context) error {
	params, err := LoadSessionState(s.opts.SessionStatePath)
	if err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return chromedp.Run(bctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
}

// Alive reports whether the browser context is still usable. The chromedp
// context is canceled when the browser process exits, so a dead session shows
// up here without an extra round trip.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx != nil && s.ctx.Err() == nil
}

// Recreate tears the session down and launches a fresh one under the original
// parent context. Callers guarantee no trade is in flight.
func (s *Session) Recreate(ctx context.Context) error {
	logger.Warn(ctx, "recreating browser session")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
	return s.startLocked()
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.ctx = nil
}

// runCtx derives a deadline-bounded context from the browser context for one
// operation. The caller context contributes its deadline when it is tighter
// than the session default.
func (s *Session) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	s.mu.Lock()
	bctx := s.ctx
	s.mu.Unlock()
	if bctx == nil {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()
		return canceled, func() {}
	}
	d := s.opts.DefaultTimeout
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem < d {
			d = rem
		}
	}
	return context.WithTimeout(bctx, d)
}

func (s *Session) URL(ctx context.Context) (string, error) {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	var url string
	if err := chromedp.Run(tctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return url, nil
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) Reload(ctx context.Context) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// SaveState persists the live session's cookies back to the configured blob
// so the next start reuses the login.
func (s *Session) SaveState() error {
	s.mu.Lock()
	bctx := s.ctx
	s.mu.Unlock()
	if s.opts.SessionStatePath == "" {
		return nil
	}
	if bctx == nil || bctx.Err() != nil {
		return fmt.Errorf("no live session to save")
	}
	return CaptureSessionState(bctx, s.opts.SessionStatePath)
}

// Capture writes a timestamped screenshot for diagnostics. Failures are
// reported through the boolean, never as an error: artifacts are best-effort
// and their absence must not fail a trade.
func (s *Session) Capture(ctx context.Context, label string) (string, bool) {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	var buf []byte
	if err := chromedp.Run(tctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		logger.Debug(ctx, "screenshot failed", "label", label, "error", err)
		return "", false
	}
	name := fmt.Sprintf("%s-%s.png", label, time.Now().Format("20060102-150405"))
	path := filepath.Join(s.opts.ScreenshotDir, name)
	if err := os.MkdirAll(s.opts.ScreenshotDir, 0o755); err != nil {
		return "", false
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", false
	}
	return path, true
}
