package interfaces

import "context"

// Page is the surface of the live browser session the executor drives. Every
// operation is bounded: when the context has no deadline the implementation
// applies its own default timeout, so no call hangs indefinitely.
//
// Locator arguments are ordered alternative selectors; implementations act on
// the first one present in the DOM.
type Page interface {
	// Alive reports whether the underlying browser session is still usable.
	Alive() bool
	// Recreate tears down and re-launches the session. Only the navigation
	// guard's healing path calls this, and never while a trade is in flight.
	Recreate(ctx context.Context) error

	URL(ctx context.Context) (string, error)
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error

	// Capture stores a screenshot labeled for diagnostics. It reports whether
	// the artifact was written; callers ignore a false result.
	Capture(ctx context.Context, label string) (string, bool)

	Visible(ctx context.Context, sels []string) bool
	WaitVisible(ctx context.Context, sels []string) error
	Click(ctx context.Context, sels []string) error
	// ClickText clicks the first element matching sels whose text contains
	// the given fragment (case-insensitive).
	ClickText(ctx context.Context, sels []string, text string) error
	// ClickAt dispatches a trusted click at viewport coordinates.
	ClickAt(ctx context.Context, x, y float64) error

	// Fill sets an input's value directly, overriding any input mask.
	Fill(ctx context.Context, sels []string, value string) error
	// Press sends a single key (see the browser package key constants).
	Press(ctx context.Context, key string) error
	// SelectAll sends the select-all chord to the focused element.
	SelectAll(ctx context.Context) error
	// TypeText sends text as discrete keystrokes to the focused element.
	TypeText(ctx context.Context, text string) error

	Text(ctx context.Context, sels []string) (string, error)
	OuterHTML(ctx context.Context, sels []string) (string, error)
}
