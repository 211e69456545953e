package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

// helperJS defines the selector plumbing shared by every eval snippet.
// Locators starting with "//" or "(" are treated as XPath, everything else
// as CSS.
const helperJS = `
function __find(sel) {
  if (sel.indexOf('//') === 0 || sel.indexOf('(') === 0) {
    return document.evaluate(sel, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
  }
  return document.querySelector(sel);
}
function __findAll(sel) {
  if (sel.indexOf('//') === 0 || sel.indexOf('(') === 0) {
    var out = [];
    var r = document.evaluate(sel, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
    for (var i = 0; i < r.snapshotLength; i++) out.push(r.snapshotItem(i));
    return out;
  }
  return Array.prototype.slice.call(document.querySelectorAll(sel));
}
function __first(sels) {
  for (var i = 0; i < sels.length; i++) {
    var el = __find(sels[i]);
    if (el) return el;
  }
  return null;
}
function __visible(el) {
  if (!el) return false;
  var r = el.getBoundingClientRect();
  var st = window.getComputedStyle(el);
  return r.width > 0 && r.height > 0 && st.display !== 'none' && st.visibility !== 'hidden';
}
function __center(el) {
  el.scrollIntoView({block: 'center', inline: 'center'});
  var r = el.getBoundingClientRect();
  return {x: r.left + r.width / 2, y: r.top + r.height / 2};
}
`

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func jsJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func (s *Session) eval(ctx context.Context, body string, out any) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	js := fmt.Sprintf("%s\n(function(){\n%s\n})()", helperJS, body)
	if err := chromedp.Run(tctx, chromedp.Evaluate(js, out)); err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	return nil
}

// Visible reports whether any of the locators resolves to a rendered element.
func (s *Session) Visible(ctx context.Context, sels []string) bool {
	var vis bool
	body := fmt.Sprintf("return __visible(__first(%s));", jsJSON(sels))
	if err := s.eval(ctx, body, &vis); err != nil {
		return false
	}
	return vis
}

// WaitVisible polls until one of the locators is rendered, the operation
// deadline passes, or the caller cancels.
func (s *Session) WaitVisible(ctx context.Context, sels []string) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := pollUntil(ctx, tctx, 100*time.Millisecond, func() bool {
		return s.Visible(tctx, sels)
	}); err != nil {
		return fmt.Errorf("wait visible %v: %w", sels, err)
	}
	return nil
}

// pollUntil re-runs check on the interval until it reports true. The caller
// context carries explicit cancellation, which runCtx does not propagate; the
// operation context carries the deadline.
func pollUntil(ctx, opCtx context.Context, interval time.Duration, check func() bool) error {
	for {
		if check() {
			return nil
		}
		select {
		case <-opCtx.Done():
			return opCtx.Err()
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// Click resolves the first present locator and dispatches a trusted click at
// the element's center. A trusted CDP click is required: the platform ignores
// synthetic DOM click events on its trade controls.
func (s *Session) Click(ctx context.Context, sels []string) error {
	var pt *point
	body := fmt.Sprintf(`
var el = __first(%s);
if (!el || !__visible(el)) return null;
return __center(el);`, jsJSON(sels))
	if err := s.eval(ctx, body, &pt); err != nil {
		return err
	}
	if pt == nil {
		return fmt.Errorf("click: no visible element for %v", sels)
	}
	return s.ClickAt(ctx, pt.X, pt.Y)
}

// ClickText clicks the first visible element matching the locators whose text
// contains the fragment, case-insensitively.
func (s *Session) ClickText(ctx context.Context, sels []string, text string) error {
	var pt *point
	body := fmt.Sprintf(`
var sels = %s;
var needle = %s.toLowerCase();
for (var i = 0; i < sels.length; i++) {
  var els = __findAll(sels[i]);
  for (var j = 0; j < els.length; j++) {
    var el = els[j];
    if (__visible(el) && (el.textContent || '').toLowerCase().indexOf(needle) !== -1) {
      return __center(el);
    }
  }
}
return null;`, jsJSON(sels), jsJSON(text))
	if err := s.eval(ctx, body, &pt); err != nil {
		return err
	}
	if pt == nil {
		return fmt.Errorf("click text %q: no matching element for %v", text, sels)
	}
	return s.ClickAt(ctx, pt.X, pt.Y)
}

func (s *Session) ClickAt(ctx context.Context, x, y float64) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.MouseClickXY(x, y)); err != nil {
		return fmt.Errorf("click at (%.0f,%.0f): %w", x, y, err)
	}
	return nil
}

// Fill sets the input's value through its prototype setter so the change
// survives framework-managed inputs and value masks, then fires the input
// and change events the page listens for.
func (s *Session) Fill(ctx context.Context, sels []string, value string) error {
	var ok bool
	body := fmt.Sprintf(`
var el = __first(%s);
if (!el) return false;
var v = %s;
var desc = Object.getOwnPropertyDescriptor(Object.getPrototypeOf(el), 'value');
if (desc && desc.set) { desc.set.call(el, v); } else { el.value = v; }
el.dispatchEvent(new Event('input', {bubbles: true}));
el.dispatchEvent(new Event('change', {bubbles: true}));
return true;`, jsJSON(sels), jsJSON(value))
	if err := s.eval(ctx, body, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("fill: no element for %v", sels)
	}
	return nil
}

func (s *Session) Press(ctx context.Context, key string) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.KeyEvent(key)); err != nil {
		return fmt.Errorf("press key: %w", err)
	}
	return nil
}

func (s *Session) SelectAll(ctx context.Context) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.KeyEvent("a", chromedp.KeyModifiers(input.ModifierCtrl))); err != nil {
		return fmt.Errorf("select all: %w", err)
	}
	return nil
}

// TypeText sends the text as discrete keystrokes to the focused element.
func (s *Session) TypeText(ctx context.Context, text string) error {
	tctx, cancel := s.runCtx(ctx)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.KeyEvent(text)); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

func (s *Session) Text(ctx context.Context, sels []string) (string, error) {
	var out *string
	body := fmt.Sprintf(`
var el = __first(%s);
if (!el) return null;
return el.innerText || el.textContent || '';`, jsJSON(sels))
	if err := s.eval(ctx, body, &out); err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("text: no element for %v", sels)
	}
	return strings.TrimSpace(*out), nil
}

func (s *Session) OuterHTML(ctx context.Context, sels []string) (string, error) {
	var out *string
	body := fmt.Sprintf(`
var el = __first(%s);
if (!el) return null;
return el.outerHTML;`, jsJSON(sels))
	if err := s.eval(ctx, body, &out); err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("outer html: no element for %v", sels)
	}
	return *out, nil
}
