package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// The session state blob is a JSON array of cookie parameters captured from a
// logged-in browser. The savesession tool produces it; Start consumes it.

// LoadSessionState reads a cookie blob from disk.
func LoadSessionState(path string) ([]*network.CookieParam, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var params []*network.CookieParam
	if err := json.Unmarshal(b, &params); err != nil {
		return nil, fmt.Errorf("parse session state %s: %w", path, err)
	}
	return params, nil
}

// CaptureSessionState serializes the browser's current cookies to path. The
// context must be a live chromedp context.
func CaptureSessionState(bctx context.Context, path string) error {
	var cookies []*network.Cookie
	err := chromedp.Run(bctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}

	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
		}
		if c.Expires > 0 {
			e := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &e
		}
		params = append(params, p)
	}

	b, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write session state %s: %w", path, err)
	}
	return nil
}
