package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"igcomments/internal/config"
	"igcomments/internal/models"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// BrowserClient owns one Chrome instance and the tab every scrape runs in.
type BrowserClient struct {
	config  config.ScrapeConfig
	session config.SessionConfig

	ctx    context.Context
	cancel context.CancelFunc
}

func NewBrowserClient(cfg config.ScrapeConfig, session config.SessionConfig) *BrowserClient {
	return &BrowserClient{
		config:  cfg,
		session: session,
	}
}

// Open starts Chrome, installs the page setup script and the session cookies. ctx bounds
// the startup only; the browser lives until Close.
func (b *BrowserClient) Open(ctx context.Context) error {
	if b.ctx != nil {
		return nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), BuildChromeOptions(DefaultBrowserOptions(b.config))...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	b.ctx = tabCtx
	b.cancel = func() {
		tabCancel()
		allocCancel()
	}

	err := b.run(ctx,
		network.Enable(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(PageSetupScript()).Do(ctx)
			return err
		}),
		b.setSessionCookies(),
	)
	if err != nil {
		b.Close()
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return nil
}

// Close shuts the browser down
func (b *BrowserClient) Close() {
	if b.cancel != nil {
		b.cancel()
	}
	b.ctx, b.cancel = nil, nil
}

// run executes actions in the browser tab, aborting them when ctx is done.
func (b *BrowserClient) run(ctx context.Context, actions ...chromedp.Action) error {
	if b.ctx == nil {
		return errors.New("browser is not open")
	}
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (b *BrowserClient) setSessionCookies() chromedp.Action {
	cookies := map[string]string{
		SessionCookie: b.session.SessionID,
		CSRFCookie:    b.session.CSRFToken,
		UserIDCookie:  b.session.DSUserID,
	}
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for name, value := range cookies {
			if value == "" {
				continue
			}
			err := network.SetCookie(name, value).
				WithDomain(b.session.Domain).
				WithPath("/").
				WithSecure(true).
				WithHTTPOnly(name == SessionCookie).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("set cookie %s: %w", name, err)
			}
		}
		return nil
	})
}

// Navigate loads targetURL and waits until the document reports it is complete. It
// returns the final URL after redirects.
func (b *BrowserClient) Navigate(ctx context.Context, targetURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, NavigationTimeout)
	defer cancel()

	var finalURL string
	err := b.run(ctx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(waitForReadyState),
		chromedp.Sleep(PostLoadDelay),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &models.TimeoutError{Operation: "navigation", Timeout: NavigationTimeout.String(), Err: err}
		}
		return "", &models.NavigationError{URL: targetURL, Err: err}
	}

	if !strings.Contains(finalURL, SiteHost) {
		return finalURL, &models.NavigationError{URL: targetURL, Err: fmt.Errorf("landed on %s", finalURL)}
	}
	return finalURL, nil
}

func waitForReadyState(ctx context.Context) error {
	deadline := time.Now().Add(ReadyStateTimeout)
	for time.Now().Before(deadline) {
		var readyState string
		if err := chromedp.Evaluate("document.readyState", &readyState).Do(ctx); err == nil && readyState == "complete" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ReadyStatePoll):
		}
	}
	slog.Debug("document never reported complete, continuing")
	return nil
}

// CurrentURL returns the tab's location
func (b *BrowserClient) CurrentURL(ctx context.Context) (string, error) {
	var location string
	if err := b.run(ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}

// DocumentHTML returns the outer HTML of the whole rendered document
func (b *BrowserClient) DocumentHTML(ctx context.Context) (string, error) {
	var html string
	if err := b.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Evaluate runs a script in the page and decodes its result into res
func (b *BrowserClient) Evaluate(ctx context.Context, script string, res interface{}) error {
	return b.run(ctx, chromedp.Evaluate(script, res))
}

// IsAuthenticated reports whether the tab carries a session cookie and shows no login form.
func (b *BrowserClient) IsAuthenticated(ctx context.Context) (bool, error) {
	var cookies []*network.Cookie
	err := b.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = siteCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return false, err
	}
	if !hasSessionCookie(cookies) {
		return false, nil
	}

	var loginForm bool
	if err := b.Evaluate(ctx, fmt.Sprintf("document.querySelector(%q) !== null", LoginFormQuery), &loginForm); err != nil {
		return false, err
	}
	return !loginForm, nil
}

func siteCookies() *network.GetCookiesParams {
	return network.GetCookies().WithUrls([]string{BaseURL})
}

func hasSessionCookie(cookies []*network.Cookie) bool {
	for _, c := range cookies {
		if c.Name == SessionCookie && c.Value != "" {
			return true
		}
	}
	return false
}

// EnsureSession checks the session on the site's home page and returns a SessionError
// when it is not usable.
func (b *BrowserClient) EnsureSession(ctx context.Context) error {
	if b.session.SessionID == "" {
		return &models.SessionError{Reason: "no session cookie configured"}
	}
	if _, err := b.Navigate(ctx, BaseURL); err != nil {
		return err
	}
	ok, err := b.IsAuthenticated(ctx)
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	if !ok {
		return &models.SessionError{Reason: "login form shown, session cookie rejected"}
	}
	return nil
}

// ValidatePostURL checks that raw is an absolute link to a post or reel.
func ValidatePostURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &models.InvalidURLError{URL: raw, Err: err}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return &models.InvalidURLError{URL: raw, Err: errors.New("scheme must be http or https")}
	}
	if !strings.HasSuffix(u.Hostname(), SiteHost) {
		return &models.InvalidURLError{URL: raw, Err: fmt.Errorf("host %q is not %s", u.Hostname(), SiteHost)}
	}
	if PostTypeFromURL(raw) == models.PostTypeUnknown {
		return &models.InvalidURLError{URL: raw, Err: errors.New("not a post or reel link")}
	}
	return nil
}
