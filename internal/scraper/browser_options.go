// Package scraper provides browser configuration options for Chrome automation.
package scraper

import (
	"fmt"
	"strings"

	"igcomments/internal/config"

	"github.com/chromedp/chromedp"
)

// BrowserOptions contains configuration for browser automation
type BrowserOptions struct {
	Headless     bool
	BlockImages  bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

// DefaultBrowserOptions returns browser options derived from the scrape configuration
func DefaultBrowserOptions(cfg config.ScrapeConfig) BrowserOptions {
	opts := BrowserOptions{
		Headless:     cfg.Headless,
		WindowWidth:  cfg.WindowWidth,
		WindowHeight: cfg.WindowHeight,
		UserAgent:    cfg.UserAgent,
	}
	if opts.WindowWidth == 0 || opts.WindowHeight == 0 {
		opts.WindowWidth, opts.WindowHeight = DefaultWindowWidth, DefaultWindowHeight
	}
	return opts
}

// BuildChromeOptions creates Chrome options based on BrowserOptions
func BuildChromeOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	chromeOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.BlockImages {
		chromeOpts = append(chromeOpts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	return chromeOpts
}

// PageSetupScript returns JavaScript installed on every new document: tracker requests
// are refused and the webdriver flag is hidden.
func PageSetupScript() string {
	quoted := make([]string, len(BlockedDomains))
	for i, d := range BlockedDomains {
		quoted[i] = fmt.Sprintf("%q", d)
	}

	return fmt.Sprintf(`
		const blockedDomains = [%s];
		const originalFetch = window.fetch;
		window.fetch = function(...args) {
			const url = args[0];
			if (typeof url === 'string' && blockedDomains.some(d => url.includes(d))) {
				return Promise.reject(new Error('Blocked'));
			}
			return originalFetch.apply(this, args);
		};
		Object.defineProperty(navigator, 'webdriver', { get: () => false });
	`, strings.Join(quoted, ", "))
}
