package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"igcomments/internal/comments"
	"igcomments/internal/dom"

	"github.com/PuerkitoBio/goquery"
)

// ChromePage exposes a loaded post in the browser tab as a comments.Page.
type ChromePage struct {
	browser *BrowserClient
	// selector is the container selector that matched, "" when none did.
	selector string
	located  bool
}

var _ comments.Page = (*ChromePage)(nil)

func NewChromePage(browser *BrowserClient) *ChromePage {
	return &ChromePage{browser: browser}
}

// HasRegion locates the scrollable comment container. The result is cached for the
// lifetime of the page.
func (p *ChromePage) HasRegion(ctx context.Context) bool {
	if p.located {
		return p.selector != ""
	}

	for _, sel := range CommentContainerSelectors {
		var found bool
		script := fmt.Sprintf("document.querySelector(%q) !== null", sel)
		if err := p.browser.Evaluate(ctx, script, &found); err != nil {
			slog.Debug("container probe failed", "selector", sel, "error", err)
			continue
		}
		if found {
			slog.Info("found comments container", "selector", sel)
			p.selector = sel
			break
		}
	}
	p.located = true
	return p.selector != ""
}

// Snapshot captures the whole document once and locates the container inside it.
func (p *ChromePage) Snapshot(ctx context.Context) (comments.Snapshot, error) {
	html, err := p.browser.DocumentHTML(ctx)
	if err != nil {
		return comments.Snapshot{}, fmt.Errorf("reading document: %w", err)
	}
	return SnapshotFromHTML(html, p.selector)
}

// SnapshotFromHTML parses html and scopes the container with selector when it matches.
func SnapshotFromHTML(html, selector string) (comments.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return comments.Snapshot{}, fmt.Errorf("parsing document: %w", err)
	}

	snap := comments.Snapshot{Document: dom.FromSelection(doc.Selection)}
	if selector != "" {
		if c := doc.Find(selector); c.Length() > 0 {
			snap.Container = dom.FromSelection(c)
		}
	}
	return snap, nil
}

type extent struct {
	ScrollTop    float64 `json:"scrollTop"`
	ClientHeight float64 `json:"clientHeight"`
	ScrollHeight float64 `json:"scrollHeight"`
}

// Measure reads the container's scroll geometry
func (p *ChromePage) Measure(ctx context.Context) (comments.Extent, error) {
	if p.selector == "" {
		return comments.Extent{}, fmt.Errorf("no comment container")
	}

	var e extent
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return null;
		return {scrollTop: el.scrollTop, clientHeight: el.clientHeight, scrollHeight: el.scrollHeight};
	})()`, p.selector)
	if err := p.browser.Evaluate(ctx, script, &e); err != nil {
		return comments.Extent{}, err
	}

	return comments.Extent{
		ScrollTop:    int(math.Round(e.ScrollTop)),
		ClientHeight: int(math.Round(e.ClientHeight)),
		ScrollHeight: int(math.Round(e.ScrollHeight)),
	}, nil
}

// ScrollToEnd scrolls the container to its current height
func (p *ChromePage) ScrollToEnd(ctx context.Context) error {
	if p.selector == "" {
		return fmt.Errorf("no comment container")
	}
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) el.scrollTop = el.scrollHeight;
		return !!el;
	})()`, p.selector)
	var ok bool
	return p.browser.Evaluate(ctx, script, &ok)
}

// ScrollPageBy scrolls the window by dy pixels
func (p *ChromePage) ScrollPageBy(ctx context.Context, dy int) error {
	return p.browser.Evaluate(ctx, fmt.Sprintf("window.scrollBy(0, %d)", dy), nil)
}
