package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"igcomments/internal/comments"
	"igcomments/internal/config"
	"igcomments/internal/dom"
	"igcomments/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// LinkCollector gathers the post and reel links shown on a profile page.
type LinkCollector struct {
	browser *BrowserClient
	scroll  config.ScrollConfig
	postRe  *regexp.Regexp
	// Wait is swapped in tests to skip the render delays.
	Wait comments.WaitFunc
}

func NewLinkCollector(browser *BrowserClient, scroll config.ScrollConfig) *LinkCollector {
	return &LinkCollector{
		browser: browser,
		scroll:  scroll,
		postRe:  config.CompileRegexes()["postPath"],
		Wait:    comments.Sleep,
	}
}

// ProfileURL builds the profile page URL of username
func ProfileURL(username string) (string, error) {
	username = strings.Trim(strings.TrimSpace(username), "@/")
	if username == "" || strings.ContainsAny(username, "/?#") {
		return "", &models.InvalidURLError{URL: username, Err: fmt.Errorf("not a username")}
	}
	return BaseURL + url.PathEscape(username) + "/", nil
}

// Collect opens the profile of username and scrolls it scrolls times, gathering post
// links in the order they first appear. The grid is virtualised, so links are read
// after every scroll.
func (lc *LinkCollector) Collect(ctx context.Context, username string, scrolls int) ([]string, error) {
	profile, err := ProfileURL(username)
	if err != nil {
		return nil, err
	}
	finalURL, err := lc.browser.Navigate(ctx, profile)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	collect := func() error {
		html, err := lc.browser.DocumentHTML(ctx)
		if err != nil {
			return err
		}
		for _, link := range lc.PostLinksFromHTML(html, finalURL) {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
		return nil
	}

	if err := collect(); err != nil {
		return nil, &models.ContentExtractionError{Step: "post links", Err: err}
	}
	for i := 0; i < scrolls; i++ {
		if err := lc.browser.Evaluate(ctx, fmt.Sprintf("window.scrollBy(0, %d)", lc.scroll.BlindScrollStep*2), nil); err != nil {
			slog.Warn("profile scroll failed", "iteration", i+1, "error", err)
		}
		if err := lc.Wait(ctx, lc.scroll.BlindScrollDelay); err != nil {
			return links, err
		}
		if err := collect(); err != nil {
			slog.Warn("reading profile grid failed", "iteration", i+1, "error", err)
		}
	}

	slog.Info("collected post links", "username", username, "count", len(links))
	return links, nil
}

// PostLinksFromHTML returns the unique, absolute post and reel links in html.
func (lc *LinkCollector) PostLinksFromHTML(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []string{}
	}

	seen := make(map[string]bool)
	links := []string{}
	doc.Find(dom.RolePostLink.Selector()).Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := lc.canonicalPostURL(href, baseURL)
		if ok && !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})
	return links
}

// canonicalPostURL resolves href against baseURL and trims it to /p/<code>/ or /reel/<code>/.
func (lc *LinkCollector) canonicalPostURL(href, baseURL string) (string, bool) {
	abs, err := toAbsoluteURL(href, baseURL)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(abs)
	if err != nil || !strings.HasSuffix(u.Hostname(), SiteHost) {
		return "", false
	}

	m := lc.postRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%s://%s/%s/%s/", u.Scheme, u.Host, m[1], m[2]), true
}

// toAbsoluteURL converts a relative URL to absolute
func toAbsoluteURL(relativeURL, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	rel, err := url.Parse(relativeURL)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(rel).String(), nil
}
