// Package scraper provides constants used throughout the scraping functionality.
package scraper

import "time"

// Timeout constants
const (
	NavigationTimeout = 40 * time.Second
	ReadyStateTimeout = 10 * time.Second
	ReadyStatePoll    = 500 * time.Millisecond
	// PostLoadDelay lets client-side rendering finish after readyState is complete.
	PostLoadDelay = 5 * time.Second
)

// Site constants
const (
	BaseURL        = "https://www.instagram.com/"
	SiteHost       = "instagram.com"
	SessionCookie  = "sessionid"
	CSRFCookie     = "csrftoken"
	UserIDCookie   = "ds_user_id"
	LoginFormQuery = "input[name='username']"
)

// CommentContainerSelectors locate the scrollable comment region, most specific first
var CommentContainerSelectors = []string{
	"div.x5yr21d.xw2csxc.x1odjw0f.x1n2onr6",
	"div[class*='x5yr21d'][class*='xw2csxc']",
	"div[class*='x5yr21d']",
	"div[style*='overflow']",
}

// CaptionSelectors are tried in order; the longest text of the first productive one wins
var CaptionSelectors = []string{
	"article h1",
	"article div[data-testid='post-caption'] span",
	"article span[dir='auto']",
	"div[role='button'] span[dir='auto']",
	"h1 span",
	"span[style*='line-height'] span[dir='auto']",
}

// DateSelectors are tried in order before the meta tag fallbacks
var DateSelectors = []string{
	"time[datetime]",
	"time",
	"span[title*='at ']",
	"div[title*='at ']",
	"a time",
	"article time",
}

// Meta tag properties
const (
	OGDescription     = "og:description"
	OGUpdatedTime     = "og:updated_time"
	ArticlePublished  = "article:published_time"
	MinCaptionLength  = 20
	MinCaptionAccept  = 10
	MinDateTextLength = 5
)

// Browser configuration
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
)

// Blocked domains for browser requests
var BlockedDomains = []string{
	"doubleclick",
	"googlesyndication",
	"google-analytics",
	"facebook.com/tr",
	"scorecardresearch",
	"amazon-adsystem",
}
