package scraper

import (
	"context"
	"strings"
	"testing"

	"igcomments/internal/comments"
	"igcomments/internal/config"

	"github.com/stretchr/testify/require"
)

const dialogHTML = `<html><body>
<div class="x5yr21d xw2csxc x1odjw0f x1n2onr6">
  <div><div>
    <a href="/alice/"><span dir="auto">alice</span></a>
    <span dir="auto">What a beautiful sunset over the bay</span>
    <span>12 likes</span>
  </div></div>
  <div><div>
    <a href="/bob_the_builder/"><span dir="auto">bob_the_builder</span></a>
    <span dir="auto">Great shot, love it!</span>
  </div></div>
</div>
<footer><span dir="auto">Privacy</span></footer>
</body></html>`

func TestSnapshotFromHTMLLocatesContainer(t *testing.T) {
	snap, err := SnapshotFromHTML(dialogHTML, CommentContainerSelectors[0])
	require.NoError(t, err)
	require.True(t, snap.Structured())

	res, err := comments.NewExtractor(nil, comments.DefaultOptions()).
		Extract(context.Background(), snap, comments.NewDeduplicator())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	require.Equal(t, 12, res.Records[0].Likes)
	require.Equal(t, "bob_the_builder", res.Records[1].Username)
}

func TestSnapshotFromHTMLWithoutContainer(t *testing.T) {
	snap, err := SnapshotFromHTML(dialogHTML, "div.missing")
	require.NoError(t, err)
	require.False(t, snap.Structured())

	snap, err = SnapshotFromHTML(dialogHTML, "")
	require.NoError(t, err)
	require.False(t, snap.Structured())
}

func TestContainerSelectorsFallBack(t *testing.T) {
	html := strings.Replace(dialogHTML, "x5yr21d xw2csxc x1odjw0f x1n2onr6", "x5yr21d other", 1)
	snap, err := SnapshotFromHTML(html, CommentContainerSelectors[0])
	require.NoError(t, err)
	require.False(t, snap.Structured())

	snap, err = SnapshotFromHTML(html, CommentContainerSelectors[2])
	require.NoError(t, err)
	require.True(t, snap.Structured())
}

func TestBuildChromeOptions(t *testing.T) {
	opts := DefaultBrowserOptions(testScrapeConfig())
	require.Equal(t, DefaultWindowWidth, opts.WindowWidth)
	require.False(t, opts.Headless)
	require.Greater(t, len(BuildChromeOptions(opts)), 0)

	script := PageSetupScript()
	for _, d := range BlockedDomains {
		require.Contains(t, script, d)
	}
}

func TestTextUtils(t *testing.T) {
	require.Equal(t, "a b c", CleanWhitespace("  a\n\tb   c "))
	require.Equal(t, "abc...", Truncate("abcdefghij", 6))
	require.Equal(t, "abc", Truncate("abc", 6))
	require.True(t, ContainsAny("https://www.instagram.com/accounts/login/?next=x", LoginPathMarkers))
	require.False(t, ContainsAny("https://www.instagram.com/p/A/", LoginPathMarkers))
}

func testScrapeConfig() config.ScrapeConfig {
	return config.ScrapeConfig{UserAgent: "test-agent"}
}
