package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultScrapeConfigFromEnv(t *testing.T) {
	t.Setenv("CHROME_MAJOR", "120")
	t.Setenv("SCRAPE_USER_AGENT", "")
	t.Setenv("SCRAPE_HEADLESS", "true")
	t.Setenv("USER_POST_INTERVAL", "1500ms")

	cfg := DefaultScrapeConfig()
	require.Equal(t, 120, cfg.ChromeMajor)
	require.Contains(t, cfg.UserAgent, "Chrome/120.")
	require.True(t, cfg.Headless)
	require.Equal(t, 1500*time.Millisecond, cfg.UserPostInterval)
}

func TestDefaultScrapeConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("CHROME_MAJOR", "abc")
	t.Setenv("SCRAPE_HEADLESS", "maybe")
	t.Setenv("SCRAPE_TIMEOUT", "soon")

	cfg := DefaultScrapeConfig()
	require.Equal(t, 133, cfg.ChromeMajor)
	require.False(t, cfg.Headless)
	require.Equal(t, int((15 * time.Minute).Milliseconds()), cfg.TimeoutMs)
}

func TestDefaultScrollConfig(t *testing.T) {
	t.Setenv("SCROLL_SETTLE_DELAY", "10ms")

	cfg := DefaultScrollConfig()
	require.Equal(t, 10*time.Millisecond, cfg.SettleDelay)
	require.Equal(t, 3*time.Second, cfg.RetryDelay)
	require.Equal(t, 50, cfg.BottomTolerance)
	require.InDelta(t, 0.1, cfg.EarlyStopAfter, 1e-9)
	require.InDelta(t, 0.2, cfg.BottomStopAfter, 1e-9)
}

func TestCompileRegexes(t *testing.T) {
	re := CompileRegexes()

	for _, s := range []string{"3d", "12mo", "5 likes", "1 LIKE", "4 Ago"} {
		require.True(t, re["timestamp"].MatchString(s), s)
	}
	require.False(t, re["timestamp"].MatchString("3 days"))

	require.True(t, re["actionWord"].MatchString("unlike"))
	require.False(t, re["actionWord"].MatchString("Replying"))

	m := re["postPath"].FindStringSubmatch("https://www.instagram.com/reel/C0ffee_-1/")
	require.Equal(t, []string{"/reel/C0ffee_-1", "reel", "C0ffee_-1"}, m)
}
