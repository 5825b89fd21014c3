package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ScrapeConfig contains browser and request level configuration
type ScrapeConfig struct {
	UserAgent    string
	TimeoutMs    int
	ChromeMajor  int
	Headless     bool
	WindowWidth  int
	WindowHeight int
	// UserPostInterval is the minimum spacing between posts in a batch run.
	UserPostInterval time.Duration
	Port             string
}

// ScrollConfig drives the incremental scroll loop
type ScrollConfig struct {
	Iterations       int
	SettleDelay      time.Duration
	RetryDelay       time.Duration
	ExtraScrollDelay time.Duration
	BottomTolerance  int
	// EarlyStopAfter and BottomStopAfter are fractions of Iterations the loop
	// must exceed before the matching stop condition is honoured.
	EarlyStopAfter   float64
	BottomStopAfter  float64
	BlindScrollStep  int
	BlindScrollDelay time.Duration
}

// SessionConfig holds the cookies of an already authenticated browser session
type SessionConfig struct {
	SessionID string
	CSRFToken string
	DSUserID  string
	Domain    string
}

// LoadEnv reads a .env file from the working directory when one exists.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// DefaultScrapeConfig returns the default scraping configuration
func DefaultScrapeConfig() ScrapeConfig {
	chromeMajor := getEnvInt("CHROME_MAJOR", 133)

	userAgent := os.Getenv("SCRAPE_USER_AGENT")
	if userAgent == "" {
		userAgent = fmt.Sprintf("Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.6943.126 Safari/537.36", chromeMajor)
	}

	return ScrapeConfig{
		UserAgent:        userAgent,
		TimeoutMs:        int(getEnvDuration("SCRAPE_TIMEOUT", 15*time.Minute).Milliseconds()),
		ChromeMajor:      chromeMajor,
		Headless:         getEnvBool("SCRAPE_HEADLESS", false),
		WindowWidth:      1366,
		WindowHeight:     900,
		UserPostInterval: getEnvDuration("USER_POST_INTERVAL", 10*time.Second),
		Port:             getEnv("PORT", "8080"),
	}
}

// DefaultScrollConfig returns the scroll timings observed to let comment batches render
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		Iterations:       5,
		SettleDelay:      getEnvDuration("SCROLL_SETTLE_DELAY", 3*time.Second),
		RetryDelay:       getEnvDuration("SCROLL_RETRY_DELAY", 3*time.Second),
		ExtraScrollDelay: getEnvDuration("SCROLL_EXTRA_DELAY", 2*time.Second),
		BottomTolerance:  50,
		EarlyStopAfter:   0.1,
		BottomStopAfter:  0.2,
		BlindScrollStep:  500,
		BlindScrollDelay: 2 * time.Second,
	}
}

// DefaultSessionConfig reads session cookies from the environment
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SessionID: os.Getenv("IG_SESSIONID"),
		CSRFToken: os.Getenv("IG_CSRFTOKEN"),
		DSUserID:  os.Getenv("IG_DS_USER_ID"),
		Domain:    getEnv("IG_COOKIE_DOMAIN", ".instagram.com"),
	}
}

// CompileRegexes pre-compiles the text patterns shared by the classifier and parsers
func CompileRegexes() map[string]*regexp.Regexp {
	return map[string]*regexp.Regexp{
		"timestamp":   regexp.MustCompile(`(?i)^\d+\s*(h|m|d|w|s|mo|y|ago|like|likes)$`),
		"actionWord":  regexp.MustCompile(`(?i)^(Reply|View|Follow|Following|Like|Unlike)$`),
		"likeWords":   regexp.MustCompile(`\b(like|likes|others?)\b`),
		"likeNumber":  regexp.MustCompile(`([0-9,]+\.?[0-9]*)\s?([kmb])?`),
		"plainNumber": regexp.MustCompile(`\b\d+\b`),
		"postPath":    regexp.MustCompile(`/(p|reel)/([A-Za-z0-9_-]+)`),
		"whitespace":  regexp.MustCompile(`\s+`),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
