// Package scraper drives a logged-in Chrome session over post pages: it navigates,
// checks the session, reads post metadata and runs the comment scroll driver against
// the live page. Profiles can be walked post by post at a limited rate.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"igcomments/internal/comments"
	"igcomments/internal/config"
	"igcomments/internal/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// LoginPathMarkers appear in the URL when the site bounced us to a login or checkpoint page
var LoginPathMarkers = []string{"/accounts/login", "/challenge/"}

// CommentsResult is the outcome of scraping one post
type CommentsResult struct {
	RunID      string
	PostURL    string
	Records    []models.CommentRecord
	Post       *models.PostMetadata
	Stop       comments.StopReason
	Quality    comments.Quality
	Iterations int
	Duration   time.Duration
}

// PostSink receives the result of every post of a batch run. index starts at 1.
type PostSink func(ctx context.Context, index int, postURL string, res *CommentsResult) error

// Scraper orchestrates browser, metadata extraction and the comment scroll driver
type Scraper struct {
	config  config.ScrapeConfig
	scroll  config.ScrollConfig
	options comments.Options

	browser   *BrowserClient
	metadata  *MetadataExtractor
	limiter   *rate.Limiter
	extractor *comments.Extractor
	opened    bool
}

func NewScraper(cfg config.ScrapeConfig, session config.SessionConfig, scroll config.ScrollConfig) *Scraper {
	opts := comments.DefaultOptions()
	return &Scraper{
		config:    cfg,
		scroll:    scroll,
		options:   opts,
		browser:   NewBrowserClient(cfg, session),
		metadata:  NewMetadataExtractor(),
		limiter:   rate.NewLimiter(rate.Every(cfg.UserPostInterval), 1),
		extractor: comments.NewExtractor(comments.NewClassifier(), opts),
	}
}

// Open starts the browser and verifies the session. It is called lazily by the scrape
// methods; calling it up front surfaces session problems early.
func (s *Scraper) Open(ctx context.Context) error {
	if s.opened {
		return nil
	}
	if err := s.browser.Open(ctx); err != nil {
		return err
	}
	if err := s.browser.EnsureSession(ctx); err != nil {
		s.browser.Close()
		return err
	}
	s.opened = true
	return nil
}

// Close shuts the browser down
func (s *Scraper) Close() {
	s.browser.Close()
	s.opened = false
}

// ScrapeComments extracts the comment thread of postURL, scrolling the comment region
// at most scrolls times.
func (s *Scraper) ScrapeComments(ctx context.Context, postURL string, scrolls int) (*CommentsResult, error) {
	if err := ValidatePostURL(postURL); err != nil {
		return nil, err
	}
	if scrolls < 1 {
		return nil, fmt.Errorf("scrolls must be positive, got %d", scrolls)
	}
	if err := s.Open(ctx); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := slog.Default().With("run", runID)
	start := time.Now()

	log.Info("navigating to post", "url", postURL)
	finalURL, err := s.browser.Navigate(ctx, postURL)
	if err != nil {
		return nil, err
	}
	if ContainsAny(finalURL, LoginPathMarkers) {
		return nil, &models.SessionError{Reason: "redirected to " + finalURL}
	}
	ok, err := s.browser.IsAuthenticated(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	if !ok {
		return nil, &models.SessionError{Reason: "session lost before extraction"}
	}

	res := &CommentsResult{RunID: runID, PostURL: postURL}
	if post, err := s.extractMetadata(ctx, postURL); err != nil {
		log.Warn("could not read post metadata", "error", err)
	} else {
		res.Post = post
		if post.Caption != "" {
			log.Info("post caption", "preview", Truncate(CleanWhitespace(post.Caption), 100))
		}
	}

	scroll := s.scroll
	scroll.Iterations = scrolls
	driver := comments.NewDriver(NewChromePage(s.browser), s.extractor, scroll)
	driver.Logger = log

	run, err := driver.Run(ctx)
	if run != nil {
		res.Records = run.Records
		res.Stop = run.Stop
		res.Iterations = run.Iterations
	}
	res.Duration = time.Since(start)
	res.Quality = comments.Assess(res.Records, s.options.MinExpected)

	if problem := res.Quality.Problem(); problem != "" {
		log.Warn(problem, "records", res.Quality.Count)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return res, &models.TimeoutError{Operation: "comment extraction", Timeout: res.Duration.Round(time.Second).String(), Err: err}
		}
		return res, err
	}
	return res, nil
}

func (s *Scraper) extractMetadata(ctx context.Context, postURL string) (*models.PostMetadata, error) {
	html, err := s.browser.DocumentHTML(ctx)
	if err != nil {
		return nil, err
	}
	post, err := s.metadata.ExtractMetadata(ctx, html, postURL)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ScrapeCommentsWithTimeout runs ScrapeComments bounded by the configured scrape timeout
func (s *Scraper) ScrapeCommentsWithTimeout(ctx context.Context, postURL string, scrolls int) (*CommentsResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutMs)*time.Millisecond)
	defer cancel()

	return s.ScrapeComments(ctx, postURL, scrolls)
}

// CollectPostLinks returns the post and reel links of username's profile
func (s *Scraper) CollectPostLinks(ctx context.Context, username string, scrolls int) ([]string, error) {
	if err := s.Open(ctx); err != nil {
		return nil, err
	}
	collector := NewLinkCollector(s.browser, s.scroll)
	return collector.Collect(ctx, username, scrolls)
}

// ScrapeUser scrapes every post of username in turn, handing each result to sink. Posts
// are spaced by the configured interval. A failing post is logged and skipped unless the
// session itself is gone. It returns how many posts reached the sink.
func (s *Scraper) ScrapeUser(ctx context.Context, username string, profileScrolls, scrolls int, sink PostSink) (int, error) {
	links, err := s.CollectPostLinks(ctx, username, profileScrolls)
	if err != nil {
		return 0, err
	}
	slog.Info("found posts", "username", username, "count", len(links))

	done := 0
	for i, link := range links {
		if err := s.limiter.Wait(ctx); err != nil {
			return done, err
		}
		slog.Info("scraping post", "index", i+1, "of", len(links), "url", link)

		res, err := s.ScrapeComments(ctx, link, scrolls)
		if err != nil {
			var sessionErr *models.SessionError
			if errors.As(err, &sessionErr) || ctx.Err() != nil {
				return done, err
			}
			slog.Error("post failed", "url", link, "error", err)
			continue
		}

		if err := sink(ctx, i+1, link, res); err != nil {
			return done, fmt.Errorf("post %d: %w", i+1, err)
		}
		done++
	}
	return done, nil
}
