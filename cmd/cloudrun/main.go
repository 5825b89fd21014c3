package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"igcomments/internal/config"
	"igcomments/internal/models"
	"igcomments/internal/scraper"
)

const (
	defaultTimeoutMs = 300000
	maxTimeoutMs     = 240000
	minTimeoutMs     = 1000
	maxScrolls       = 200
)

// ScrapeFunc extracts the comments of one post
type ScrapeFunc func(ctx context.Context, postURL string, scrolls int) (*scraper.CommentsResult, error)

// CloudRunHandler handles Google Cloud Run requests
type CloudRunHandler struct {
	scrape         ScrapeFunc
	defaultScrolls int
	// the browser drives a single tab, so requests are served one at a time
	mu sync.Mutex
}

func NewCloudRunHandler(scrape ScrapeFunc, defaultScrolls int) *CloudRunHandler {
	return &CloudRunHandler{
		scrape:         scrape,
		defaultScrolls: defaultScrolls,
	}
}

// Handler serves GET /?url=<post>&scrolls=<n>&timeout=<ms>
func (h *CloudRunHandler) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Api-Key,x-api-key")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		h.errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	slog.Info("request received", "method", r.Method, "url", r.URL.String())

	req, problem := h.parseRequest(r)
	if problem != "" {
		h.errorResponse(w, http.StatusBadRequest, problem, "")
		return
	}
	targetURL := req.URL

	timeoutMs := defaultTimeoutMs
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			timeoutMs = parsed
		}
	}
	timeoutMs = max(min(timeoutMs, maxTimeoutMs), minTimeoutMs)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	h.mu.Lock()
	start := time.Now()
	result, err := h.scrape(ctx, req.URL, req.Scrolls)
	duration := time.Since(start)
	h.mu.Unlock()

	var (
		sessionErr *models.SessionError
		timeoutErr *models.TimeoutError
		urlErr     *models.InvalidURLError
	)
	switch {
	case errors.As(err, &sessionErr):
		h.errorResponse(w, http.StatusUnauthorized, "Session is not authenticated", sessionErr.Reason)
		return
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		h.errorResponse(w, http.StatusGatewayTimeout, "Scrape took too long", "")
		return
	case errors.As(err, &urlErr):
		h.errorResponse(w, http.StatusBadRequest, "Invalid post URL", urlErr.Error())
		return
	case err != nil:
		slog.Error("error processing request", "url", targetURL, "err", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to scrape", "")
		return
	}

	slog.Info("scraped", "url", targetURL, "records", len(result.Records), "duration_ms", duration.Milliseconds())

	resp := models.ScrapeResponse{
		Comments: result.Records,
		Post:     result.Post,
		Stop:     string(result.Stop),
		Warning:  result.Quality.Problem(),
		Metadata: models.Metadata{
			URL:        targetURL,
			RunID:      result.RunID,
			ScrapedAt:  time.Now(),
			DurationMs: duration.Milliseconds(),
		},
	}
	if resp.Comments == nil {
		resp.Comments = []models.CommentRecord{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// parseRequest reads the query parameters, returning a client-facing problem when they
// are unusable.
func (h *CloudRunHandler) parseRequest(r *http.Request) (models.ScrapeRequest, string) {
	req := models.ScrapeRequest{
		URL:     r.URL.Query().Get("url"),
		Scrolls: h.defaultScrolls,
	}
	if req.URL == "" {
		return req, "Missing \"url\" query parameter"
	}
	if err := scraper.ValidatePostURL(req.URL); err != nil {
		return req, "Invalid post URL: " + err.Error()
	}

	if raw := r.URL.Query().Get("scrolls"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return req, "\"scrolls\" must be a positive number"
		}
		req.Scrolls = min(n, maxScrolls)
	}
	return req, ""
}

func (h *CloudRunHandler) errorResponse(w http.ResponseWriter, statusCode int, message, details string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, Details: details})
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.LoadEnv(); err != nil {
		slog.Error("failed to load environment", "err", err)
		os.Exit(1)
	}

	cfg := config.DefaultScrapeConfig()
	scroll := config.DefaultScrollConfig()
	s := scraper.NewScraper(cfg, config.DefaultSessionConfig(), scroll)
	defer s.Close()

	handler := NewCloudRunHandler(s.ScrapeComments, scroll.Iterations)

	slog.Info("starting server", "port", cfg.Port)
	http.HandleFunc("/", handler.Handler)

	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		slog.Error("server failed to start", "err", err)
		os.Exit(1)
	}
}
