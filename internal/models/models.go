package models

import "time"

// Candidate is an unvalidated username/text/likes triple proposed by an extraction strategy
type Candidate struct {
	Username string
	RawText  string
	Likes    int
}

// CommentRecord is a validated, deduplicated comment
type CommentRecord struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Likes    int    `json:"likes"`
}

// Post types derived from the post URL
const (
	PostTypeReel    = "reel"
	PostTypePost    = "post"
	PostTypeUnknown = "unknown"
)

// PostMetadata describes the post a comment thread belongs to
type PostMetadata struct {
	PostURL             string    `json:"postUrl"`
	PostType            string    `json:"postType"`
	Caption             string    `json:"caption,omitempty"`
	Date                string    `json:"date,omitempty"`
	ExtractionTimestamp time.Time `json:"extractionTimestamp"`
}

// ScrapeRequest represents an incoming comment scrape request
type ScrapeRequest struct {
	URL     string `json:"url"`
	Scrolls int    `json:"scrolls"`
}

// ScrapeResponse represents the successful scraping result
type ScrapeResponse struct {
	Comments []CommentRecord `json:"comments"`
	Post     *PostMetadata   `json:"post,omitempty"`
	Stop     string          `json:"stop"`
	Warning  string          `json:"warning,omitempty"`
	Metadata Metadata        `json:"metadata"`
}

// ErrorResponse represents error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Metadata contains request metadata
type Metadata struct {
	URL        string    `json:"url"`
	RunID      string    `json:"runId"`
	ScrapedAt  time.Time `json:"scrapedAt"`
	DurationMs int64     `json:"durationMs"`
}
