// Package export persists extracted comment records.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"igcomments/internal/models"
)

// ErrNoRecords is returned when there is nothing to export. No file is created.
var ErrNoRecords = errors.New("no comments to export")

const (
	MaxCaptionLength = 1000
	TimestampLayout  = "2006-01-02 15:04:05"
	filenameLayout   = "20060102_150405"
)

// Sink persists one record set with its optional post metadata and returns where it went.
type Sink interface {
	Export(records []models.CommentRecord, post *models.PostMetadata) (string, error)
}

// CSVSink writes one CSV file per export
type CSVSink struct {
	// Dir is prepended to the file name when set.
	Dir string
	// Name is the file name; ".csv" is appended when missing. Empty means a timestamped name.
	Name string
	Now  func() time.Time
}

var _ Sink = (*CSVSink)(nil)

// Filename returns the file name used for an export started at now
func Filename(custom string, now time.Time) string {
	if custom != "" {
		if strings.HasSuffix(custom, ".csv") {
			return custom
		}
		return custom + ".csv"
	}
	return fmt.Sprintf("instagram_comments_%s.csv", now.Format(filenameLayout))
}

// Export writes records to a new CSV file and returns its path
func (s *CSVSink) Export(records []models.CommentRecord, post *models.PostMetadata) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	path := Filename(s.Name, now())
	if s.Dir != "" {
		path = filepath.Join(s.Dir, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &models.ExportError{Path: path, Err: err}
	}
	if err := WriteCSV(f, records, post); err != nil {
		f.Close()
		return "", &models.ExportError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &models.ExportError{Path: path, Err: err}
	}

	slog.Info("comments exported",
		"path", path,
		"records", len(records),
		"caption", post != nil && post.Caption != "",
		"date", post != nil && post.Date != "")
	return path, nil
}

// WriteCSV writes the optional metadata block followed by the comment table
func WriteCSV(w io.Writer, records []models.CommentRecord, post *models.PostMetadata) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	cw := csv.NewWriter(w)
	if post != nil {
		rows := [][]string{
			{"=== POST METADATA ==="},
			{"Post URL", post.PostURL},
			{"Post Type", post.PostType},
			{"Post Caption", FormatCaption(post.Caption)},
			{"Post Date", FormatDate(post.Date)},
			{"Extracted At", formatTimestamp(post.ExtractionTimestamp)},
			{},
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{"=== COMMENTS ==="}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Username", "Comment", "Likes"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Username, r.Comment, strconv.Itoa(r.Likes)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatCaption flattens a caption onto one line and caps its length
func FormatCaption(caption string) string {
	formatted := strings.Join(strings.Fields(caption), " ")
	if r := []rune(formatted); len(r) > MaxCaptionLength {
		formatted = string(r[:MaxCaptionLength-3]) + "..."
	}
	return formatted
}

// FormatDate flattens a date string onto one line
func FormatDate(date string) string {
	return strings.Join(strings.Fields(date), " ")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
