package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"igcomments/internal/models"

	"github.com/stretchr/testify/require"
)

var records = []models.CommentRecord{
	{Username: "alice", Comment: "What a beautiful sunset, \"wow\"", Likes: 12},
	{Username: "bob", Comment: "Great shot, love it!", Likes: 0},
}

func TestWriteCSVWithMetadata(t *testing.T) {
	post := &models.PostMetadata{
		PostURL:             "https://www.instagram.com/p/ABC123/",
		PostType:            models.PostTypePost,
		Caption:             "Golden hour\nat the   pier",
		Date:                " 2024-06-03T17:59:01.000Z ",
		ExtractionTimestamp: time.Date(2024, 6, 10, 12, 30, 5, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, post))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	require.Equal(t, [][]string{
		{"=== POST METADATA ==="},
		{"Post URL", "https://www.instagram.com/p/ABC123/"},
		{"Post Type", "post"},
		{"Post Caption", "Golden hour at the pier"},
		{"Post Date", "2024-06-03T17:59:01.000Z"},
		{"Extracted At", "2024-06-10 12:30:05"},
		{"=== COMMENTS ==="},
		{"Username", "Comment", "Likes"},
		{"alice", "What a beautiful sunset, \"wow\"", "12"},
		{"bob", "Great shot, love it!", "0"},
	}, rows, "csv.Reader skips the blank separator row")

}

func TestWriteCSVBlankSeparator(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, &models.PostMetadata{PostURL: "u"}))
	require.Contains(t, buf.String(), "Extracted At,\n\n=== COMMENTS ===\n")
}

func TestWriteCSVWithoutMetadata(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records, nil))
	require.True(t, strings.HasPrefix(buf.String(), "=== COMMENTS ===\nUsername,Comment,Likes\n"))
}

func TestEmptyExportWritesNothing(t *testing.T) {
	dir := t.TempDir()
	sink := &CSVSink{Dir: dir, Name: "empty"}

	_, err := sink.Export(nil, nil)
	require.ErrorIs(t, err, ErrNoRecords)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCSVSinkExport(t *testing.T) {
	dir := t.TempDir()
	sink := &CSVSink{Dir: dir, Now: func() time.Time { return time.Date(2024, 6, 10, 9, 8, 7, 0, time.UTC) }}

	path, err := sink.Export(records, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "instagram_comments_20240610_090807.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "bob,\"Great shot, love it!\",0")
}

func TestCSVSinkExportError(t *testing.T) {
	sink := &CSVSink{Dir: filepath.Join(t.TempDir(), "missing", "dir"), Name: "out"}
	_, err := sink.Export(records, nil)

	var exportErr *models.ExportError
	require.ErrorAs(t, err, &exportErr)
	require.True(t, strings.HasSuffix(exportErr.Path, "out.csv"))
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, "alice_1.csv", Filename("alice_1", now))
	require.Equal(t, "alice_1.csv", Filename("alice_1.csv", now))
	require.Equal(t, "instagram_comments_20240102_030405.csv", Filename("", now))
}

func TestFormatCaption(t *testing.T) {
	require.Equal(t, "", FormatCaption(""))
	require.Equal(t, "a b c", FormatCaption("a\r\nb\n  c"))

	long := FormatCaption(strings.Repeat("x", 1200))
	require.Len(t, []rune(long), MaxCaptionLength)
	require.True(t, strings.HasSuffix(long, "..."))
}
