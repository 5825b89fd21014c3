package scraper

import (
	"context"
	"testing"
	"time"

	"igcomments/internal/models"

	"github.com/stretchr/testify/require"
)

const postHTML = `<html><head>
<meta property="og:description" content="12 likes, 3 comments - alice on June 3: Golden hour at the pier">
<meta property="article:published_time" content="2024-06-03T18:00:00Z">
</head><body>
<article>
  <header><a href="/alice/"><span dir="auto">alice</span></a></header>
  <span dir="auto">Follow</span>
  <span dir="auto">Golden hour at the pier, no filter &amp; no regrets</span>
  <a href="/p/ABC123/"><time datetime="2024-06-03T17:59:01.000Z" title="Jun 3, 2024">1w</time></a>
</article>
</body></html>`

func fixedExtractor() *MetadataExtractor {
	me := NewMetadataExtractor()
	me.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }
	return me
}

func TestExtractMetadata(t *testing.T) {
	meta, err := fixedExtractor().ExtractMetadata(context.Background(), postHTML, "https://www.instagram.com/p/ABC123/")
	require.NoError(t, err)

	require.Equal(t, models.PostTypePost, meta.PostType)
	require.Equal(t, "Golden hour at the pier, no filter & no regrets", meta.Caption)
	require.Equal(t, "2024-06-03T17:59:01.000Z", meta.Date)
	require.Equal(t, 2024, meta.ExtractionTimestamp.Year())
}

func TestExtractMetadataFallsBackToMetaTags(t *testing.T) {
	html := `<html><head>
<meta property="og:description" content="Short but over ten chars">
<meta property="og:updated_time" content="1717437600">
</head><body><div>nothing here</div></body></html>`

	meta, err := fixedExtractor().ExtractMetadata(context.Background(), html, "https://www.instagram.com/reel/XYZ/")
	require.NoError(t, err)
	require.Equal(t, models.PostTypeReel, meta.PostType)
	require.Equal(t, "Short but over ten chars", meta.Caption)
	require.Equal(t, "1717437600", meta.Date)
}

func TestExtractMetadataNothingFound(t *testing.T) {
	meta, err := fixedExtractor().ExtractMetadata(context.Background(), `<html><body><p>hi</p></body></html>`, "https://example.com/x")
	require.NoError(t, err)
	require.Equal(t, models.PostTypeUnknown, meta.PostType)
	require.Empty(t, meta.Caption)
	require.Empty(t, meta.Date)
}

func TestDateFromTitleAndText(t *testing.T) {
	html := `<html><body><span title="June 3 at 10:00 AM">3d</span></body></html>`
	meta, err := fixedExtractor().ExtractMetadata(context.Background(), html, "https://www.instagram.com/p/A/")
	require.NoError(t, err)
	require.Equal(t, "June 3 at 10:00 AM", meta.Date)
}

func TestPostTypeFromURL(t *testing.T) {
	require.Equal(t, models.PostTypeReel, PostTypeFromURL("https://www.instagram.com/reel/C1/"))
	require.Equal(t, models.PostTypePost, PostTypeFromURL("https://www.instagram.com/p/C1/"))
	require.Equal(t, models.PostTypeUnknown, PostTypeFromURL("https://www.instagram.com/alice/"))
}
