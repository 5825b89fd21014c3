package scraper

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"igcomments/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
)

// MetadataExtractor reads caption, date and type of a post from its rendered HTML.
type MetadataExtractor struct {
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

// ExtractMetadata extracts post metadata from html. Caption and date are looked up
// concurrently over the same parsed document.
func (me *MetadataExtractor) ExtractMetadata(ctx context.Context, rawHTML, postURL string) (models.PostMetadata, error) {
	meta := models.PostMetadata{
		PostURL:             postURL,
		PostType:            PostTypeFromURL(postURL),
		ExtractionTimestamp: me.now(),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return meta, &models.ContentExtractionError{Step: "metadata", Err: err}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		meta.Caption = me.sanitizeText(me.extractCaption(doc))
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		meta.Date = me.sanitizeText(me.extractDate(doc))
		return nil
	})
	if err := g.Wait(); err != nil {
		return meta, err
	}

	slog.Info("post metadata",
		"type", meta.PostType,
		"caption_found", meta.Caption != "",
		"date_found", meta.Date != "")
	return meta, nil
}

// extractCaption returns the longest substantial text of the first selector that has one,
// falling back to the og:description meta tag.
func (me *MetadataExtractor) extractCaption(doc *goquery.Document) string {
	for _, selector := range CaptionSelectors {
		caption := LongestText(doc.Find(selector), MinCaptionLength)
		if len([]rune(caption)) > MinCaptionAccept {
			slog.Debug("found caption", "selector", selector)
			return caption
		}
	}

	if caption := FindMetaTag(doc, OGDescription, ""); len([]rune(caption)) > MinCaptionAccept {
		return caption
	}
	return ""
}

// extractDate walks the date selectors, preferring machine readable attributes over text.
func (me *MetadataExtractor) extractDate(doc *goquery.Document) string {
	for _, selector := range DateSelectors {
		if date := DateFromSelection(doc.Find(selector)); date != "" {
			return date
		}
	}

	for _, property := range []string{ArticlePublished, OGUpdatedTime} {
		if date := FindMetaTag(doc, property, ""); date != "" {
			return date
		}
	}
	return ""
}

// sanitizeText strips markup and trims
func (me *MetadataExtractor) sanitizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(me.sanitizer.Sanitize(text)))
}

// PostTypeFromURL classifies a link as a reel, a post or unknown
func PostTypeFromURL(postURL string) string {
	switch {
	case strings.Contains(postURL, "/reel/"):
		return models.PostTypeReel
	case strings.Contains(postURL, "/p/"):
		return models.PostTypePost
	}
	return models.PostTypeUnknown
}
