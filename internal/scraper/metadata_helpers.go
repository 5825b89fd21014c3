// Package scraper provides helper functions for post metadata extraction.
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FindMetaTag searches for a meta tag with the given property or name
func FindMetaTag(doc *goquery.Document, property, name string) string {
	var value string

	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if property != "" {
			if prop, exists := s.Attr("property"); exists && prop == property {
				if content, exists := s.Attr("content"); exists {
					value = strings.TrimSpace(content)
					return false
				}
			}
		}

		if name != "" {
			if n, exists := s.Attr("name"); exists && n == name {
				if content, exists := s.Attr("content"); exists {
					value = strings.TrimSpace(content)
					return false
				}
			}
		}
		return true
	})

	return value
}

// LongestText returns the longest trimmed text in selection that exceeds minLength runes
func LongestText(selection *goquery.Selection, minLength int) string {
	var longest string
	longestLen := 0

	selection.Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		n := len([]rune(text))
		if n > longestLen && n > minLength {
			longest, longestLen = text, n
		}
	})

	return longest
}

// DateFromSelection returns the first date-like value in selection: a datetime attribute,
// a title such as "June 3 at 10:00", or visible text.
func DateFromSelection(selection *goquery.Selection) string {
	var date string

	selection.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if dt, exists := s.Attr("datetime"); exists && dt != "" {
			date = dt
			return false
		}
		if title, exists := s.Attr("title"); exists && looksLikeDate(title) {
			date = title
			return false
		}
		text := CleanWhitespace(s.Text())
		if text != "" && (looksLikeDate(text) || len([]rune(text)) > MinDateTextLength) {
			date = text
			return false
		}
		return true
	})

	return date
}

func looksLikeDate(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "at ") || strings.Contains(lower, "ago")
}
