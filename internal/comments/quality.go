package comments

import (
	"fmt"
	"unicode/utf8"

	"igcomments/internal/models"
)

// Quality summarises how trustworthy an extracted record set looks
type Quality struct {
	Score            int     `json:"score"` // 0-100 confidence score
	Count            int     `json:"count"`
	Empty            bool    `json:"empty"`
	BelowExpected    bool    `json:"belowExpected"`
	Consistent       bool    `json:"consistent"` // every record well formed, no duplicate keys
	WithLikes        int     `json:"withLikes"`
	AvgCommentLength float64 `json:"avgCommentLength"`
}

// Assess reports on records. An empty set is a quality signal, not an error.
func Assess(records []models.CommentRecord, minExpected int) Quality {
	q := Quality{
		Count:      len(records),
		Empty:      len(records) == 0,
		Consistent: true,
	}
	if q.Empty {
		return q
	}
	q.BelowExpected = q.Count < minExpected

	keys := make(map[string]struct{}, len(records))
	totalRunes := 0
	for _, r := range records {
		if r.Username == "" || r.Comment == "" || r.Likes < 0 || r.Username == r.Comment {
			q.Consistent = false
		}
		k := Key(r.Username, r.Comment)
		if _, dup := keys[k]; dup {
			q.Consistent = false
		}
		keys[k] = struct{}{}

		if r.Likes > 0 {
			q.WithLikes++
		}
		totalRunes += utf8.RuneCountInString(r.Comment)
	}
	q.AvgCommentLength = float64(totalRunes) / float64(q.Count)
	q.Score = qualityScore(q, minExpected)
	return q
}

// Problem describes the main issue with q, or "" when there is none.
func (q Quality) Problem() string {
	switch {
	case q.Empty:
		return "no comments were extracted: the post may have none, be private, or the page layout changed"
	case !q.Consistent:
		return "extracted records are inconsistent"
	case q.BelowExpected:
		return fmt.Sprintf("only %d comments extracted, consider increasing the scroll count", q.Count)
	}
	return ""
}

func qualityScore(q Quality, minExpected int) int {
	score := 0

	// volume (0-50 points)
	switch {
	case q.Count >= minExpected*10:
		score += 50
	case q.Count >= minExpected*4:
		score += 40
	case q.Count >= minExpected:
		score += 30
	default:
		score += 10
	}

	// comment length (0-25 points)
	switch {
	case q.AvgCommentLength >= 40:
		score += 25
	case q.AvgCommentLength >= 15:
		score += 15
	case q.AvgCommentLength >= 5:
		score += 5
	}

	// like coverage (0-15 points)
	if q.Count > 0 {
		ratio := float64(q.WithLikes) / float64(q.Count)
		switch {
		case ratio >= 0.5:
			score += 15
		case ratio >= 0.2:
			score += 10
		case ratio > 0:
			score += 5
		}
	}

	if q.Consistent {
		score += 10
	} else {
		score -= 20
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
