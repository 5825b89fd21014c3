package comments

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"igcomments/internal/config"
)

// maxLikeCount bounds a parsed counter; anything larger is a misread label, not a count.
const maxLikeCount = 1e12

var likeMultipliers = map[string]float64{
	"k": 1e3,
	"m": 1e6,
	"b": 1e9,
}

// LikeParser turns like-counter labels such as "1.2k likes" into integers
type LikeParser struct {
	words  *regexp.Regexp
	number *regexp.Regexp
	plain  *regexp.Regexp
}

func NewLikeParser() *LikeParser {
	regexes := config.CompileRegexes()
	return &LikeParser{
		words:  regexes["likeWords"],
		number: regexes["likeNumber"],
		plain:  regexes["plainNumber"],
	}
}

var defaultLikeParser = NewLikeParser()

// Parse returns the like count in text, or 0 when nothing numeric is found.
func (p *LikeParser) Parse(text string) int {
	if text == "" {
		return 0
	}

	cleaned := strings.TrimSpace(p.words.ReplaceAllString(strings.ToLower(text), ""))

	if m := p.number.FindStringSubmatch(cleaned); m != nil {
		digits := strings.ReplaceAll(m[1], ",", "")
		if n, err := strconv.ParseFloat(digits, 64); err == nil {
			if mult, ok := likeMultipliers[m[2]]; ok {
				n = math.Round(n * mult)
			}
			if n > maxLikeCount {
				return 0
			}
			return int(n)
		}
	}

	if m := p.plain.FindString(cleaned); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n <= maxLikeCount {
			return n
		}
	}

	return 0
}

// ParseLikeCount applies the default parser.
func ParseLikeCount(text string) int {
	return defaultLikeParser.Parse(text)
}

func mentionsLikes(text string) bool {
	return strings.Contains(strings.ToLower(text), "like")
}
