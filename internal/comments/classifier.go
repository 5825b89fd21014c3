package comments

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"igcomments/internal/config"
)

// NavigationTerms are page chrome strings that are never usernames or comments.
var NavigationTerms = []string{
	"Meta", "Help", "Locations", "About", "Press", "API", "Jobs", "Privacy",
	"Terms", "Contact", "Language", "Meta Verified", "Threads", "Follow",
	"Following", "Like", "Reply", "View replies", "View all replies",
	"Log in", "Sign up", "More", "Liked", "Add a comment", "Post",
}

// Classifier holds the predicates every extraction strategy funnels candidates through.
// All methods are pure.
type Classifier struct {
	denylist   map[string]struct{}
	timestamp  *regexp.Regexp
	actionWord *regexp.Regexp

	MinTextLength     int
	MinUsernameLength int
	MaxUsernameLength int
	// CommentLongerThanUsername requires a comment to have more runes than its
	// author's name. It trades short replies from long handles for less chrome.
	CommentLongerThanUsername bool
}

// NewClassifier returns a classifier with the default denylist and thresholds
func NewClassifier() *Classifier {
	regexes := config.CompileRegexes()

	denylist := make(map[string]struct{}, len(NavigationTerms))
	for _, term := range NavigationTerms {
		denylist[term] = struct{}{}
	}

	return &Classifier{
		denylist:                  denylist,
		timestamp:                 regexes["timestamp"],
		actionWord:                regexes["actionWord"],
		MinTextLength:             2,
		MinUsernameLength:         2,
		MaxUsernameLength:         30,
		CommentLongerThanUsername: true,
	}
}

var defaultClassifier = NewClassifier()

// IsDenylisted reports whether text is exactly a navigation term.
func (c *Classifier) IsDenylisted(text string) bool {
	_, ok := c.denylist[text]
	return ok
}

// IsMeaningfulText reports whether text could be user content rather than page chrome.
func (c *Classifier) IsMeaningfulText(text string, minLength int) bool {
	if text == "" || utf8.RuneCountInString(text) < minLength {
		return false
	}
	if c.IsDenylisted(text) {
		return false
	}
	if c.timestamp.MatchString(text) || c.actionWord.MatchString(text) {
		return false
	}
	return true
}

// IsPlausibleUsername reports whether text can be an account handle.
func (c *Classifier) IsPlausibleUsername(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < c.MinUsernameLength || n > c.MaxUsernameLength {
		return false
	}
	if strings.HasPrefix(text, "@") || strings.HasSuffix(text, "Follow") {
		return false
	}
	return !c.IsDenylisted(text)
}

// IsPlausibleCommentGivenUsername reports whether comment can be the body written by username.
func (c *Classifier) IsPlausibleCommentGivenUsername(comment, username string) bool {
	if comment == "" || comment == username {
		return false
	}
	if strings.HasPrefix(comment, "Follow") {
		return false
	}
	if c.CommentLongerThanUsername && username != "" &&
		utf8.RuneCountInString(comment) <= utf8.RuneCountInString(username) {
		return false
	}
	return true
}

// IsValidPair is the single acceptance gate for a username/comment candidate.
func (c *Classifier) IsValidPair(username, comment string) bool {
	return c.IsPlausibleUsername(username) &&
		c.IsPlausibleCommentGivenUsername(comment, username) &&
		username != comment
}

// CleanComment collapses newlines into spaces and trims. text is already plain text, so
// angle brackets and entities a user typed are kept as written.
func (c *Classifier) CleanComment(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	return strings.TrimSpace(cleaned)
}

// IsMeaningfulText applies the default classifier.
func IsMeaningfulText(text string, minLength int) bool {
	return defaultClassifier.IsMeaningfulText(text, minLength)
}

// IsPlausibleUsername applies the default classifier.
func IsPlausibleUsername(text string) bool {
	return defaultClassifier.IsPlausibleUsername(text)
}

// IsPlausibleCommentGivenUsername applies the default classifier.
func IsPlausibleCommentGivenUsername(comment, username string) bool {
	return defaultClassifier.IsPlausibleCommentGivenUsername(comment, username)
}

// IsValidPair applies the default classifier.
func IsValidPair(username, comment string) bool {
	return defaultClassifier.IsValidPair(username, comment)
}

// CleanComment applies the default classifier.
func CleanComment(text string) string {
	return defaultClassifier.CleanComment(text)
}
