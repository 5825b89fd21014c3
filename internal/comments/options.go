package comments

// Options defines the tunable limits of comment extraction
type Options struct {
	MinTextLength      int `json:"minTextLength"`
	MaxAncestorLevels  int `json:"maxAncestorLevels"`  // levels walked up from a username link
	MinGroupLeaves     int `json:"minGroupLeaves"`     // text leaves that mark a comment group
	LikeAncestorLevels int `json:"likeAncestorLevels"` // extra levels searched for a like counter
	MaxLikeLabelLength int `json:"maxLikeLabelLength"`
	MinStructuredPairs int `json:"minStructuredPairs"` // below this the fallback strategy also runs
	MinExpected        int `json:"minExpected"`
}

// DefaultOptions returns the defaults tuned against the comment dialog layout
func DefaultOptions() Options {
	return Options{
		MinTextLength:      2,
		MaxAncestorLevels:  3,
		MinGroupLeaves:     2,
		LikeAncestorLevels: 2,
		MaxLikeLabelLength: 40,
		MinStructuredPairs: 1,
		MinExpected:        5,
	}
}
