package comments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenylistIsNeverMeaningful(t *testing.T) {
	for _, term := range NavigationTerms {
		require.False(t, IsMeaningfulText(term, 2), term)
		require.False(t, IsPlausibleUsername(term), term)
	}
}

func TestTimestampAndActionPatterns(t *testing.T) {
	rejected := []string{"3d", "12mo", "5 likes", "5 LIKES", "2 H", "1w", "7y", "1 like", "reply", "VIEW", "unlike"}
	for _, text := range rejected {
		require.False(t, IsMeaningfulText(text, 2), text)
	}

	accepted := []string{"3 days in Lisbon", "Replying late", "alice", "12 monkeys"}
	for _, text := range accepted {
		require.True(t, IsMeaningfulText(text, 2), text)
	}
}

func TestMeaningfulTextLength(t *testing.T) {
	require.False(t, IsMeaningfulText("", 2))
	require.False(t, IsMeaningfulText("a", 2))
	require.True(t, IsMeaningfulText("ok", 2))
	require.False(t, IsMeaningfulText("ok", 3))
	// runes, not bytes
	require.True(t, IsMeaningfulText("日本", 2))
}

func TestPlausibleUsername(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"plain handle", "alice", true},
		{"dotted handle", "bob.the_builder", true},
		{"too short", "a", false},
		{"too long", strings.Repeat("x", 31), false},
		{"max length", strings.Repeat("x", 30), true},
		{"mention", "@alice", false},
		{"follow suffix", "aliceFollow", false},
		{"chrome", "Meta Verified", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsPlausibleUsername(tt.text))
		})
	}
}

func TestPlausibleCommentGivenUsername(t *testing.T) {
	require.True(t, IsPlausibleCommentGivenUsername("Nice shot of the sunset!", "alice"))
	require.True(t, IsPlausibleCommentGivenUsername("hi", ""))
	require.False(t, IsPlausibleCommentGivenUsername("", "alice"))
	require.False(t, IsPlausibleCommentGivenUsername("alice", "alice"))
	require.False(t, IsPlausibleCommentGivenUsername("Follow for more sunsets", "alice"))
}

// The length rule is a precision/recall trade-off: a short reply from a long handle is
// lost while it is enabled.
func TestCommentLongerThanUsernameTradeOff(t *testing.T) {
	c := NewClassifier()
	require.False(t, c.IsValidPair("photography_lover_92", "So true!"))

	c.CommentLongerThanUsername = false
	require.True(t, c.IsValidPair("photography_lover_92", "So true!"))
	require.False(t, c.IsValidPair("alice", "alice"))
}

func TestIsValidPair(t *testing.T) {
	require.True(t, IsValidPair("alice", "Nice shot of the sunset!"))
	require.False(t, IsValidPair("Follow", "Nice shot of the sunset!"))
	require.False(t, IsValidPair("alice", "Follow alice for more"))
	require.False(t, IsValidPair("@alice", "Nice shot of the sunset!"))
}

func TestClassificationIsPure(t *testing.T) {
	inputs := []string{"alice", "Privacy", "3d", "Nice shot of the sunset!"}
	for _, in := range inputs {
		first := []bool{IsMeaningfulText(in, 2), IsPlausibleUsername(in), IsValidPair("alice", in)}
		for i := 0; i < 3; i++ {
			again := []bool{IsMeaningfulText(in, 2), IsPlausibleUsername(in), IsValidPair("alice", in)}
			require.Equal(t, first, again, in)
		}
	}
}

func TestCleanComment(t *testing.T) {
	require.Equal(t, "hi there & you", CleanComment("  hi\nthere & you "))
	require.Equal(t, "use <name> and <b>tags</b> in your bio", CleanComment("use <name> and <b>tags</b> in your bio"))
	require.Equal(t, "a < b && c > d", CleanComment("a < b && c > d\n"))
	require.Equal(t, "Tom's line one line two", CleanComment("Tom's line one\r\nline two"))
	require.Equal(t, "", CleanComment(""))
}
