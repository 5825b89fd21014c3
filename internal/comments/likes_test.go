package comments

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLikeCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1.2k likes", 1200},
		{"3 Likes", 3},
		{"no likes here", 0},
		{"2m", 2000000},
		{"1,234 likes", 1234},
		{"1 like", 1},
		{"Liked by 15 others", 15},
		{"0.5b", 500000000},
		{"Like", 0},
		{"", 0},
		{"999999999999 likes", 999999999999},
		{"99999999999999999999 likes", 0},
		{"9999999999b likes", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseLikeCount(tt.in))
		})
	}
}

func TestParseLikeCountNeverNegative(t *testing.T) {
	for _, in := range []string{"99999999999999999999", "9999999999b", "18446744073709551616 likes", "1,000,000,000,000,000k"} {
		require.GreaterOrEqual(t, ParseLikeCount(in), 0, in)
	}
}

func TestMentionsLikes(t *testing.T) {
	require.True(t, mentionsLikes("12 Likes"))
	require.True(t, mentionsLikes("Unlike"))
	require.False(t, mentionsLikes("Reply"))
}
