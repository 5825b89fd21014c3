package comments

import (
	"fmt"
	"strings"
	"testing"

	"igcomments/internal/models"

	"github.com/stretchr/testify/require"
)

func TestAssessEmpty(t *testing.T) {
	q := Assess(nil, 5)
	require.True(t, q.Empty)
	require.Zero(t, q.Score)
	require.Contains(t, q.Problem(), "no comments")
}

func TestAssessBelowExpected(t *testing.T) {
	records := []models.CommentRecord{
		{Username: "alice", Comment: "What a beautiful sunset over the bay", Likes: 12},
		{Username: "bob", Comment: "Great shot, love it!"},
	}
	q := Assess(records, 5)
	require.False(t, q.Empty)
	require.True(t, q.BelowExpected)
	require.True(t, q.Consistent)
	require.Equal(t, 1, q.WithLikes)
	require.Contains(t, q.Problem(), "only 2 comments")
}

func TestAssessInconsistent(t *testing.T) {
	records := []models.CommentRecord{
		{Username: "alice", Comment: "What a beautiful sunset over the bay"},
		{Username: "alice", Comment: "What a beautiful sunset over the bay"},
	}
	q := Assess(records, 1)
	require.False(t, q.Consistent)
	require.Equal(t, "extracted records are inconsistent", q.Problem())
}

func TestAssessHealthyRun(t *testing.T) {
	var records []models.CommentRecord
	for i := 0; i < 60; i++ {
		records = append(records, models.CommentRecord{
			Username: "user" + strings.Repeat("x", i%20+1),
			Comment:  fmt.Sprintf("%02d %s", i, strings.Repeat("lovely ", i%9+6)),
			Likes:    i % 3,
		})
	}
	q := Assess(records, 5)
	require.True(t, q.Consistent, q.Problem())
	require.Empty(t, q.Problem())
	require.GreaterOrEqual(t, q.Score, 80)
	require.LessOrEqual(t, q.Score, 100)
}
