package comments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyTruncatesComment(t *testing.T) {
	long := strings.Repeat("a", 50)
	require.Equal(t, "alice:"+long, Key("alice", long+"bbbb"))
	require.Equal(t, "alice:short", Key("alice", "short"))

	// truncation counts runes
	accented := strings.Repeat("é", 60)
	require.Equal(t, "bob:"+strings.Repeat("é", 50), Key("bob", accented))
}

func TestKeyCollisionPastFiftyRunes(t *testing.T) {
	prefix := strings.Repeat("so beautiful ", 4)
	first := prefix + "I love the colours"
	second := prefix + "I love the colo"

	d := NewDeduplicator()
	require.True(t, d.IsNew(Key("alice", first)))
	require.False(t, d.IsNew(Key("alice", second)))
	require.True(t, d.IsNew(Key("bob", second)))
	require.Equal(t, 2, d.Len())
}

func TestIsNewInsertsOnce(t *testing.T) {
	d := NewDeduplicator()
	k := Key("alice", "Nice shot of the sunset!")
	require.False(t, d.Has(k))
	require.True(t, d.IsNew(k))
	require.True(t, d.Has(k))
	require.False(t, d.IsNew(k))
	require.Equal(t, 1, d.Len())
}

func TestChildOverlay(t *testing.T) {
	parent := NewDeduplicator()
	require.True(t, parent.IsNew("alice:one"))

	child := parent.Child()
	require.False(t, child.IsNew("alice:one"), "parent keys are visible through the overlay")
	require.True(t, child.IsNew("bob:two"))
	require.False(t, parent.Has("bob:two"), "staged keys stay invisible until merged")

	parent.Merge(child)
	require.True(t, parent.Has("bob:two"))
	require.Equal(t, 2, parent.Len())

	// discarding an overlay leaves the parent untouched
	abandoned := parent.Child()
	require.True(t, abandoned.IsNew("carol:three"))
	require.False(t, parent.Has("carol:three"))
}
