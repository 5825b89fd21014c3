package dom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `
<div id="thread">
  <div class="row">
    <a href="/alice/"><span dir="auto">alice</span></a>
    <span dir="auto">  Nice
      shot </span>
    <button aria-label="Like 3 likes">♡</button>
  </div>
  <a href="/p/ABC123/">post</a>
</div>`

func TestFindAllByRole(t *testing.T) {
	root, err := Parse(fixture)
	require.NoError(t, err)

	anchors, err := root.FindAll(RoleAnchor)
	require.NoError(t, err)
	require.Len(t, anchors, 2)

	leaves, err := root.FindAll(RoleTextLeaf)
	require.NoError(t, err)
	require.Len(t, leaves, 2)

	text, err := leaves[1].Text()
	require.NoError(t, err)
	require.Equal(t, "Nice shot", text)

	controls, err := root.FindAll(RoleControl)
	require.NoError(t, err)
	require.Len(t, controls, 1)
	label, ok, err := controls[0].Attr("aria-label")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Like 3 likes", label)

	posts, err := root.FindAll(RolePostLink)
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestParentWalk(t *testing.T) {
	root, err := Parse(fixture)
	require.NoError(t, err)

	anchors, err := root.FindAll(RoleAnchor)
	require.NoError(t, err)

	parent, err := anchors[0].Parent()
	require.NoError(t, err)
	class, ok, err := parent.Attr("class")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "row", class)

	// climbing eventually runs out of ancestors
	var cur Element = parent
	for i := 0; i < 10 && cur != nil; i++ {
		cur, err = cur.Parent()
		require.NoError(t, err)
	}
	require.Nil(t, cur)
}

func TestDetachedSelection(t *testing.T) {
	var n node
	_, err := n.Text()
	require.ErrorIs(t, err, ErrDetached)
	_, err = n.FindAll(RoleAnchor)
	require.ErrorIs(t, err, ErrDetached)
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a\n\tb   c \n"))
	require.Equal(t, "", CollapseWhitespace(" \n "))
}
