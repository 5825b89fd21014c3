// Package dom describes the small element capability the comment extractor walks,
// and provides a goquery-backed implementation over static HTML snapshots.
package dom

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Role is a structural role an element can play inside a rendered comment thread.
type Role int

const (
	// RoleAnchor matches link-like elements that carry a target.
	RoleAnchor Role = iota
	// RoleTextLeaf matches the auto-direction spans that hold user-visible text.
	RoleTextLeaf
	// RoleLabel matches any inline text span (like counters, timestamps).
	RoleLabel
	// RoleControl matches interactive controls.
	RoleControl
	// RolePostLink matches links to individual posts or reels.
	RolePostLink
)

var roleSelectors = map[Role]string{
	RoleAnchor:   "a[href]",
	RoleTextLeaf: "span[dir='auto']",
	RoleLabel:    "span",
	RoleControl:  "button, [role='button']",
	RolePostLink: "a[href*='/p/'], a[href*='/reel/']",
}

// Selector returns the CSS selector backing the role.
func (r Role) Selector() string {
	return roleSelectors[r]
}

func (r Role) String() string {
	switch r {
	case RoleAnchor:
		return "anchor"
	case RoleTextLeaf:
		return "text-leaf"
	case RoleLabel:
		return "label"
	case RoleControl:
		return "control"
	case RolePostLink:
		return "post-link"
	}
	return "unknown"
}

// ErrDetached is returned when an element no longer belongs to a document.
var ErrDetached = errors.New("dom: element detached")

// Element is a node of a rendered page. Implementations backed by a live page may
// fail on any call when the node is re-rendered away.
type Element interface {
	// FindAll returns descendants matching role, in document order.
	FindAll(role Role) ([]Element, error)
	// Text returns the element's text with whitespace runs collapsed.
	Text() (string, error)
	// Attr looks up an attribute.
	Attr(name string) (string, bool, error)
	// Parent returns the enclosing element, or nil at the top of the tree.
	Parent() (Element, error)
}

type node struct {
	sel *goquery.Selection
}

// Parse builds an Element tree from an HTML snapshot and returns its root.
func Parse(html string) (Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return FromSelection(doc.Selection), nil
}

// FromSelection wraps the first node of a goquery selection.
func FromSelection(sel *goquery.Selection) Element {
	return node{sel: sel.First()}
}

func (n node) FindAll(role Role) ([]Element, error) {
	if n.sel == nil || n.sel.Length() == 0 {
		return nil, ErrDetached
	}
	selector := role.Selector()
	if selector == "" {
		return nil, nil
	}

	var out []Element
	n.sel.Find(selector).Each(func(i int, s *goquery.Selection) {
		out = append(out, node{sel: s})
	})
	return out, nil
}

func (n node) Text() (string, error) {
	if n.sel == nil || n.sel.Length() == 0 {
		return "", ErrDetached
	}
	return CollapseWhitespace(n.sel.Text()), nil
}

func (n node) Attr(name string) (string, bool, error) {
	if n.sel == nil || n.sel.Length() == 0 {
		return "", false, ErrDetached
	}
	v, ok := n.sel.Attr(name)
	return v, ok, nil
}

func (n node) Parent() (Element, error) {
	if n.sel == nil || n.sel.Length() == 0 {
		return nil, ErrDetached
	}
	p := n.sel.Parent()
	if p.Length() == 0 {
		return nil, nil
	}
	return node{sel: p}, nil
}

// CollapseWhitespace trims s and folds every whitespace run into a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
