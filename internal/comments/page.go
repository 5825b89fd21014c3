package comments

import (
	"context"

	"igcomments/internal/dom"
)

// Snapshot is one atomic capture of the rendered page.
type Snapshot struct {
	// Document is the whole page.
	Document dom.Element
	// Container is the scrollable comment region, nil when none was located.
	Container dom.Element
}

// Structured reports whether the structured strategy can run on this snapshot.
func (s Snapshot) Structured() bool {
	return s.Container != nil
}

// Extent is a measurement of a scrollable region.
type Extent struct {
	ScrollTop    int
	ClientHeight int
	ScrollHeight int
}

// AtBottom reports whether the viewport reaches the end of the content within tolerance.
func (e Extent) AtBottom(tolerance int) bool {
	return e.ScrollTop+e.ClientHeight >= e.ScrollHeight-tolerance
}

// Page is the capability the scroll driver needs from a live, authenticated, loaded page.
type Page interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	// HasRegion reports whether a scrollable comment region exists.
	HasRegion(ctx context.Context) bool
	Measure(ctx context.Context) (Extent, error)
	// ScrollToEnd scrolls the comment region to its current maximum extent.
	ScrollToEnd(ctx context.Context) error
	// ScrollPageBy scrolls the whole window by dy pixels.
	ScrollPageBy(ctx context.Context, dy int) error
}
