package ui

import (
	"griddle/internal/domain"
	"griddle/internal/grid"
	"griddle/internal/grid/sorting"
	"griddle/internal/ui/views"
)

// HeaderBinder owns the clickable sort affordances on the header row. Mount
// and Unmount are idempotent and reversible: an unmounted binder renders no
// markers and ignores clicks.
type HeaderBinder struct {
	grid     *grid.Grid
	sorter   *sorting.Service
	renderer *views.Renderer
	mounted  bool
}

// NewHeaderBinder creates a binder for a grid's header row
func NewHeaderBinder(g *grid.Grid, sorter *sorting.Service, renderer *views.Renderer) *HeaderBinder {
	return &HeaderBinder{
		grid:     g,
		sorter:   sorter,
		renderer: renderer,
	}
}

// Mount attaches the sort affordances to eligible headers
func (b *HeaderBinder) Mount() {
	if !b.sorter.Enabled() {
		return
	}
	b.mounted = true
}

// Unmount detaches the click handling and removes all sort visuals
func (b *HeaderBinder) Unmount() {
	b.mounted = false
}

// Mounted reports whether the affordances are attached
func (b *HeaderBinder) Mounted() bool {
	return b.mounted
}

// ClickTarget hit-tests a click at header x position and returns the column
// index plus the direction the click requests: toggled relative to the
// header's currently displayed state. ok is false when the click landed on
// no sortable header or the binder is unmounted.
func (b *HeaderBinder) ClickTarget(x int) (int, domain.Direction, bool) {
	if !b.mounted {
		return 0, domain.DirectionNone, false
	}
	columns := b.grid.Columns()
	for i, span := range views.Layout(columns) {
		if !span.Contains(x) {
			continue
		}
		if !columns[i].Sortable {
			return 0, domain.DirectionNone, false
		}
		return i, columns[i].Direction.Toggled(), true
	}
	return 0, domain.DirectionNone, false
}

// RenderHeader draws the header row with markers when mounted
func (b *HeaderBinder) RenderHeader() string {
	return b.renderer.RenderHeader(b.grid.Columns(), b.mounted)
}
