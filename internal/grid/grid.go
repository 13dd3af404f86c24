package grid

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"griddle/internal/compare"
	"griddle/internal/datasource"
	"griddle/internal/domain"
	"griddle/internal/eventbus"
)

// Grid owns the column definitions and the ordered, mutable row sequence.
// The sort subsystem reorders the row slice in place and never changes
// membership.
type Grid struct {
	bus     eventbus.EventBus
	source  datasource.Source
	columns []*domain.Column
	rows    []*domain.Row

	sortColumn    string
	sortDirection domain.Direction
}

// New builds a grid from column definitions. Each column's sorter is bound
// at construction: an explicit override wins, then the registry lookup by
// declared type, then the text comparator.
func New(bus eventbus.EventBus, source datasource.Source, defs []domain.ColumnDef, registry *compare.Registry, sortingEnabled bool) *Grid {
	if registry == nil {
		registry = compare.NewRegistry()
	}
	g := &Grid{
		bus:     bus,
		source:  source,
		columns: make([]*domain.Column, 0, len(defs)),
	}
	for i, def := range defs {
		g.columns = append(g.columns, buildColumn(def, i, registry, sortingEnabled))
	}
	return g
}

func buildColumn(def domain.ColumnDef, index int, registry *compare.Registry, sortingEnabled bool) *domain.Column {
	sorter := def.Sorter
	if sorter == nil {
		sorter = registry.Resolve(def.Type)
	}

	sortable := true
	if def.Sortable != nil {
		sortable = *def.Sortable
	}

	direction := domain.DirectionNone
	switch def.Direction {
	case string(domain.Ascending):
		direction = domain.Ascending
	case string(domain.Descending):
		direction = domain.Descending
	}

	title := def.Title
	if title == "" {
		title = def.Name
	}
	width := def.Width
	if width <= 0 {
		width = len(title) + 4
	}

	return &domain.Column{
		Name:      def.Name,
		Title:     title,
		Index:     index,
		Type:      def.Type,
		Width:     width,
		Sortable:  sortable,
		Sorted:    def.Sorted,
		Direction: direction,
		SortHint:  sortingEnabled && sortable,
		Sorter:    sorter,
	}
}

// Columns returns all columns in declaration order
func (g *Grid) Columns() []*domain.Column {
	return g.columns
}

// ColumnByRef resolves a column reference: a name, a positional index or a
// column instance. A reference that matches nothing resolves to nil.
func (g *Grid) ColumnByRef(ref interface{}) *domain.Column {
	switch v := ref.(type) {
	case *domain.Column:
		for _, c := range g.columns {
			if c == v {
				return c
			}
		}
	case int:
		if v >= 0 && v < len(g.columns) {
			return g.columns[v]
		}
	case string:
		for _, c := range g.columns {
			if c.Name == v {
				return c
			}
		}
	}
	return nil
}

// Rows returns the row sequence. Callers reorder it in place.
func (g *Grid) Rows() []*domain.Row {
	return g.rows
}

// SetRows replaces the row sequence and announces the new data
func (g *Grid) SetRows(rows []*domain.Row) {
	g.rows = rows
	if g.bus != nil {
		g.bus.Publish(eventbus.RowsLoadedEvent{Count: len(rows), Remote: g.Remote()})
	}
}

// Remote reports whether row data comes from a remote source
func (g *Grid) Remote() bool {
	return g.source != nil && g.source.Remote()
}

// SetSortParams records the sort parameters attached to outgoing requests
// in remote mode. An empty column clears them.
func (g *Grid) SetSortParams(column string, direction domain.Direction) {
	g.sortColumn = column
	g.sortDirection = direction
}

// SortParams returns the current outgoing sort parameters
func (g *Grid) SortParams() (string, string) {
	return g.sortColumn, string(g.sortDirection)
}

// Refresh runs the grid's redraw/data-refresh cycle. Remote grids re-fetch
// with the current sort parameters; local grids only request a repaint.
func (g *Grid) Refresh(ctx context.Context) error {
	if g.Remote() {
		return g.fetch(ctx)
	}
	if g.bus != nil {
		g.bus.Publish(eventbus.RedrawRequestedEvent{})
	}
	return nil
}

// Fetch loads rows from the source with the current sort parameters and
// returns them without touching the grid. Safe to call from a background
// goroutine; the caller installs the result with SetRows.
func (g *Grid) Fetch(ctx context.Context) ([]*domain.Row, error) {
	if g.source == nil {
		return nil, fmt.Errorf("grid has no data source")
	}
	return g.source.Load(ctx, datasource.Query{
		SortColumn:    g.sortColumn,
		SortDirection: string(g.sortDirection),
	})
}

func (g *Grid) fetch(ctx context.Context) error {
	rows, err := g.Fetch(ctx)
	if err != nil {
		return err
	}
	log.Debugf("grid loaded %d rows (remote=%v)", len(rows), g.Remote())
	g.SetRows(rows)
	return nil
}
