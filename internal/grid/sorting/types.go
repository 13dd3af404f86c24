package sorting

import (
	"context"

	"griddle/internal/domain"
)

// State holds the grid's current sort selection. At most one column is
// active at any time.
type State struct {
	Column    *domain.Column
	Direction domain.Direction
}

// Table is what the controller needs from the host grid
type Table interface {
	Columns() []*domain.Column
	ColumnByRef(ref interface{}) *domain.Column
	Rows() []*domain.Row
	Remote() bool
	SetSortParams(column string, direction domain.Direction)
	Refresh(ctx context.Context) error
}
