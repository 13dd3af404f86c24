package datasource

import (
	"context"

	"griddle/internal/domain"
)

// Query carries the request parameters a source may honor. In remote mode
// the sort parameters are the grid's contribution to the outgoing request;
// local sources ignore them and deliver rows in file order.
type Query struct {
	SortColumn    string
	SortDirection string
}

// Source delivers the grid's row set
type Source interface {
	Load(ctx context.Context, q Query) ([]*domain.Row, error)
	Remote() bool
}
