package domain

// Direction is a column sort direction
type Direction string

const (
	DirectionNone Direction = ""
	Ascending     Direction = "ASC"
	Descending    Direction = "DESC"
)

// NormalizeDirection maps a raw direction string to a Direction.
// Anything other than the two literals normalizes to ascending.
func NormalizeDirection(raw string) Direction {
	if raw == string(Descending) {
		return Descending
	}
	return Ascending
}

// Toggled returns the direction a header click should request next:
// an ascending-marked header requests descending, anything else ascending.
func (d Direction) Toggled() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// Comparator orders two cell values, returning -1/0/1 for less/equal/greater
type Comparator func(a, b interface{}) int

// Column represents a single grid column together with its sort state
type Column struct {
	Name  string
	Title string
	Index int
	Type  string // value-type tag used for comparator lookup
	Width int

	Sortable  bool
	Sorted    bool      // pre-selected as the initial sort target
	Direction Direction // DirectionNone when not currently sorted
	SortHint  bool      // carries the clickable affordance in headers
	Sorter    Comparator
}

// ColumnDef is the user-facing definition a Column is built from
type ColumnDef struct {
	Name      string
	Title     string
	Type      string
	Width     int
	Sortable  *bool // nil defaults to true
	Sorted    bool
	Direction string
	Sorter    Comparator // explicit override, wins over registry lookup
}

// Row is an ordered sequence of cell values, one per column
type Row struct {
	Cells []interface{}
}

// Value returns the cell value at the given column index
func (r *Row) Value(index int) interface{} {
	if index < 0 || index >= len(r.Cells) {
		return nil
	}
	return r.Cells[index]
}

// SortRequest describes one sort invocation. It is built fresh per
// invocation and never mutated afterwards; listeners may cancel the event
// carrying it but not edit the request in place.
type SortRequest struct {
	Column    *Column
	Direction Direction
}
