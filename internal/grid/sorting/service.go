package sorting

import (
	"context"
	"sort"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"griddle/internal/domain"
	"griddle/internal/eventbus"
)

// Service resolves sort requests, runs the before/after notification
// protocol and applies the reorder. A disabled service is inert: every
// method returns immediately.
type Service struct {
	table   Table
	bus     eventbus.EventBus
	enabled bool

	state    State
	pending  domain.SortRequest
	inFlight atomic.Bool
}

// NewService creates a sort controller for a grid. With enabled=false the
// controller stays permanently inert, matching a grid whose sorting was
// switched off at construction.
func NewService(table Table, bus eventbus.EventBus, enabled bool) *Service {
	return &Service{
		table:   table,
		bus:     bus,
		enabled: enabled,
	}
}

// Enabled reports whether sorting is active for this grid
func (s *Service) Enabled() bool {
	return s != nil && s.enabled
}

// Current returns the active column and direction, nil column meaning no
// active sort.
func (s *Service) Current() (*domain.Column, domain.Direction) {
	if !s.Enabled() {
		return nil, domain.DirectionNone
	}
	return s.state.Column, s.state.Direction
}

// Sort resolves the column reference, emits the cancellable before-sort
// notification, reorders locally or defers to the remote source, and emits
// the after-sort notification. It returns once the whole cycle completed.
//
// A direction other than "ASC"/"DESC" normalizes to ascending. An
// unresolvable reference results in "no active sort" rather than an error.
// Overlapping invocations are ignored while a sort is in flight.
func (s *Service) Sort(ctx context.Context, columnRef interface{}, direction string) error {
	if !s.Begin(columnRef, direction) {
		return nil
	}
	if err := s.table.Refresh(ctx); err != nil {
		s.Abort()
		return err
	}
	s.Finish()
	return nil
}

// Begin runs the synchronous half of the sort cycle: resolve the column,
// emit the cancellable before-sort notification, commit the new state and
// parameters, reorder local rows. It reports whether a cycle started; when
// it did, the caller runs the table refresh and then Finish (or Abort on a
// failed refresh). Callers that mutate shared state from one goroutine,
// like a UI loop, call Begin there and push only the refresh elsewhere.
func (s *Service) Begin(columnRef interface{}, direction string) bool {
	if !s.Enabled() {
		return false
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Debugf("sort ignored, another sort is in flight")
		return false
	}

	column := s.table.ColumnByRef(columnRef)
	request := domain.SortRequest{
		Column:    column,
		Direction: domain.NormalizeDirection(direction),
	}
	if column == nil {
		// No resolvable column means no active sort, direction included
		request.Direction = domain.DirectionNone
	}

	if s.bus.PublishCancelable(eventbus.BeforeSortEvent{Request: request}) {
		log.Debugf("sort of %q cancelled by listener", columnName(column))
		s.inFlight.Store(false)
		return false
	}

	s.state.Column = request.Column
	s.state.Direction = request.Direction
	s.pending = request

	if column == nil {
		s.table.SetSortParams("", domain.DirectionNone)
	} else {
		s.table.SetSortParams(column.Name, request.Direction)
		if !s.table.Remote() {
			reorder(s.table.Rows(), column, request.Direction)
		}
	}
	s.applyExclusivity()
	return true
}

// Finish completes a cycle started with Begin, emitting the after-sort
// notification.
func (s *Service) Finish() {
	if !s.inFlight.CompareAndSwap(true, false) {
		return
	}
	s.bus.Publish(eventbus.AfterSortEvent{Request: s.pending})
}

// Abort ends a cycle started with Begin without the after-sort
// notification, for a refresh that failed.
func (s *Service) Abort() {
	s.inFlight.Store(false)
}

// ResolveInitial applies the configured starting sort state. The column is
// the configured reference, or the first column flagged as sorted. Its
// direction precedence is: explicit config direction, the column's own
// declared direction, ascending. Run once at init/reinit, not per click.
func (s *Service) ResolveInitial(columnRef interface{}, direction string) {
	if !s.Enabled() {
		return
	}

	var column *domain.Column
	if columnRef != nil {
		column = s.table.ColumnByRef(columnRef)
	}
	if column == nil {
		for _, c := range s.table.Columns() {
			if c.Sorted {
				column = c
				break
			}
		}
	}

	if column == nil {
		s.state = State{}
		s.table.SetSortParams("", domain.DirectionNone)
		s.applyExclusivity()
		return
	}

	dir := domain.DirectionNone
	switch direction {
	case string(domain.Ascending):
		dir = domain.Ascending
	case string(domain.Descending):
		dir = domain.Descending
	default:
		if column.Direction != domain.DirectionNone {
			dir = column.Direction
		} else {
			dir = domain.Ascending
		}
	}

	s.state.Column = column
	s.state.Direction = dir
	s.table.SetSortParams(column.Name, dir)
	s.applyExclusivity()
}

// applyExclusivity enforces that exactly the sorted column carries a
// direction, all others are cleared.
func (s *Service) applyExclusivity() {
	for _, c := range s.table.Columns() {
		if c == s.state.Column {
			c.Direction = s.state.Direction
		} else {
			c.Direction = domain.DirectionNone
		}
	}
}

// reorder stable-sorts rows in place by the column's comparator. Descending
// order swaps the operand order instead of inverting the comparator, so
// comparators stay pure and stability is preserved.
func reorder(rows []*domain.Row, column *domain.Column, direction domain.Direction) {
	cmp := column.Sorter
	idx := column.Index
	sort.SliceStable(rows, func(i, j int) bool {
		if direction == domain.Descending {
			return cmp(rows[j].Value(idx), rows[i].Value(idx)) < 0
		}
		return cmp(rows[i].Value(idx), rows[j].Value(idx)) < 0
	})
}

func columnName(c *domain.Column) string {
	if c == nil {
		return ""
	}
	return c.Name
}
