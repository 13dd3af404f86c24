package sorting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"griddle/internal/compare"
	"griddle/internal/datasource"
	"griddle/internal/domain"
	"griddle/internal/eventbus"
	"griddle/internal/grid"
)

type fakeSource struct {
	rows    []*domain.Row
	remote  bool
	lastQ   datasource.Query
	loads   int
	loadErr error
}

func (s *fakeSource) Load(_ context.Context, q datasource.Query) ([]*domain.Row, error) {
	s.lastQ = q
	s.loads++
	return s.rows, s.loadErr
}

func (s *fakeSource) Remote() bool { return s.remote }

func rowsOf(values ...interface{}) []*domain.Row {
	rows := make([]*domain.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, &domain.Row{Cells: []interface{}{v}})
	}
	return rows
}

func column0Values(g *grid.Grid) []interface{} {
	var out []interface{}
	for _, r := range g.Rows() {
		out = append(out, r.Value(0))
	}
	return out
}

func newTextGrid(bus eventbus.EventBus, values ...interface{}) *grid.Grid {
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "v", Type: compare.TypeText},
	}, compare.NewRegistry(), true)
	g.SetRows(rowsOf(values...))
	return g
}

func TestSortTextAscending(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "Bob", "alice", "Carl")
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	assert.Equal(t, []interface{}{"alice", "Bob", "Carl"}, column0Values(g))
}

func TestSortNumericDescending(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "v", Type: compare.TypeNumber},
	}, compare.NewRegistry(), true)
	g.SetRows(rowsOf(3.0, 1.0, 2.0))
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), 0, "DESC"))

	assert.Equal(t, []interface{}{3.0, 2.0, 1.0}, column0Values(g))
}

func TestSortIsIdempotent(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a", "c", "a")
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))
	first := column0Values(g)
	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	assert.Equal(t, first, column0Values(g))
}

func TestSortAdjacentPairsOrdered(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "pear", "Apple", "fig", "apple", "Banana")
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	cmp := g.Columns()[0].Sorter
	rows := g.Rows()
	for i := 0; i < len(rows)-1; i++ {
		assert.LessOrEqual(t, cmp(rows[i].Value(0), rows[i+1].Value(0)), 0)
	}

	require.NoError(t, svc.Sort(context.Background(), "v", "DESC"))
	rows = g.Rows()
	for i := 0; i < len(rows)-1; i++ {
		assert.GreaterOrEqual(t, cmp(rows[i].Value(0), rows[i+1].Value(0)), 0)
	}
}

func TestExclusivity(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "a", Type: compare.TypeText, Direction: "DESC"},
		{Name: "b", Type: compare.TypeText, Direction: "ASC"},
		{Name: "c", Type: compare.TypeText},
	}, compare.NewRegistry(), true)
	g.SetRows([]*domain.Row{{Cells: []interface{}{"x", "y", "z"}}})
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "b", "DESC"))

	active := 0
	for _, c := range g.Columns() {
		if c.Direction != domain.DirectionNone {
			active++
			assert.Equal(t, "b", c.Name)
			assert.Equal(t, domain.Descending, c.Direction)
		}
	}
	assert.Equal(t, 1, active)
}

func TestCancelledSortLeavesEverythingUntouched(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a", "c")
	svc := NewService(g, bus, true)

	before := column0Values(g)
	afterFired := false
	bus.Subscribe(eventbus.EventBeforeSort, func(eventbus.DomainEvent) bool { return true })
	bus.Subscribe(eventbus.EventAfterSort, eventbus.Notify(func(eventbus.DomainEvent) {
		afterFired = true
	}))

	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	assert.Equal(t, before, column0Values(g), "row order unchanged")
	col, dir := svc.Current()
	assert.Nil(t, col)
	assert.Equal(t, domain.DirectionNone, dir)
	assert.False(t, afterFired, "after-sort never fires for a cancelled sort")
}

func TestDirectionNormalization(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a")
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "v", "sideways"))

	assert.Equal(t, []interface{}{"a", "b"}, column0Values(g))
	_, dir := svc.Current()
	assert.Equal(t, domain.Ascending, dir)
}

func TestUnresolvableColumnMeansNoActiveSort(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a")
	svc := NewService(g, bus, true)
	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	afterCount := 0
	bus.Subscribe(eventbus.EventAfterSort, eventbus.Notify(func(eventbus.DomainEvent) {
		afterCount++
	}))

	require.NoError(t, svc.Sort(context.Background(), "ghost", "ASC"))

	col, dir := svc.Current()
	assert.Nil(t, col)
	assert.Equal(t, domain.DirectionNone, dir, "no active sort carries no direction")
	for _, c := range g.Columns() {
		assert.Equal(t, domain.DirectionNone, c.Direction)
	}
	assert.Equal(t, []interface{}{"a", "b"}, column0Values(g), "no reorder happened")
	assert.Equal(t, 1, afterCount, "the cycle still completes")
}

func TestRemoteSortSkipsLocalReorder(t *testing.T) {
	bus := eventbus.New()
	src := &fakeSource{remote: true}
	g := grid.New(bus, src, []domain.ColumnDef{
		{Name: "name", Type: compare.TypeText},
		{Name: "price", Type: compare.TypeNumber},
	}, compare.NewRegistry(), true)
	g.SetRows([]*domain.Row{
		{Cells: []interface{}{"b", 2.0}},
		{Cells: []interface{}{"a", 1.0}},
	})
	src.rows = g.Rows()
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "price", "DESC"))

	assert.Equal(t, "b", g.Rows()[0].Value(0), "local order untouched")
	assert.Equal(t, "price", src.lastQ.SortColumn)
	assert.Equal(t, "DESC", src.lastQ.SortDirection)
	assert.Equal(t, 1, src.loads, "sort triggered one refresh fetch")
}

func TestFailedRefreshReleasesTheCycle(t *testing.T) {
	bus := eventbus.New()
	src := &fakeSource{remote: true, loadErr: errors.New("boom")}
	g := grid.New(bus, src, []domain.ColumnDef{
		{Name: "v", Type: compare.TypeText},
	}, compare.NewRegistry(), true)
	svc := NewService(g, bus, true)

	afterFired := false
	bus.Subscribe(eventbus.EventAfterSort, eventbus.Notify(func(eventbus.DomainEvent) {
		afterFired = true
	}))

	require.Error(t, svc.Sort(context.Background(), "v", "ASC"))
	assert.False(t, afterFired, "no after-sort for a failed refresh")

	src.loadErr = nil
	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"), "next sort proceeds")
	assert.True(t, afterFired)
}

func TestNotificationProtocolOrder(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a")
	svc := NewService(g, bus, true)

	var trace []string
	bus.Subscribe(eventbus.EventBeforeSort, eventbus.Notify(func(e eventbus.DomainEvent) {
		trace = append(trace, "before:"+string(e.(eventbus.BeforeSortEvent).Request.Direction))
	}))
	bus.Subscribe(eventbus.EventAfterSort, eventbus.Notify(func(e eventbus.DomainEvent) {
		trace = append(trace, "after:"+string(e.(eventbus.AfterSortEvent).Request.Direction))
	}))

	require.NoError(t, svc.Sort(context.Background(), "v", "DESC"))

	assert.Equal(t, []string{"before:DESC", "after:DESC"}, trace)
}

func TestDisabledServiceIsInert(t *testing.T) {
	bus := eventbus.New()
	g := newTextGrid(bus, "b", "a")
	svc := NewService(g, bus, false)

	fired := false
	bus.Subscribe(eventbus.EventBeforeSort, eventbus.Notify(func(eventbus.DomainEvent) {
		fired = true
	}))

	require.NoError(t, svc.Sort(context.Background(), "v", "ASC"))

	assert.Equal(t, []interface{}{"b", "a"}, column0Values(g))
	assert.False(t, fired)
	assert.False(t, svc.Enabled())
}

func TestResolveInitialConfiguredColumnWins(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "a", Type: compare.TypeText, Sorted: true, Direction: "DESC"},
		{Name: "b", Type: compare.TypeText},
	}, compare.NewRegistry(), true)
	svc := NewService(g, bus, true)

	svc.ResolveInitial("b", "DESC")

	col, dir := svc.Current()
	require.NotNil(t, col)
	assert.Equal(t, "b", col.Name)
	assert.Equal(t, domain.Descending, dir)
	assert.Equal(t, domain.DirectionNone, g.Columns()[0].Direction, "other declared directions cleared")
}

func TestResolveInitialFallsBackToSortedFlag(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "a", Type: compare.TypeText},
		{Name: "b", Type: compare.TypeText, Sorted: true, Direction: "DESC"},
	}, compare.NewRegistry(), true)
	svc := NewService(g, bus, true)

	svc.ResolveInitial(nil, "")

	col, dir := svc.Current()
	require.NotNil(t, col)
	assert.Equal(t, "b", col.Name)
	assert.Equal(t, domain.Descending, dir, "column's declared direction applies")
}

func TestResolveInitialDirectionDefaultsToAscending(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "a", Type: compare.TypeText, Sorted: true},
	}, compare.NewRegistry(), true)
	svc := NewService(g, bus, true)

	svc.ResolveInitial(nil, "")

	_, dir := svc.Current()
	assert.Equal(t, domain.Ascending, dir)
}

func TestResolveInitialNothingConfigured(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "a", Type: compare.TypeText, Direction: "ASC"},
	}, compare.NewRegistry(), true)
	svc := NewService(g, bus, true)

	svc.ResolveInitial(nil, "")

	col, _ := svc.Current()
	assert.Nil(t, col)
	assert.Equal(t, domain.DirectionNone, g.Columns()[0].Direction)
}

func TestStableSortPreservesEqualKeyOrder(t *testing.T) {
	bus := eventbus.New()
	g := grid.New(bus, nil, []domain.ColumnDef{
		{Name: "k", Type: compare.TypeText},
		{Name: "id", Type: compare.TypeNumber},
	}, compare.NewRegistry(), true)
	g.SetRows([]*domain.Row{
		{Cells: []interface{}{"same", 1.0}},
		{Cells: []interface{}{"same", 2.0}},
		{Cells: []interface{}{"same", 3.0}},
	})
	svc := NewService(g, bus, true)

	require.NoError(t, svc.Sort(context.Background(), "k", "ASC"))
	require.NoError(t, svc.Sort(context.Background(), "k", "DESC"))

	var ids []interface{}
	for _, r := range g.Rows() {
		ids = append(ids, r.Value(1))
	}
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, ids)
}
