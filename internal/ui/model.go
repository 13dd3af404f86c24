package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"griddle/internal/config"
	"griddle/internal/domain"
	"griddle/internal/eventbus"
	"griddle/internal/grid"
	"griddle/internal/grid/sorting"
	"griddle/internal/ui/views"
)

// Fixed vertical layout: title takes two lines (text + margin), the header
// row sits right below, rows start after it.
const (
	headerY   = 2
	rowsFromY = 3
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	cfg    *config.Config
	grid   *grid.Grid
	sorter *sorting.Service
	binder *HeaderBinder

	styles   *views.Styles
	renderer *views.Renderer
	keys     keyMap
	help     help.Model
	spin     spinner.Model
	pager    *Pager

	width  int
	height int
	cursor int
	offset int
	selCol int

	inFlight bool // a sort or refresh cycle is running
	lastErr  string
	quitting bool
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, g *grid.Grid, sorter *sorting.Service) *Model {
	styles := views.NewStyles()
	renderer := views.NewRenderer(styles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		bus:      bus,
		cfg:      cfg,
		grid:     g,
		sorter:   sorter,
		binder:   NewHeaderBinder(g, sorter, renderer),
		styles:   styles,
		renderer: renderer,
		keys:     newKeyMap(),
		help:     help.New(),
		spin:     sp,
		pager:    NewPager(),
	}
	m.binder.Mount()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Init loads the initial data set
func (m *Model) Init() tea.Cmd {
	m.inFlight = true
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

// Commands only fetch; every grid mutation happens in Update so the
// bubbletea loop never renders rows another goroutine is reordering.
func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.grid.Fetch(context.Background())
		return dataLoadedMsg{rows: rows, err: err}
	}
}

func (m *Model) sortFetchCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.grid.Fetch(context.Background())
		return sortFetchedMsg{rows: rows, err: err}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case dataLoadedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.noteError(msg.err)
			return m, nil
		}
		m.grid.SetRows(msg.rows)
		// Local data arrives unordered; apply the resolved starting sort
		// now that the rows are here. Remote data already carried the sort
		// parameters on the fetch.
		if col, dir := m.sorter.Current(); col != nil && !m.grid.Remote() {
			m.noteError(m.sorter.Sort(context.Background(), col, string(dir)))
		}
		m.clampViewport()
		return m, nil

	case sortFetchedMsg:
		m.inFlight = false
		if msg.err != nil {
			m.sorter.Abort()
			m.noteError(msg.err)
			return m, nil
		}
		m.grid.SetRows(msg.rows)
		m.sorter.Finish()
		m.clampViewport()
		return m, nil

	case pagerClosedMsg:
		m.noteError(msg.err)
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.grid.Rows())-1 {
			m.cursor++
		}
		m.clampViewport()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.selCol > 0 {
			m.selCol--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.selCol < len(m.grid.Columns())-1 {
			m.selCol++
		}
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		return m.startSort(m.selCol, m.toggledDirection(m.selCol))

	case key.Matches(msg, m.keys.Refresh):
		if m.inFlight {
			return m, nil
		}
		if !m.grid.Remote() {
			m.noteError(m.grid.Refresh(context.Background()))
			return m, nil
		}
		m.inFlight = true
		return m, tea.Batch(m.spin.Tick, m.loadCmd())

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if msg.Y == headerY {
		if idx, dir, ok := m.binder.ClickTarget(msg.X); ok {
			m.selCol = idx
			return m.startSort(idx, dir)
		}
		return m, nil
	}

	// Clicking a row moves the cursor
	rowIdx := m.offset + msg.Y - rowsFromY
	if rowIdx >= 0 && rowIdx < len(m.grid.Rows()) && msg.Y >= rowsFromY {
		m.cursor = rowIdx
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.ErrorEvent:
		m.lastErr = e.Message
	case eventbus.RowsLoadedEvent:
		m.clampViewport()
	}
	return m, nil
}

func (m *Model) startSort(ref interface{}, dir domain.Direction) (tea.Model, tea.Cmd) {
	if !m.sorter.Enabled() || m.inFlight {
		return m, nil
	}
	col := m.grid.ColumnByRef(ref)
	if col != nil && !col.Sortable {
		return m, nil
	}
	m.lastErr = ""

	// Local sorts are pure in-memory work; run the whole cycle here on
	// the update loop so rendering never sees a half-ordered row slice.
	if !m.grid.Remote() {
		m.noteError(m.sorter.Sort(context.Background(), ref, string(dir)))
		return m, nil
	}

	// Remote sorts commit state here, then only the re-fetch runs in the
	// command; sortFetchedMsg installs the rows and finishes the cycle.
	if !m.sorter.Begin(ref, string(dir)) {
		return m, nil
	}
	m.inFlight = true
	return m, tea.Batch(m.spin.Tick, m.sortFetchCmd())
}

// toggledDirection computes the direction a sort trigger on the given
// column requests, relative to its displayed state.
func (m *Model) toggledDirection(idx int) domain.Direction {
	col := m.grid.ColumnByRef(idx)
	if col == nil {
		return domain.Ascending
	}
	return col.Direction.Toggled()
}

func (m *Model) exportCmd() tea.Cmd {
	content := views.RenderPlain(m.grid.Columns(), m.grid.Rows())
	return func() tea.Msg {
		err := m.pager.Show(content)
		if err != nil {
			log.Warnf("pager failed: %v", err)
		}
		return pagerClosedMsg{err: err}
	}
}

func (m *Model) noteError(err error) {
	if err == nil {
		return
	}
	m.lastErr = err.Error()
	log.Errorf("%v", err)
	m.bus.Publish(eventbus.ErrorEvent{Message: err.Error(), Err: err})
}

func (m *Model) rowsHeight() int {
	// title(2) + header(1) + help(1), plus the status line when shown
	h := m.height - 5
	if m.cfg.UI.ShowStatus {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) clampViewport() {
	rows := len(m.grid.Rows())
	if m.cursor >= rows {
		m.cursor = rows - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visible := m.rowsHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the grid
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.styles.Title.Render("griddle")
	header := m.binder.RenderHeader()
	body := m.renderer.RenderRows(m.grid.Columns(), m.grid.Rows(), m.cursor, m.offset, m.rowsHeight())

	out := title + "\n" + header + "\n" + body + "\n"
	if m.cfg.UI.ShowStatus {
		out += m.statusLine() + "\n"
	}
	return out + m.help.View(m.keys)
}

func (m *Model) statusLine() string {
	if m.lastErr != "" {
		return m.styles.StatusError.Render("error: " + m.lastErr)
	}

	var sortInfo string
	if col, dir := m.sorter.Current(); col != nil {
		sortInfo = fmt.Sprintf(" · sorted by %s %s", col.Name, dir)
	}
	mode := "local"
	if m.grid.Remote() {
		mode = "remote"
	}
	line := fmt.Sprintf("%d rows · %s%s", len(m.grid.Rows()), mode, sortInfo)
	if m.inFlight {
		line = m.spin.View() + " " + line
	}
	return m.styles.Status.Render(line)
}
