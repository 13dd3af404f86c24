package views

import (
	"fmt"
	"strings"

	"griddle/internal/domain"
)

// Sort indicator markers
const (
	MarkerAscending  = "▲"
	MarkerDescending = "▼"
	MarkerSortable   = "⇅"
)

const markerWidth = 2 // space + marker glyph

// Span is the horizontal cell range a header cell occupies, for mouse
// hit-testing. End is exclusive.
type Span struct {
	Start int
	End   int
}

// Contains reports whether x falls inside the span
func (s Span) Contains(x int) bool {
	return x >= s.Start && x < s.End
}

// Layout computes the header cell spans for the given columns. The same
// widths drive rendering, so a span always matches what is on screen.
func Layout(columns []*domain.Column) []Span {
	spans := make([]Span, 0, len(columns))
	x := 0
	for _, col := range columns {
		w := col.Width + markerWidth
		spans = append(spans, Span{Start: x, End: x + w})
		x += w + 1 // separator
	}
	return spans
}

// Renderer draws the grid
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new grid renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// RenderHeader renders the header row. Affordance markers and sort-state
// indicators only show when showMarkers is set; the active column's header
// is highlighted and oriented by its direction.
func (r *Renderer) RenderHeader(columns []*domain.Column, showMarkers bool) string {
	cells := make([]string, 0, len(columns))
	for _, col := range columns {
		title := pad(col.Title, col.Width)

		marker := strings.Repeat(" ", markerWidth)
		style := r.styles.Header
		if showMarkers {
			switch {
			case col.Direction == domain.Ascending:
				marker = " " + r.styles.SortMarker.Render(MarkerAscending)
				style = r.styles.HeaderActive
			case col.Direction == domain.Descending:
				marker = " " + r.styles.SortMarker.Render(MarkerDescending)
				style = r.styles.HeaderActive
			case col.SortHint:
				marker = " " + r.styles.SortHint.Render(MarkerSortable)
			}
		}
		cells = append(cells, style.Render(title)+marker)
	}
	return strings.Join(cells, " ")
}

// RenderRows renders the visible window of rows, highlighting the cursor
func (r *Renderer) RenderRows(columns []*domain.Column, rows []*domain.Row, cursor, offset, height int) string {
	if height < 1 {
		height = 1
	}
	end := offset + height
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		line := r.renderRow(columns, rows[i])
		if i == cursor {
			line = r.styles.RowSelected.Render(line)
		} else {
			line = r.styles.Row.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) renderRow(columns []*domain.Column, row *domain.Row) string {
	cells := make([]string, 0, len(columns))
	for _, col := range columns {
		cells = append(cells, pad(cellText(row.Value(col.Index)), col.Width)+strings.Repeat(" ", markerWidth))
	}
	return strings.Join(cells, " ")
}

// RenderPlain renders the whole grid as unstyled text, for the pager
func RenderPlain(columns []*domain.Column, rows []*domain.Row) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pad(col.Title, col.Width))
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, col := range columns {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(pad(cellText(row.Value(col.Index)), col.Width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cellText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprint(t)
	}
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
