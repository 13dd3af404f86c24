package compare

import (
	"fmt"
	"strings"
	"sync"

	"griddle/internal/domain"
)

// Built-in value-type tags
const (
	TypeText   = "text"
	TypeNumber = "number"
)

// Registry maps a column's value-type tag to a comparator. Unknown tags
// resolve to the text comparator so custom column types stay sortable.
type Registry struct {
	mu          sync.RWMutex
	comparators map[string]domain.Comparator
}

// NewRegistry creates a registry with the built-in comparators registered
func NewRegistry() *Registry {
	r := &Registry{
		comparators: make(map[string]domain.Comparator),
	}
	r.Register(TypeText, Text)
	r.Register(TypeNumber, Number)
	return r
}

// Register adds or replaces the comparator for a value-type tag
func (r *Registry) Register(tag string, cmp domain.Comparator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comparators[tag] = cmp
}

// Resolve returns the comparator for a value-type tag, falling back to the
// text comparator when no entry exists.
func (r *Registry) Resolve(tag string) domain.Comparator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cmp, ok := r.comparators[tag]; ok {
		return cmp
	}
	return Text
}

// Text compares two values case-insensitively. Operands are lower-cased
// only when they are strings, anything else is stringified as-is.
func Text(a, b interface{}) int {
	return strings.Compare(textual(a), textual(b))
}

func textual(v interface{}) string {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Number compares two numeric values by subtraction sign. Callers are
// expected to have coerced cell values to a numeric kind already.
func Number(a, b interface{}) int {
	d := numeric(a) - numeric(b)
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func numeric(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	default:
		return 0
	}
}
