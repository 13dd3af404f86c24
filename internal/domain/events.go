package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBeforeSort      EventType = "BeforeSort"
	EventAfterSort       EventType = "AfterSort"
	EventRowsLoaded      EventType = "RowsLoaded"
	EventRedrawRequested EventType = "RedrawRequested"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BeforeSortEvent is emitted right before a sort is committed. It is the
// only cancellable event: a listener returning true from its handler aborts
// the sort with no state change.
type BeforeSortEvent struct {
	Request SortRequest
}

func (e BeforeSortEvent) Type() EventType { return EventBeforeSort }

// AfterSortEvent is emitted once a sort cycle has fully completed
type AfterSortEvent struct {
	Request SortRequest
}

func (e AfterSortEvent) Type() EventType { return EventAfterSort }

// RowsLoadedEvent is emitted when a data source delivers a fresh row set
type RowsLoadedEvent struct {
	Count  int
	Remote bool
}

func (e RowsLoadedEvent) Type() EventType { return EventRowsLoaded }

// RedrawRequestedEvent is emitted when the grid wants the UI to repaint
type RedrawRequestedEvent struct{}

func (e RedrawRequestedEvent) Type() EventType { return EventRedrawRequested }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
