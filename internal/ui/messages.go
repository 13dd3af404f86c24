package ui

import (
	"griddle/internal/domain"
	"griddle/internal/eventbus"
)

// EventMsg wraps a domain event forwarded from the bus into the UI loop
type EventMsg struct {
	Event eventbus.DomainEvent
}

// dataLoadedMsg carries fetched rows back to the update loop, which
// installs them. Commands never touch grid state themselves.
type dataLoadedMsg struct {
	rows []*domain.Row
	err  error
}

// sortFetchedMsg carries the rows of a remote sort's re-fetch; the update
// loop installs them and completes the sort cycle.
type sortFetchedMsg struct {
	rows []*domain.Row
	err  error
}

// pagerClosedMsg reports the export pager exiting
type pagerClosedMsg struct {
	err error
}
