package ui

import (
	"refract/internal/domain"
	"refract/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// runFinishedMsg is sent when the action runner settles a run
type runFinishedMsg struct {
	result domain.RunResult
	err    error
}

// pagerFinishedMsg is sent when the output pager exits
type pagerFinishedMsg struct {
	err error
}
