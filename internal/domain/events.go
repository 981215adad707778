package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventConfigLoaded EventType = "ConfigLoaded"
	EventConfigSaved  EventType = "ConfigSaved"
	EventRunRequested EventType = "RunRequested"
	EventRunStarted   EventType = "RunStarted"
	EventRunCompleted EventType = "RunCompleted"
	EventError        EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path    string
	Entries []Entry
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// RunRequestedEvent is emitted to request execution of an entry
type RunRequestedEvent struct {
	Entry Entry
}

func (e RunRequestedEvent) Type() EventType { return EventRunRequested }

// RunStartedEvent is emitted when an entry's command begins executing
type RunStartedEvent struct {
	Entry Entry
}

func (e RunStartedEvent) Type() EventType { return EventRunStarted }

// RunCompletedEvent is emitted when an entry's command finishes
type RunCompletedEvent struct {
	Result RunResult
}

func (e RunCompletedEvent) Type() EventType { return EventRunCompleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
