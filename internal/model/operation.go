package model

import "time"

// OperationState is the state of the categorize/clone pipeline.
type OperationState string

const (
	OperationStateIdle         OperationState = "idle"
	OperationStateCategorizing OperationState = "categorizing"
	OperationStateCategorized  OperationState = "categorized"
	OperationStateCloning      OperationState = "cloning"
	OperationStateCloned       OperationState = "cloned"
	OperationStateFailed       OperationState = "failed"
)

// Operation is a discrete unit of asynchronous work managed by the orchestrator.
type Operation string

const (
	OperationNone       Operation = ""
	OperationCategorize Operation = "categorize"
	OperationClone      Operation = "clone"
	OperationInstall    Operation = "install"
	OperationRun        Operation = "run"
	OperationReadme     Operation = "readme"
)

// EventLevel is the severity of an event.
type EventLevel string

const (
	EventLevelInfo  EventLevel = "info"
	EventLevelError EventLevel = "error"
)

// Event is a user facing status or error emission.
type Event struct {
	Time      time.Time
	Operation Operation
	Level     EventLevel
	Message   string
	// Err is set on error events.
	Err error
}

// Output is the content of the output panel.
type Output struct {
	Title string
	// Body is Markdown.
	Body string
}

// OperationStatus is the final status of a recorded operation.
type OperationStatus string

const (
	OperationStatusDone   OperationStatus = "done"
	OperationStatusFailed OperationStatus = "failed"
)

// OperationRecord is a finished operation of the history.
type OperationRecord struct {
	ID         string
	Operation  Operation
	ItemName   string
	Status     OperationStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
