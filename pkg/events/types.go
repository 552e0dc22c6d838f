package events

import (
	"time"
)

// EventType represents the type of an observability event.
type EventType string

const (
	// === Device authorization events ===
	EventDeviceCodeRequested EventType = "auth.device_code.requested"
	EventLoginPrompt         EventType = "auth.login.prompt"
	EventPollPending         EventType = "auth.poll.pending"
	EventPollSlowDown        EventType = "auth.poll.slow_down"
	EventPollIndeterminate   EventType = "auth.poll.indeterminate"
	EventLoginSucceeded      EventType = "auth.login.succeeded"
	EventLoginRetried        EventType = "auth.login.retried"
	EventLoginFailed         EventType = "auth.login.failed"

	// === Credential storage events ===
	EventTokenSaved      EventType = "auth.token.saved"
	EventTokenSaveFailed EventType = "auth.token.save_failed"
	EventKeyRefreshed    EventType = "auth.key.refreshed"
	EventKeyRetried      EventType = "auth.key.retried"
	EventKeyFailed       EventType = "auth.key.failed"

	// === Completion events ===
	EventCompletionStarted EventType = "chat.completion.started"
	EventCompletionProbe   EventType = "chat.completion.probe"
	EventStreamStarted     EventType = "chat.stream.started"
	EventStreamDone        EventType = "chat.stream.done"
	EventCompletionFailed  EventType = "chat.completion.failed"
)

// Severity represents the severity level of an event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// DefaultSeverity returns the default severity for an event type.
func DefaultSeverity(t EventType) Severity {
	switch t {
	case EventLoginFailed, EventKeyFailed, EventCompletionFailed:
		return SeverityCritical
	case EventPollIndeterminate, EventTokenSaveFailed, EventLoginRetried, EventKeyRetried:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Event is a single observability record emitted by the auth and chat
// components.
type Event struct {
	// ID correlates the event with log lines and request headers.
	ID string `json:"id"`

	// Type names what happened, dot-grouped by component.
	Type EventType `json:"type"`

	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`

	// Details carries per-event values such as attempt counts and
	// HTTP statuses.
	Details map[string]any `json:"details,omitempty"`
}
