package models

type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventSubjectCreated EventType = "subject.created"
	EventSubjectUpdated EventType = "subject.updated"
	EventSubjectRemoved EventType = "subject.removed"
	EventSessionSaved   EventType = "session.saved"
	EventNotePosted     EventType = "note.posted"
)

// ActivityEvent is published to the broker after a successful mutation.
type ActivityEvent struct {
	Type            EventType `json:"type"`
	Username        string    `json:"username"`
	EntityID        string    `json:"entity_id,omitempty"`
	Subject         string    `json:"subject,omitempty"`
	DurationMinutes float64   `json:"duration_minutes,omitempty"`
	Timestamp       int64     `json:"timestamp"`
}
