package models

import (
	"time"
)

// DateLayout is the calendar-day format stored in the date column.
const DateLayout = "2006-01-02"

// SessionText is the text written on timer-derived entries. Older tables
// have no kind column and rely on it to tell sessions from notes.
const SessionText = "Session"

type EntryKind string

const (
	EntryKindNote    EntryKind = "note"
	EntryKindSession EntryKind = "session"
)

func (k EntryKind) String() string {
	return string(k)
}

// ParseEntryKind resolves the kind of a stored entry, falling back to the
// text sentinel when the kind cell is empty or unknown.
func ParseEntryKind(kind, text string) EntryKind {
	switch EntryKind(kind) {
	case EntryKindNote, EntryKindSession:
		return EntryKind(kind)
	}
	if text == SessionText {
		return EntryKindSession
	}
	return EntryKindNote
}

type LogEntry struct {
	ID              string    `json:"id" db:"id"`
	Owner           string    `json:"owner" db:"owner"`
	Subject         string    `json:"subject" db:"subject"`
	Date            string    `json:"date" db:"entry_date"`
	Kind            EntryKind `json:"kind" db:"kind"`
	Text            string    `json:"text" db:"text"`
	DurationMinutes float64   `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
