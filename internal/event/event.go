package event

import "time"

type Type string

const (
	TypeSessionSaved   Type = "session.saved"
	TypeSessionCleared Type = "session.cleared"
)

// Event describes a change to the credential store. Revision is the store
// revision after the change was applied.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
