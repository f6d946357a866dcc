package domain

import "github.com/google/uuid"

type SessionID string

// NewSessionID returns a time-ordered UUIDv7; ids of concurrently created
// sessions never collide.
func NewSessionID() SessionID {
	id, err := uuid.NewV7()
	if err != nil {
		return SessionID(uuid.NewString())
	}
	return SessionID(id.String())
}

// Pairing is one side of a session as seen from a participant.
type Pairing struct {
	Partner   ConnID
	SessionID SessionID
	Mode      Mode
}
