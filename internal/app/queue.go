package app

import "github.com/dkeye/Pairline/internal/domain"

// WaitingEntry is a connection seeking a partner with the mode and
// preference it declared at join time.
type WaitingEntry struct {
	Conn    domain.ConnID
	Mode    domain.Mode
	Pref    domain.Preference
	Country string
}

// WaitingQueue keeps entries in insertion order. A connection appears at
// most once. Not safe for concurrent use.
type WaitingQueue struct {
	entries []WaitingEntry
}

func NewWaitingQueue() *WaitingQueue {
	return &WaitingQueue{}
}

// Push appends e, replacing any earlier entry for the same connection.
func (q *WaitingQueue) Push(e WaitingEntry) {
	q.Remove(e.Conn)
	q.entries = append(q.entries, e)
}

// Remove deletes the entry for id and reports whether one existed.
func (q *WaitingQueue) Remove(id domain.ConnID) bool {
	for i, e := range q.entries {
		if e.Conn == id {
			q.RemoveAt(i)
			return true
		}
	}
	return false
}

// RemoveAt deletes and returns the entry at index i.
func (q *WaitingQueue) RemoveAt(i int) WaitingEntry {
	e := q.entries[i]
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	return e
}

func (q *WaitingQueue) Contains(id domain.ConnID) bool {
	for _, e := range q.entries {
		if e.Conn == id {
			return true
		}
	}
	return false
}

// UpdateCountry keeps the queued copy in step with the registry.
func (q *WaitingQueue) UpdateCountry(id domain.ConnID, code string) {
	for i := range q.entries {
		if q.entries[i].Conn == id {
			q.entries[i].Country = code
			return
		}
	}
}

// Entries returns a copy in queue order.
func (q *WaitingQueue) Entries() []WaitingEntry {
	out := make([]WaitingEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *WaitingQueue) Len() int { return len(q.entries) }
