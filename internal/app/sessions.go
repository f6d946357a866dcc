package app

import (
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

// SessionRegistry maps each participant to its pairing. Both sides of a
// session are always present together and agree on id and mode.
// Not safe for concurrent use.
type SessionRegistry struct {
	byConn map[domain.ConnID]domain.Pairing
	// order keeps session ids in creation order for stable snapshots.
	order []domain.SessionID
	pairs map[domain.SessionID][2]domain.ConnID
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		byConn: make(map[domain.ConnID]domain.Pairing),
		pairs:  make(map[domain.SessionID][2]domain.ConnID),
	}
}

// Pair records a new session between a and b.
func (s *SessionRegistry) Pair(a, b domain.ConnID, mode domain.Mode) domain.SessionID {
	sid := domain.NewSessionID()
	s.byConn[a] = domain.Pairing{Partner: b, SessionID: sid, Mode: mode}
	s.byConn[b] = domain.Pairing{Partner: a, SessionID: sid, Mode: mode}
	s.pairs[sid] = [2]domain.ConnID{a, b}
	s.order = append(s.order, sid)
	log.Info().Str("module", "app.sessions").Str("session", string(sid)).
		Str("a", string(a)).Str("b", string(b)).Str("mode", string(mode)).Msg("paired")
	return sid
}

func (s *SessionRegistry) Lookup(id domain.ConnID) (domain.Pairing, bool) {
	p, ok := s.byConn[id]
	return p, ok
}

// SetMode changes the mode on both sides of the session id belongs to.
func (s *SessionRegistry) SetMode(id domain.ConnID, mode domain.Mode) bool {
	p, ok := s.byConn[id]
	if !ok {
		return false
	}
	p.Mode = mode
	s.byConn[id] = p
	q := s.byConn[p.Partner]
	q.Mode = mode
	s.byConn[p.Partner] = q
	return true
}

// Unpair removes both sides of the session id belongs to and returns the
// removed pairing as seen from id.
func (s *SessionRegistry) Unpair(id domain.ConnID) (domain.Pairing, bool) {
	p, ok := s.byConn[id]
	if !ok {
		return domain.Pairing{}, false
	}
	delete(s.byConn, id)
	delete(s.byConn, p.Partner)
	delete(s.pairs, p.SessionID)
	for i, sid := range s.order {
		if sid == p.SessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	log.Info().Str("module", "app.sessions").Str("session", string(p.SessionID)).Str("by", string(id)).Msg("unpaired")
	return p, true
}

// Participants returns both sides of a session in pairing order.
func (s *SessionRegistry) Participants(sid domain.SessionID) ([2]domain.ConnID, bool) {
	pair, ok := s.pairs[sid]
	return pair, ok
}

// Sessions returns session ids in creation order.
func (s *SessionRegistry) Sessions() []domain.SessionID {
	out := make([]domain.SessionID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *SessionRegistry) Len() int { return len(s.pairs) }
