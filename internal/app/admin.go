package app

import (
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

// Admins is the set of authenticated admin connections and the bindings
// from monitored sessions to the admin observing each. Not safe for
// concurrent use.
type Admins struct {
	set      map[domain.ConnID]struct{}
	bindings map[domain.SessionID]domain.ConnID
}

func NewAdmins() *Admins {
	return &Admins{
		set:      make(map[domain.ConnID]struct{}),
		bindings: make(map[domain.SessionID]domain.ConnID),
	}
}

func (a *Admins) Add(id domain.ConnID) {
	a.set[id] = struct{}{}
	log.Info().Str("module", "app.admins").Str("conn", string(id)).Msg("admin added")
}

// Remove drops id from the admin set. Bindings to it are left in place;
// deliveries to a closed admin are no-ops.
func (a *Admins) Remove(id domain.ConnID) bool {
	if _, ok := a.set[id]; !ok {
		return false
	}
	delete(a.set, id)
	log.Info().Str("module", "app.admins").Str("conn", string(id)).Msg("admin removed")
	return true
}

func (a *Admins) IsAdmin(id domain.ConnID) bool {
	_, ok := a.set[id]
	return ok
}

// List returns the admin ids in no particular order.
func (a *Admins) List() []domain.ConnID {
	out := make([]domain.ConnID, 0, len(a.set))
	for id := range a.set {
		out = append(out, id)
	}
	return out
}

// Bind makes admin the observer of sid, replacing any previous observer.
func (a *Admins) Bind(sid domain.SessionID, admin domain.ConnID) {
	a.bindings[sid] = admin
	log.Info().Str("module", "app.admins").Str("session", string(sid)).Str("admin", string(admin)).Msg("monitor bound")
}

func (a *Admins) Unbind(sid domain.SessionID) bool {
	if _, ok := a.bindings[sid]; !ok {
		return false
	}
	delete(a.bindings, sid)
	log.Info().Str("module", "app.admins").Str("session", string(sid)).Msg("monitor unbound")
	return true
}

func (a *Admins) Observer(sid domain.SessionID) (domain.ConnID, bool) {
	id, ok := a.bindings[sid]
	return id, ok
}

func (a *Admins) Len() int { return len(a.set) }
