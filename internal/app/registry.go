package app

import (
	"context"

	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Meta   *domain.Connection
	Signal core.SignalConnection
	State  domain.State
	Cancel context.CancelFunc
}

// Registry holds per-connection metadata and transport handles.
// It is not safe for concurrent use; the orchestrator serializes access.
type Registry struct {
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

// Register stores a new connection in the Idle state with an unknown country.
func (r *Registry) Register(meta *domain.Connection, sig core.SignalConnection, cancel context.CancelFunc) {
	if meta.Country == "" {
		meta.Country = domain.UnknownCountry
	}
	r.conns[meta.ID] = &connEntry{
		Meta:   meta,
		Signal: sig,
		State:  domain.StateIdle,
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(meta.ID)).Msg("registered connection")
}

// Unregister drops the connection and cancels any pending lookup for it.
func (r *Registry) Unregister(id domain.ConnID) bool {
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	return true
}

func (r *Registry) Get(id domain.ConnID) (*domain.Connection, bool) {
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Meta, true
}

func (r *Registry) Signal(id domain.ConnID) (core.SignalConnection, bool) {
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.Signal, true
}

func (r *Registry) State(id domain.ConnID) domain.State {
	e, ok := r.conns[id]
	if !ok {
		return domain.StateClosed
	}
	return e.State
}

func (r *Registry) SetState(id domain.ConnID, s domain.State) {
	if e, ok := r.conns[id]; ok {
		e.State = s
	}
}

// SetPreferences records the mode and preference declared by a join.
func (r *Registry) SetPreferences(id domain.ConnID, mode domain.Mode, pref domain.Preference) bool {
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Meta.Mode = mode
	e.Meta.Pref = pref
	return true
}

// UpdateCountry overwrites the stored code. Unknown ids are ignored.
func (r *Registry) UpdateCountry(id domain.ConnID, code string) bool {
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	if code == "" {
		code = domain.UnknownCountry
	}
	e.Meta.Country = code
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("country", code).Msg("updated country")
	return true
}

func (r *Registry) Len() int { return len(r.conns) }
