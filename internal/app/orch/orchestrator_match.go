package orch

import (
	"github.com/dkeye/Pairline/internal/app"
	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join puts id into matching with the declared mode and preference.
// A join while waiting replaces the queued entry; a join while matched is
// ignored.
func (o *Orchestrator) Join(id domain.ConnID, mode domain.Mode, pref domain.Preference) {
	o.mu.Lock()
	defer o.mu.Unlock()

	meta, ok := o.registry.Get(id)
	if !ok || o.registry.State(id) == domain.StateClosed {
		return
	}
	if _, matched := o.sessions.Lookup(id); matched {
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("join while matched ignored")
		return
	}
	o.registry.SetPreferences(id, mode, pref)
	o.queue.Remove(id)

	candidate := app.WaitingEntry{Conn: id, Mode: mode, Pref: pref, Country: meta.Country}
	i := app.TryMatch(o.queue.Entries(), candidate)
	if i < 0 {
		o.queue.Push(candidate)
		o.registry.SetState(id, domain.StateWaiting)
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("mode", string(mode)).
			Str("pref", string(pref)).Int("queue", o.queue.Len()).Msg("queued")
		o.pushSnapshotLocked()
		return
	}

	waiting := o.queue.RemoveAt(i)
	sid := o.sessions.Pair(id, waiting.Conn, mode)
	o.registry.SetState(id, domain.StateMatched)
	o.registry.SetState(waiting.Conn, domain.StateMatched)

	o.sendLocked(id, core.MatchedEvent{Type: core.EventMatched, PartnerCountry: o.countryLocked(waiting.Conn)})
	o.sendLocked(waiting.Conn, core.MatchedEvent{Type: core.EventMatched, PartnerCountry: o.countryLocked(id)})
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("partner", string(waiting.Conn)).
		Str("session", string(sid)).Msg("matched")
	o.pushSnapshotLocked()
}

func (o *Orchestrator) countryLocked(id domain.ConnID) string {
	if meta, ok := o.registry.Get(id); ok {
		return meta.Country
	}
	return domain.UnknownCountry
}
