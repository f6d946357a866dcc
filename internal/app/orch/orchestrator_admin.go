package orch

import (
	"crypto/subtle"

	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	wrongPassword = "Wrong password"
	sessionEnded  = "Session not found"
)

// AdminLogin grants admin rights on a matching secret and answers with the
// current list. A wrong secret gets an error event and nothing else.
func (o *Orchestrator) AdminLogin(id domain.ConnID, secret string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.registry.Get(id); !ok {
		return false
	}
	if o.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(o.secret)) != 1 {
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("admin login rejected")
		o.sendLocked(id, core.ErrorEvent{Type: core.EventError, Msg: wrongPassword})
		return false
	}
	o.admins.Add(id)
	o.sendLocked(id, core.ListEvent{Type: core.EventLoggedIn, List: o.snapshotLocked()})
	return true
}

// Monitor binds admin to the chat stream of sid, replacing any previous
// observer. Requests from non-admins are dropped; an admin asking for a
// session that is gone gets an error event.
func (o *Orchestrator) Monitor(admin domain.ConnID, sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.admins.IsAdmin(admin) {
		log.Warn().Str("module", "orch").Str("conn", string(admin)).Msg("monitor from non-admin dropped")
		return
	}
	if _, ok := o.sessions.Participants(sid); !ok {
		log.Debug().Str("module", "orch").Str("session", string(sid)).Msg("monitor unknown session")
		o.sendLocked(admin, core.ErrorEvent{Type: core.EventError, Msg: sessionEnded})
		return
	}
	o.admins.Bind(sid, admin)
	o.sendLocked(admin, core.MonitoringEvent{Type: core.EventMonitoring, SessionID: sid})
}

func (o *Orchestrator) StopMonitor(admin domain.ConnID, sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.admins.IsAdmin(admin) {
		return
	}
	o.admins.Unbind(sid)
}

// Snapshot lists every waiting connection followed by every session
// participant, each exactly once.
func (o *Orchestrator) Snapshot() []core.ListEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() []core.ListEntry {
	list := make([]core.ListEntry, 0, o.queue.Len()+2*o.sessions.Len())
	for _, w := range o.queue.Entries() {
		list = append(list, core.ListEntry{
			ID:      w.Conn,
			Mode:    w.Mode,
			Pref:    w.Pref,
			Country: w.Country,
			Status:  core.StatusWaiting,
		})
	}
	for _, sid := range o.sessions.Sessions() {
		pair, _ := o.sessions.Participants(sid)
		for _, id := range pair {
			p, ok := o.sessions.Lookup(id)
			if !ok {
				continue
			}
			entry := core.ListEntry{
				ID:        id,
				Mode:      p.Mode,
				Country:   domain.UnknownCountry,
				Status:    core.StatusMatched,
				SessionID: sid,
			}
			if meta, ok := o.registry.Get(id); ok {
				entry.Pref = meta.Pref
				entry.Country = meta.Country
			}
			list = append(list, entry)
		}
	}
	return list
}

// pushSnapshotLocked sends update_list to every admin.
func (o *Orchestrator) pushSnapshotLocked() {
	if o.admins.Len() == 0 {
		return
	}
	f, err := core.Encode(core.ListEvent{Type: core.EventUpdateList, List: o.snapshotLocked()})
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode update_list")
		return
	}
	for _, admin := range o.admins.List() {
		o.sendFrameLocked(admin, f)
	}
}
