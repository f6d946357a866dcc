package orch

import (
	"encoding/json"

	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

// monitorSender tags chat copies delivered to an observing admin.
const monitorSender = "user"

// partnerLocked resolves the session of id. A miss is a benign race with
// a disconnect and is only logged.
func (o *Orchestrator) partnerLocked(id domain.ConnID, kind string) (domain.Pairing, bool) {
	p, ok := o.sessions.Lookup(id)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Str("type", kind).Msg("no session, dropped")
	}
	return p, ok
}

// Signal forwards an opaque signaling payload to the partner.
func (o *Orchestrator) Signal(id domain.ConnID, payload json.RawMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.partnerLocked(id, core.EventSignal)
	if !ok {
		return
	}
	o.sendLocked(p.Partner, core.SignalEvent{Type: core.EventSignal, Signal: payload})
}

// Chat forwards a chat line to the partner and mirrors it to the admin
// monitoring the session, if any.
func (o *Orchestrator) Chat(id domain.ConnID, msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.partnerLocked(id, core.EventChat)
	if !ok {
		return
	}
	o.sendLocked(p.Partner, core.ChatEvent{Type: core.EventChat, Msg: msg})

	if admin, ok := o.admins.Observer(p.SessionID); ok {
		o.sendLocked(admin, core.MonitorChatEvent{
			Type:      core.EventMonitorChat,
			SessionID: p.SessionID,
			From:      monitorSender,
			SenderID:  id,
			Msg:       msg,
		})
	}
}

func (o *Orchestrator) RequestVideo(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.partnerLocked(id, core.EventRequestVideo)
	if !ok {
		return
	}
	o.sendLocked(p.Partner, core.BareEvent{Type: core.EventRequestVideo})
}

// AcceptVideo starts video on both sides and upgrades the session mode.
func (o *Orchestrator) AcceptVideo(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	p, ok := o.partnerLocked(id, "accept_video")
	if !ok {
		return
	}
	start := core.BareEvent{Type: core.EventStartVideo}
	o.sendLocked(p.Partner, start)
	o.sendLocked(id, start)
	o.sessions.SetMode(id, domain.ModeVideo)
	log.Info().Str("module", "orch").Str("session", string(p.SessionID)).Msg("upgraded to video")
	o.pushSnapshotLocked()
}
