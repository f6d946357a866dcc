// Package orch owns all matching state. Every exported method takes the
// orchestrator lock, so the queue scan, removal and pairing of a join are
// observed atomically by concurrent joins and disconnects.
package orch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/Pairline/internal/app"
	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const defaultLookupTimeout = 3 * time.Second

type Options struct {
	AdminSecret   string
	Resolver      core.CountryResolver
	Policy        app.Policy
	ICEServers    []webrtc.ICEServer
	LookupTimeout time.Duration
}

type Orchestrator struct {
	mu sync.Mutex

	registry *app.Registry
	queue    *app.WaitingQueue
	sessions *app.SessionRegistry
	admins   *app.Admins

	policy        app.Policy
	resolver      core.CountryResolver
	secret        string
	iceServers    []webrtc.ICEServer
	lookupTimeout time.Duration

	// ctx bounds background country lookups.
	ctx context.Context
}

func New(ctx context.Context, opts Options) *Orchestrator {
	if opts.Policy == nil {
		opts.Policy = app.SimplePolicy{}
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	return &Orchestrator{
		registry:      app.NewRegistry(),
		queue:         app.NewWaitingQueue(),
		sessions:      app.NewSessionRegistry(),
		admins:        app.NewAdmins(),
		policy:        opts.Policy,
		resolver:      opts.Resolver,
		secret:        opts.AdminSecret,
		iceServers:    opts.ICEServers,
		lookupTimeout: opts.LookupTimeout,
		ctx:           ctx,
	}
}

// Connect registers a new transport endpoint and starts its country lookup
// in the background. The connection can join and relay immediately.
func (o *Orchestrator) Connect(sig core.SignalConnection, ip string) domain.ConnID {
	meta := domain.NewConnection(ip)

	var lookupCtx context.Context
	var cancel context.CancelFunc
	if o.resolver != nil {
		lookupCtx, cancel = context.WithTimeout(o.ctx, o.lookupTimeout)
	}

	o.mu.Lock()
	o.registry.Register(meta, sig, cancel)
	o.sendLocked(meta.ID, core.HelloEvent{Type: core.EventHello, ID: meta.ID, ICEServers: o.iceServers})
	o.mu.Unlock()

	if o.resolver != nil {
		go o.resolveCountry(lookupCtx, cancel, meta.ID, ip)
	}
	return meta.ID
}

func (o *Orchestrator) resolveCountry(ctx context.Context, cancel context.CancelFunc, id domain.ConnID, ip string) {
	defer cancel()
	code := o.resolver.Resolve(ctx, ip)
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Msg("country lookup canceled")
		return
	}
	if code == domain.UnknownCountry {
		return
	}
	o.SetCountry(id, code)
}

// SetCountry stores a resolved country code. Late results for closed
// connections are discarded.
func (o *Orchestrator) SetCountry(id domain.ConnID, code string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.registry.UpdateCountry(id, code) {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Msg("country for closed connection dropped")
		return
	}
	if meta, ok := o.registry.Get(id); ok {
		o.queue.UpdateCountry(id, meta.Country)
	}
	switch o.registry.State(id) {
	case domain.StateWaiting, domain.StateMatched:
		o.pushSnapshotLocked()
	}
}

// Disconnect tears down everything the connection took part in. A matched
// partner has its transport closed as well, after frames already queued
// for it are delivered.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.queue.Remove(id) {
		log.Info().Str("module", "orch").Str("conn", string(id)).Msg("left queue")
	}
	if p, ok := o.sessions.Unpair(id); ok {
		if sig, ok := o.registry.Signal(p.Partner); ok {
			sig.Close()
		}
		o.registry.SetState(p.Partner, domain.StateClosed)
		o.admins.Unbind(p.SessionID)
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("partner", string(p.Partner)).
			Str("session", string(p.SessionID)).Msg("session closed")
	}
	o.admins.Remove(id)
	o.registry.Unregister(id)
	o.pushSnapshotLocked()
}

// State reports the lifecycle state of id; unknown ids are Closed.
func (o *Orchestrator) State(id domain.ConnID) domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.registry.State(id)
}

func (o *Orchestrator) Stats() core.Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return core.Stats{
		Connections: o.registry.Len(),
		Waiting:     o.queue.Len(),
		Sessions:    o.sessions.Len(),
		Admins:      o.admins.Len(),
	}
}

// Pairing returns the session entry of id, if matched.
func (o *Orchestrator) Pairing(id domain.ConnID) (domain.Pairing, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessions.Lookup(id)
}

func (o *Orchestrator) sendLocked(id domain.ConnID, v any) {
	f, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode event")
		return
	}
	o.sendFrameLocked(id, f)
}

func (o *Orchestrator) sendFrameLocked(id domain.ConnID, f core.Frame) {
	sig, ok := o.registry.Signal(id)
	if !ok {
		return
	}
	if err := sig.TrySend(f); !errors.Is(err, core.ErrBackpressure) {
		return
	}
	switch o.policy.OnBackPressure(id, o.registry.State(id)) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("conn", string(id)).Msg("slow consumer kicked")
		sig.Abort()
	case app.DropFrame, app.NoAction:
		log.Debug().Str("module", "orch").Str("conn", string(id)).Msg("frame dropped")
	}
}
