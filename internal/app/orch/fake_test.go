package orch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/Pairline/internal/core"
	"github.com/dkeye/Pairline/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed  bool
	aborted bool
	full    bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.ErrConnClosed
	}
	if c.full {
		return core.ErrBackpressure
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.aborted = true
}

func (c *fakeConn) isAborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type event struct {
	Type           string           `json:"type"`
	ID             string           `json:"id"`
	PartnerCountry string           `json:"partnerCountry"`
	Signal         json.RawMessage  `json:"signal"`
	Msg            string           `json:"msg"`
	List           []core.ListEntry `json:"list"`
	SessionID      domain.SessionID `json:"sessionId"`
	From           string           `json:"from"`
	SenderID       domain.ConnID    `json:"senderId"`
}

func (c *fakeConn) events(t *testing.T) []event {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event, 0, len(c.frames))
	for _, f := range c.frames {
		var e event
		if err := json.Unmarshal(f, &e); err != nil {
			t.Fatalf("bad frame %s: %v", f, err)
		}
		out = append(out, e)
	}
	return out
}

func (c *fakeConn) ofType(t *testing.T, typ string) []event {
	t.Helper()
	var out []event
	for _, e := range c.events(t) {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Options{AdminSecret: "s3cret"})
}

func connect(o *Orchestrator) (domain.ConnID, *fakeConn) {
	c := &fakeConn{}
	id := o.Connect(c, "127.0.0.1")
	return id, c
}

// checkInvariants asserts the queue/session invariants on the live state.
func checkInvariants(t *testing.T, o *Orchestrator) {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, w := range o.queue.Entries() {
		if _, ok := o.sessions.Lookup(w.Conn); ok {
			t.Fatalf("%s is both queued and matched", w.Conn)
		}
	}
	for _, sid := range o.sessions.Sessions() {
		pair, _ := o.sessions.Participants(sid)
		pa, okA := o.sessions.Lookup(pair[0])
		pb, okB := o.sessions.Lookup(pair[1])
		if !okA || !okB {
			t.Fatalf("session %s is missing a side", sid)
		}
		if pa.Partner != pair[1] || pb.Partner != pair[0] || pa.SessionID != sid || pb.SessionID != sid || pa.Mode != pb.Mode {
			t.Fatalf("session %s not symmetric: %+v %+v", sid, pa, pb)
		}
	}
}
