package app

import (
	"testing"

	"github.com/dkeye/Pairline/internal/domain"
)

func assertSymmetric(t *testing.T, s *SessionRegistry, a, b domain.ConnID) domain.Pairing {
	t.Helper()
	pa, ok := s.Lookup(a)
	if !ok {
		t.Fatalf("no entry for %s", a)
	}
	pb, ok := s.Lookup(b)
	if !ok {
		t.Fatalf("no entry for %s", b)
	}
	if pa.Partner != b || pb.Partner != a {
		t.Fatalf("partners not symmetric: %+v %+v", pa, pb)
	}
	if pa.SessionID != pb.SessionID || pa.Mode != pb.Mode {
		t.Fatalf("entries disagree: %+v %+v", pa, pb)
	}
	return pa
}

func TestSessionRegistryPairSymmetric(t *testing.T) {
	s := NewSessionRegistry()
	sid := s.Pair("a", "b", domain.ModeText)
	p := assertSymmetric(t, s, "a", "b")
	if p.SessionID != sid || p.Mode != domain.ModeText {
		t.Fatalf("unexpected pairing %+v", p)
	}

	if !s.SetMode("b", domain.ModeVideo) {
		t.Fatal("SetMode = false")
	}
	if p := assertSymmetric(t, s, "a", "b"); p.Mode != domain.ModeVideo {
		t.Fatalf("mode = %s, want video", p.Mode)
	}
}

func TestSessionRegistryUnpairRemovesBoth(t *testing.T) {
	s := NewSessionRegistry()
	first := s.Pair("a", "b", domain.ModeText)
	second := s.Pair("c", "d", domain.ModeText)

	p, ok := s.Unpair("b")
	if !ok || p.Partner != "a" || p.SessionID != first {
		t.Fatalf("Unpair(b) = %+v, %v", p, ok)
	}
	if _, ok := s.Lookup("a"); ok {
		t.Fatal("a still paired")
	}
	if _, ok := s.Participants(first); ok {
		t.Fatal("session still listed")
	}
	if got := s.Sessions(); len(got) != 1 || got[0] != second {
		t.Fatalf("Sessions() = %v", got)
	}
	if _, ok := s.Unpair("a"); ok {
		t.Fatal("second Unpair succeeded")
	}
}

func TestSessionIDsUnique(t *testing.T) {
	s := NewSessionRegistry()
	seen := make(map[domain.SessionID]bool)
	for i := 0; i < 500; i++ {
		a := domain.NewConnID()
		b := domain.NewConnID()
		sid := s.Pair(a, b, domain.ModeText)
		if seen[sid] {
			t.Fatalf("duplicate session id %s", sid)
		}
		seen[sid] = true
	}
}
