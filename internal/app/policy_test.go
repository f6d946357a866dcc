package app

import (
	"testing"

	"github.com/dkeye/Pairline/internal/domain"
)

func TestSimplePolicy(t *testing.T) {
	var p SimplePolicy
	if got := p.OnBackPressure("a", domain.StateMatched); got != KickMember {
		t.Errorf("matched: got %v, want KickMember", got)
	}
	for _, s := range []domain.State{domain.StateIdle, domain.StateWaiting} {
		if got := p.OnBackPressure("a", s); got != DropFrame {
			t.Errorf("%s: got %v, want DropFrame", s, got)
		}
	}
}
