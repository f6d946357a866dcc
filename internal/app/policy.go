package app

import "github.com/dkeye/Pairline/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a connection whose outbound queue is full.
type Policy interface {
	OnBackPressure(id domain.ConnID, state domain.State) BackpressureAction
}

// SimplePolicy kicks session participants that cannot keep up.
// Everyone else just loses the frame.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(_ domain.ConnID, state domain.State) BackpressureAction {
	if state == domain.StateMatched {
		return KickMember
	}
	return DropFrame
}
