// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"

	"github.com/google/uuid"
)

// UnknownCountry is reported until (or instead of) a successful lookup.
const UnknownCountry = "unknown"

var (
	ErrInvalidMode       = errors.New("invalid mode")
	ErrInvalidPreference = errors.New("invalid preference")
)

type ConnID string

// NewConnID returns a fresh identity for one transport connection.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

type Mode string

const (
	ModeText  Mode = "text"
	ModeVideo Mode = "video"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeText, ModeVideo:
		return m, nil
	}
	return "", ErrInvalidMode
}

type Preference string

const (
	PrefMale    Preference = "male"
	PrefFemale  Preference = "female"
	PrefLesbian Preference = "lesbian"
	PrefAny     Preference = "any"
)

func ParsePreference(s string) (Preference, error) {
	switch p := Preference(s); p {
	case PrefMale, PrefFemale, PrefLesbian, PrefAny:
		return p, nil
	}
	return "", ErrInvalidPreference
}

// State is the lifecycle position of a connection.
type State int

const (
	StateUnregistered State = iota
	StateIdle
	StateWaiting
	StateMatched
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaiting:
		return "waiting"
	case StateMatched:
		return "matched"
	case StateClosed:
		return "closed"
	default:
		return "unregistered"
	}
}

// Connection is the metadata of one live endpoint.
// Mode and Pref are empty until the first join.
type Connection struct {
	ID      ConnID     `json:"id"`
	Mode    Mode       `json:"mode"`
	Pref    Preference `json:"pref"`
	Country string     `json:"country"`
	IP      string     `json:"-"`
}

func NewConnection(ip string) *Connection {
	return &Connection{ID: NewConnID(), Country: UnknownCountry, IP: ip}
}
