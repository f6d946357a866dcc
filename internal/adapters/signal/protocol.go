package signal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrProtocol marks an inbound frame that is not a valid envelope. Such
// frames are dropped without any reply.
var ErrProtocol = errors.New("protocol error")

// Inbound message types.
const (
	TypeJoin         = "join"
	TypeSignal       = "signal"
	TypeChat         = "chat"
	TypeRequestVideo = "request_video"
	TypeAcceptVideo  = "accept_video"
	TypeAdminLogin   = "admin_login"
	TypeMonitor      = "monitor"
	TypeStopMonitor  = "stop_monitor"
)

// envelope is the union of every inbound message's fields.
type envelope struct {
	Type       string          `json:"type"`
	Mode       string          `json:"mode,omitempty"`
	Pref       string          `json:"pref,omitempty"`
	Preference string          `json:"preference,omitempty"`
	Signal     json.RawMessage `json:"signal,omitempty"`
	Msg        string          `json:"msg,omitempty"`
	Pass       string          `json:"pass,omitempty"`
	SessionID  string          `json:"sessionId,omitempty"`
}

// preference accepts both the short and the long field name.
func (e envelope) preference() string {
	if e.Pref != "" {
		return e.Pref
	}
	return e.Preference
}

func decodeEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if env.Type == "" {
		return envelope{}, fmt.Errorf("%w: missing type", ErrProtocol)
	}
	return env, nil
}
