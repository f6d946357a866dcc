package core

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/Pairline/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Outbound event types.
const (
	EventHello        = "hello"
	EventMatched      = "matched"
	EventSignal       = "signal"
	EventChat         = "chat"
	EventRequestVideo = "request_video"
	EventStartVideo   = "start_video"
	EventLoggedIn     = "logged_in"
	EventError        = "error"
	EventUpdateList   = "update_list"
	EventMonitoring   = "monitoring"
	EventMonitorChat  = "monitor_chat"
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusMatched Status = "matched"
)

// ListEntry is a read-only view of one connection for admins.
type ListEntry struct {
	ID        domain.ConnID     `json:"id"`
	Mode      domain.Mode       `json:"mode"`
	Pref      domain.Preference `json:"pref"`
	Country   string            `json:"country"`
	Status    Status            `json:"status"`
	SessionID domain.SessionID  `json:"sessionId,omitempty"`
}

type Stats struct {
	Connections int `json:"connections"`
	Waiting     int `json:"waiting"`
	Sessions    int `json:"sessions"`
	Admins      int `json:"admins"`
}

type HelloEvent struct {
	Type       string             `json:"type"`
	ID         domain.ConnID      `json:"id"`
	ICEServers []webrtc.ICEServer `json:"iceServers,omitempty"`
}

type MatchedEvent struct {
	Type           string `json:"type"`
	PartnerCountry string `json:"partnerCountry"`
}

// SignalEvent carries the partner's payload untouched.
type SignalEvent struct {
	Type   string          `json:"type"`
	Signal json.RawMessage `json:"signal"`
}

type ChatEvent struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// BareEvent is an event without fields (request_video, start_video).
type BareEvent struct {
	Type string `json:"type"`
}

type ListEvent struct {
	Type string      `json:"type"`
	List []ListEntry `json:"list"`
}

type ErrorEvent struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type MonitoringEvent struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
}

type MonitorChatEvent struct {
	Type      string           `json:"type"`
	SessionID domain.SessionID `json:"sessionId"`
	From      string           `json:"from"`
	SenderID  domain.ConnID    `json:"senderId"`
	Msg       string           `json:"msg"`
}

// Encode marshals an event into a Frame. HTML escaping is off so relayed
// payloads reach the partner unchanged.
func Encode(v any) (Frame, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
