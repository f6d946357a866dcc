package rtc

import (
	"github.com/pion/stun/v3"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const defaultSTUN = "stun:stun.l.google.com:19302"

// ICEServer is one configured STUN/TURN entry.
type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

// DefaultWebRTCConfig is handed to browsers when nothing is configured.
func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{defaultSTUN},
			},
		},
	}
}

// WebRTCConfig converts configured servers into the pion shape browsers
// understand. URLs pion cannot parse are skipped, as are TURN URLs of an
// entry without credentials.
func WebRTCConfig(servers []ICEServer) webrtc.Configuration {
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		hasCreds := s.Username != "" && s.Credential != ""
		urls := make([]string, 0, len(s.URLs))
		for _, raw := range s.URLs {
			u, err := stun.ParseURI(raw)
			if err != nil {
				log.Warn().Err(err).Str("module", "rtc").Str("url", raw).Msg("ice url skipped")
				continue
			}
			if isTURN(u) && !hasCreds {
				log.Warn().Err(webrtc.ErrNoTurnCredentials).Str("module", "rtc").Str("url", raw).Msg("ice url skipped")
				continue
			}
			urls = append(urls, raw)
		}
		if len(urls) == 0 {
			continue
		}
		srv := webrtc.ICEServer{URLs: urls}
		if hasCreds {
			srv.Username = s.Username
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		out = append(out, srv)
	}
	if len(out) == 0 {
		return DefaultWebRTCConfig()
	}
	return webrtc.Configuration{ICEServers: out}
}

func isTURN(u *stun.URI) bool {
	return u.Scheme == stun.SchemeTypeTURN || u.Scheme == stun.SchemeTypeTURNS
}
