package signal

import (
	"github.com/dkeye/Pairline/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSignal(id domain.ConnID, data []byte) {
	env, err := decodeEnvelope(data)
	if err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(id)).Msg("dropped frame")
		return
	}

	switch env.Type {
	case TypeJoin:
		ctl.handleJoin(id, env)
	case TypeSignal:
		ctl.Orch.Signal(id, env.Signal)
	case TypeChat:
		ctl.Orch.Chat(id, env.Msg)
	case TypeRequestVideo:
		ctl.Orch.RequestVideo(id)
	case TypeAcceptVideo:
		ctl.Orch.AcceptVideo(id)
	case TypeAdminLogin:
		ctl.Orch.AdminLogin(id, env.Pass)
	case TypeMonitor:
		ctl.Orch.Monitor(id, domain.SessionID(env.SessionID))
	case TypeStopMonitor:
		ctl.Orch.StopMonitor(id, domain.SessionID(env.SessionID))
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) handleJoin(id domain.ConnID, env envelope) {
	mode, err := domain.ParseMode(env.Mode)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Str("mode", env.Mode).Msg("bad join payload")
		return
	}
	pref, err := domain.ParsePreference(env.preference())
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(id)).Str("pref", env.preference()).Msg("bad join payload")
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("mode", string(mode)).Str("pref", string(pref)).Msg("join")
	ctl.Orch.Join(id, mode, pref)
}
