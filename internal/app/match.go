package app

import "github.com/dkeye/Pairline/internal/domain"

// Compatible reports whether candidate c may be paired with waiting entry w.
// The relation is intentionally not symmetric in spirit: male never meets
// male, and lesbian only meets lesbian.
func Compatible(c, w WaitingEntry) bool {
	if c.Mode != w.Mode {
		return false
	}
	switch c.Pref {
	case domain.PrefLesbian:
		return w.Pref == domain.PrefLesbian
	case domain.PrefMale:
		return w.Pref == domain.PrefFemale || w.Pref == domain.PrefAny
	case domain.PrefFemale:
		return w.Pref == domain.PrefMale || w.Pref == domain.PrefAny
	case domain.PrefAny:
		return w.Pref == domain.PrefMale || w.Pref == domain.PrefFemale || w.Pref == domain.PrefAny
	}
	return false
}

// TryMatch returns the index of the first queued entry compatible with c,
// or -1. First fit: the longest-waiting compatible entry wins.
func TryMatch(queue []WaitingEntry, c WaitingEntry) int {
	for i, w := range queue {
		if w.Conn == c.Conn {
			continue
		}
		if Compatible(c, w) {
			return i
		}
	}
	return -1
}
