package rules

import (
	"math"
	"time"
)

const (
	MaxStat uint8 = 100

	InteractionCooldown = 3600 * time.Second
	CoinEarnCooldown    = 86400 * time.Second

	PlayHappinessBoost uint8 = 10
)

// SaturatingAdd suma sin overflow: se queda en 255.
func SaturatingAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(s)
}

// AddStat suma con saturación y recorta al máximo de 100.
func AddStat(v, delta uint8) uint8 {
	return min(SaturatingAdd(v, delta), MaxStat)
}

// CheckedAddU64 devuelve ok=false si la suma desborda.
func CheckedAddU64(a, b uint64) (uint64, bool) {
	s := a + b
	if s < a {
		return 0, false
	}
	return s, true
}

// CoinsFor calcula la recompensa diaria: floor((health+happiness)/20).
func CoinsFor(health, happiness uint8) uint64 {
	return (uint64(health) + uint64(happiness)) / 20
}

// CheckCooldown compara a resolución de segundos (unix).
// Si now-last < window devuelve *RateLimitError.
func CheckCooldown(now, last time.Time, window time.Duration, reason RateLimitReason) error {
	elapsed := now.Unix() - last.Unix()
	w := int64(window / time.Second)
	if elapsed < w {
		return &RateLimitError{
			Reason:     reason,
			RetryAfter: time.Duration(w-elapsed) * time.Second,
		}
	}
	return nil
}
