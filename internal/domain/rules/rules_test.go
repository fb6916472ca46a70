package rules

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAddStat_ClampsAt100(t *testing.T) {
	require.Equal(t, uint8(100), AddStat(95, 10))
	require.Equal(t, uint8(100), AddStat(100, 255))
	require.Equal(t, uint8(60), AddStat(50, 10))
	require.Equal(t, uint8(0), AddStat(0, 0))
}

func TestSaturatingAdd_StopsAtMaxUint8(t *testing.T) {
	require.Equal(t, uint8(255), SaturatingAdd(200, 100))
	require.Equal(t, uint8(30), SaturatingAdd(10, 20))
}

func TestCoinsFor(t *testing.T) {
	cases := []struct {
		health, happiness uint8
		want              uint64
	}{
		{80, 60, 7},
		{100, 100, 10},
		{0, 0, 0},
		{10, 9, 0},
		{19, 1, 1},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CoinsFor(c.health, c.happiness), "health=%d happiness=%d", c.health, c.happiness)
	}
}

func TestCheckedAddU64(t *testing.T) {
	v, ok := CheckedAddU64(1, 2)
	require.True(t, ok)
	require.Equal(t, uint64(3), v)

	_, ok = CheckedAddU64(^uint64(0), 1)
	require.False(t, ok)
}

func TestCheckCooldown(t *testing.T) {
	last := time.Unix(1_700_000_000, 0)

	err := CheckCooldown(last.Add(3599*time.Second), last, InteractionCooldown, ReasonTooFrequentInteraction)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRateLimited))

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	require.Equal(t, ReasonTooFrequentInteraction, rl.Reason)
	require.Equal(t, time.Second, rl.RetryAfter)

	require.NoError(t, CheckCooldown(last.Add(3600*time.Second), last, InteractionCooldown, ReasonTooFrequentInteraction))

	// resolución de segundos: 999ms de diferencia dentro del mismo segundo no cuenta
	require.Error(t, CheckCooldown(last.Add(86399*time.Second+999*time.Millisecond), last, CoinEarnCooldown, ReasonTooFrequentCoinEarn))
}

func TestLedgerError_WrapsSentinel(t *testing.T) {
	require.NoError(t, LedgerError("mint", nil))

	err := LedgerError("burn", errors.New("insufficient balance"))
	require.True(t, errors.Is(err, ErrLedger))
	require.Contains(t, err.Error(), "burn")
}

func TestOutcome(t *testing.T) {
	require.Equal(t, "ok", Outcome(nil))
	require.Equal(t, "rate_limited", Outcome(&RateLimitError{Reason: ReasonTooFrequentCoinEarn}))
	require.Equal(t, "ledger_failure", Outcome(LedgerError("mint", errors.New("boom"))))
	require.Equal(t, "not_found", Outcome(fmt.Errorf("pet %s: %w", "p1", ErrNotFound)))
	require.Equal(t, "error", Outcome(errors.New("other")))
}
