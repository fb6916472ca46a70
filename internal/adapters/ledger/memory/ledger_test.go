package memory

import (
	"context"
	"errors"
	"testing"

	"virtual-pet/internal/ports/ledger"

	"github.com/stretchr/testify/require"
)

func TestLedger_MintBurnBalance(t *testing.T) {
	l := New()
	ctx := context.Background()
	acc := ledger.Account{Holder: "u1", Asset: ledger.AssetPetCoin}

	require.NoError(t, l.MintTo(ctx, acc, 7))
	require.NoError(t, l.MintTo(ctx, acc, 3))

	bal, err := l.BalanceOf(ctx, acc)
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal)

	require.NoError(t, l.Burn(ctx, acc, 4))
	bal, err = l.BalanceOf(ctx, acc)
	require.NoError(t, err)
	require.Equal(t, uint64(6), bal)
	require.Equal(t, uint64(6), l.Supply(ledger.AssetPetCoin).Uint64())
}

func TestLedger_BurnMoreThanBalance_Fails(t *testing.T) {
	l := New()
	ctx := context.Background()
	acc := ledger.Account{Holder: "u1", Asset: "ITEM-x"}

	require.NoError(t, l.MintTo(ctx, acc, 1))
	require.NoError(t, l.Burn(ctx, acc, 1))

	err := l.Burn(ctx, acc, 1)
	require.True(t, errors.Is(err, ledger.ErrInsufficientBalance))
}

func TestLedger_RejectsZeroAndInvalidAccounts(t *testing.T) {
	l := New()
	ctx := context.Background()

	require.ErrorIs(t, l.MintTo(ctx, ledger.Account{Holder: "u1", Asset: "PETCOIN"}, 0), ledger.ErrInvalidAmount)
	require.ErrorIs(t, l.MintTo(ctx, ledger.Account{Asset: "PETCOIN"}, 1), ledger.ErrInvalidAccount)
	require.ErrorIs(t, l.Burn(ctx, ledger.Account{Holder: "u1"}, 1), ledger.ErrInvalidAccount)
}

func TestLedger_BalancesBeyondUint64(t *testing.T) {
	l := New()
	ctx := context.Background()
	acc := ledger.Account{Holder: "whale", Asset: ledger.AssetPetCoin}

	require.NoError(t, l.MintTo(ctx, acc, ^uint64(0)))
	require.NoError(t, l.MintTo(ctx, acc, 1))

	_, err := l.BalanceOf(ctx, acc)
	require.Error(t, err)

	require.NoError(t, l.Burn(ctx, acc, 1))
	bal, err := l.BalanceOf(ctx, acc)
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), bal)
}
