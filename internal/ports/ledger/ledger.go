package ledger

import (
	"context"
	"errors"
	"strings"
)

// AssetPetCoin es el token fungible que se acuña como recompensa diaria.
const AssetPetCoin = "PETCOIN"

var (
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrInvalidAmount       = errors.New("ledger: invalid amount")
	ErrInvalidAccount      = errors.New("ledger: invalid account")
)

// Account identifica una cuenta del ledger: (titular, activo).
type Account struct {
	Holder string
	Asset  string
}

func (a Account) Valid() bool {
	return strings.TrimSpace(a.Holder) != "" && strings.TrimSpace(a.Asset) != ""
}

func (a Account) String() string {
	return a.Holder + "/" + a.Asset
}

// Ledger es la capacidad externa de acuñar y quemar unidades.
// Cada llamada es atómica: o aplica completa o falla.
type Ledger interface {
	MintTo(ctx context.Context, dst Account, amount uint64) error
	Burn(ctx context.Context, src Account, amount uint64) error
}

// BalanceReader es opcional; no todos los ledgers exponen saldos.
type BalanceReader interface {
	BalanceOf(ctx context.Context, acc Account) (uint64, error)
}
