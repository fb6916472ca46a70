// Package memory es un ledger en proceso para dev y tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"virtual-pet/internal/ports/ledger"

	"github.com/holiman/uint256"
)

// Ledger guarda saldos de 256 bits: la suma de muchos mints no desborda
// aunque cada llamada sea uint64.
type Ledger struct {
	mu       sync.Mutex
	balances map[ledger.Account]*uint256.Int
	supply   map[string]*uint256.Int
}

func New() *Ledger {
	return &Ledger{
		balances: make(map[ledger.Account]*uint256.Int),
		supply:   make(map[string]*uint256.Int),
	}
}

func (l *Ledger) MintTo(ctx context.Context, dst ledger.Account, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !dst.Valid() {
		return ledger.ErrInvalidAccount
	}
	if amount == 0 {
		return ledger.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delta := uint256.NewInt(amount)

	bal := l.balance(dst)
	next, overflow := new(uint256.Int).AddOverflow(bal, delta)
	if overflow {
		return fmt.Errorf("mint %s: balance overflow", dst)
	}
	sup := l.supplyOf(dst.Asset)
	nextSupply, overflow := new(uint256.Int).AddOverflow(sup, delta)
	if overflow {
		return fmt.Errorf("mint %s: supply overflow", dst)
	}

	l.balances[dst] = next
	l.supply[dst.Asset] = nextSupply
	return nil
}

func (l *Ledger) Burn(ctx context.Context, src ledger.Account, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !src.Valid() {
		return ledger.ErrInvalidAccount
	}
	if amount == 0 {
		return ledger.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	delta := uint256.NewInt(amount)

	bal := l.balance(src)
	if bal.Lt(delta) {
		return fmt.Errorf("burn %d from %s: %w", amount, src, ledger.ErrInsufficientBalance)
	}

	next := new(uint256.Int).Sub(bal, delta)
	if next.IsZero() {
		delete(l.balances, src)
	} else {
		l.balances[src] = next
	}
	l.supply[src.Asset] = new(uint256.Int).Sub(l.supplyOf(src.Asset), delta)
	return nil
}

func (l *Ledger) BalanceOf(ctx context.Context, acc ledger.Account) (uint64, error) {
	if !acc.Valid() {
		return 0, ledger.ErrInvalidAccount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.balance(acc)
	if !bal.IsUint64() {
		return 0, errors.New("ledger: balance exceeds uint64")
	}
	return bal.Uint64(), nil
}

// Supply devuelve el total acuñado menos lo quemado de un activo.
func (l *Ledger) Supply(asset string) *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(l.supplyOf(asset))
}

func (l *Ledger) balance(acc ledger.Account) *uint256.Int {
	if b, ok := l.balances[acc]; ok {
		return b
	}
	return new(uint256.Int)
}

func (l *Ledger) supplyOf(asset string) *uint256.Int {
	if s, ok := l.supply[asset]; ok {
		return s
	}
	return new(uint256.Int)
}
