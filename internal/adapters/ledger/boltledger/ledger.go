// Package boltledger persiste saldos del ledger en un archivo bbolt local.
package boltledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"virtual-pet/internal/ports/ledger"

	"github.com/holiman/uint256"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketBalances = []byte("balances")
	bucketSupply   = []byte("supply")
)

// Ledger guarda cada saldo como uint256 big-endian de 32 bytes bajo la
// clave "holder/asset". Cada MintTo/Burn es una transacción bbolt.
type Ledger struct {
	db *bolt.DB
}

// Open crea (y migra) el archivo del ledger.
func Open(path string, options *bolt.Options) (*Ledger, error) {
	if options == nil {
		options = &bolt.Options{Timeout: time.Second}
	} else if options.Timeout == 0 {
		options.Timeout = time.Second
	}
	db, err := bolt.Open(path, 0o600, options)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketBalances, bucketSupply} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
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

	delta := uint256.NewInt(amount)
	return l.db.Update(func(tx *bolt.Tx) error {
		balances := tx.Bucket(bucketBalances)
		supply := tx.Bucket(bucketSupply)

		bal := decode(balances.Get(accountKey(dst)))
		next, overflow := new(uint256.Int).AddOverflow(bal, delta)
		if overflow {
			return fmt.Errorf("mint %s: balance overflow", dst)
		}
		sup := decode(supply.Get([]byte(dst.Asset)))
		nextSupply, overflow := new(uint256.Int).AddOverflow(sup, delta)
		if overflow {
			return fmt.Errorf("mint %s: supply overflow", dst)
		}

		if err := balances.Put(accountKey(dst), encode(next)); err != nil {
			return err
		}
		return supply.Put([]byte(dst.Asset), encode(nextSupply))
	})
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

	delta := uint256.NewInt(amount)
	return l.db.Update(func(tx *bolt.Tx) error {
		balances := tx.Bucket(bucketBalances)
		supply := tx.Bucket(bucketSupply)

		bal := decode(balances.Get(accountKey(src)))
		if bal.Lt(delta) {
			return fmt.Errorf("burn %d from %s: %w", amount, src, ledger.ErrInsufficientBalance)
		}
		next := new(uint256.Int).Sub(bal, delta)
		if next.IsZero() {
			if err := balances.Delete(accountKey(src)); err != nil {
				return err
			}
		} else if err := balances.Put(accountKey(src), encode(next)); err != nil {
			return err
		}

		sup := decode(supply.Get([]byte(src.Asset)))
		if sup.Lt(delta) {
			return errors.New("ledger: supply underflow")
		}
		return supply.Put([]byte(src.Asset), encode(new(uint256.Int).Sub(sup, delta)))
	})
}

func (l *Ledger) BalanceOf(ctx context.Context, acc ledger.Account) (uint64, error) {
	if !acc.Valid() {
		return 0, ledger.ErrInvalidAccount
	}
	var bal *uint256.Int
	if err := l.db.View(func(tx *bolt.Tx) error {
		bal = decode(tx.Bucket(bucketBalances).Get(accountKey(acc)))
		return nil
	}); err != nil {
		return 0, err
	}
	if !bal.IsUint64() {
		return 0, errors.New("ledger: balance exceeds uint64")
	}
	return bal.Uint64(), nil
}

// Supply devuelve el circulante de un activo.
func (l *Ledger) Supply(asset string) (*uint256.Int, error) {
	var sup *uint256.Int
	err := l.db.View(func(tx *bolt.Tx) error {
		sup = decode(tx.Bucket(bucketSupply).Get([]byte(asset)))
		return nil
	})
	return sup, err
}

func accountKey(acc ledger.Account) []byte {
	return []byte(acc.String())
}

// decode copia: los slices de bbolt solo son válidos dentro de la tx.
func decode(raw []byte) *uint256.Int {
	if len(raw) == 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(raw)
}

func encode(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}
