package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type OpKind string

const (
	OpMint OpKind = "mint"
	OpBurn OpKind = "burn"
)

// Op es una llamada ya aplicada en el ledger.
type Op struct {
	Kind    OpKind
	Account Account
	Amount  uint64
}

// OpLog acumula las operaciones aplicadas durante una unidad de trabajo
// para poder compensarlas si el commit del store falla.
type OpLog struct {
	mu  sync.Mutex
	ops []Op
}

type opLogKey struct{}

func WithOpLog(ctx context.Context) (context.Context, *OpLog) {
	l := &OpLog{}
	return context.WithValue(ctx, opLogKey{}, l), l
}

func opLogFrom(ctx context.Context) *OpLog {
	l, _ := ctx.Value(opLogKey{}).(*OpLog)
	return l
}

func (l *OpLog) add(op Op) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *OpLog) Ops() []Op {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Op, len(l.ops))
	copy(out, l.ops)
	return out
}

// Revert aplica la operación inversa de cada op, en orden inverso.
// mint se compensa con burn y viceversa.
func (l *OpLog) Revert(ctx context.Context, led Ledger) error {
	ops := l.Ops()
	var errs []error
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		var err error
		switch op.Kind {
		case OpMint:
			err = led.Burn(ctx, op.Account, op.Amount)
		case OpBurn:
			err = led.MintTo(ctx, op.Account, op.Amount)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("revert %s %s %d: %w", op.Kind, op.Account, op.Amount, err))
		}
	}
	return errors.Join(errs...)
}

// Tracked envuelve un Ledger y anota cada llamada exitosa en el OpLog del ctx.
type Tracked struct {
	inner Ledger
}

func NewTracked(inner Ledger) *Tracked {
	return &Tracked{inner: inner}
}

func (t *Tracked) Inner() Ledger { return t.inner }

func (t *Tracked) MintTo(ctx context.Context, dst Account, amount uint64) error {
	if err := t.inner.MintTo(ctx, dst, amount); err != nil {
		return err
	}
	if l := opLogFrom(ctx); l != nil {
		l.add(Op{Kind: OpMint, Account: dst, Amount: amount})
	}
	return nil
}

func (t *Tracked) Burn(ctx context.Context, src Account, amount uint64) error {
	if err := t.inner.Burn(ctx, src, amount); err != nil {
		return err
	}
	if l := opLogFrom(ctx); l != nil {
		l.add(Op{Kind: OpBurn, Account: src, Amount: amount})
	}
	return nil
}

// BalanceOf delega si el ledger interno lo soporta.
func (t *Tracked) BalanceOf(ctx context.Context, acc Account) (uint64, error) {
	br, ok := t.inner.(BalanceReader)
	if !ok {
		return 0, errors.New("ledger: balances not supported")
	}
	return br.BalanceOf(ctx, acc)
}
