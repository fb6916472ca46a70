package uow

import (
	"context"
	"errors"

	"virtual-pet/internal/platform/keylock"
	"virtual-pet/internal/platform/logger"
	"virtual-pet/internal/ports/ledger"
	"virtual-pet/internal/ports/tx"
)

// Runner ejecuta una operación del motor de reglas como unidad atómica:
// toma los locks de los registros, abre la transacción del store y, si algo
// falla después de tocar el ledger, compensa las llamadas ya aplicadas.
type Runner struct {
	tx     tx.Transactor
	ledger ledger.Ledger
	locks  *keylock.Locker
	log    logger.Logger
}

func NewRunner(t tx.Transactor, led ledger.Ledger, locks *keylock.Locker, log logger.Logger) *Runner {
	if locks == nil {
		locks = keylock.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	if tr, ok := led.(*ledger.Tracked); ok {
		// la compensación no se vuelve a anotar
		led = tr.Inner()
	}
	return &Runner{tx: t, ledger: led, locks: locks, log: log}
}

func (r *Runner) Do(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	if r == nil || r.tx == nil {
		return errors.New("uow: transactor not configured")
	}

	unlock := r.locks.Lock(keys...)
	defer unlock()

	ctx, ops := ledger.WithOpLog(ctx)

	err := r.tx.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}

	if applied := ops.Ops(); len(applied) > 0 && r.ledger != nil {
		if rerr := ops.Revert(context.WithoutCancel(ctx), r.ledger); rerr != nil {
			r.log.Error("ledger compensation failed", map[string]any{
				"keys":  keys,
				"ops":   len(applied),
				"error": rerr.Error(),
				"cause": err.Error(),
			})
		} else {
			r.log.Warn("ledger operations compensated", map[string]any{
				"keys":  keys,
				"ops":   len(applied),
				"cause": err.Error(),
			})
		}
	}
	return err
}
