package tx

import "context"

// Transactor delimita una unidad de trabajo.
// La transacción viaja en el ctx que recibe fn; los repos la toman de ahí.
// Si fn devuelve error no se persiste nada.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
