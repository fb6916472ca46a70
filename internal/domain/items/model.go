package items

import "time"

// AssetPrefix antecede al ID para formar el código de activo del ítem en el ledger.
const AssetPrefix = "ITEM-"

// Item es un consumible de un solo uso. Se quema (y se borra) al alimentar.
type Item struct {
	ID      string
	OwnerID string

	// Asset es el código del token del ítem en el ledger (ITEM-<id>).
	Asset string

	HealthEffect    uint8
	HappinessEffect uint8

	// Price en PETCOIN; se cobra al emitir el ítem.
	Price uint64

	CreatedAt time.Time
}
