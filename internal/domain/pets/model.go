package pets

import "time"

const (
	InitialHealth    uint8 = 100
	InitialHappiness uint8 = 100
)

// Pet es el registro de la mascota virtual de un dueño.
// Health y Happiness viven en [0,100]; CoinsEarned nunca baja.
type Pet struct {
	ID      string
	OwnerID string

	Health    uint8
	Happiness uint8

	CoinsEarned uint64

	// LastInteraction: último play. LastCoinEarn: última recompensa diaria.
	LastInteraction time.Time
	LastCoinEarn    time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
