package events

import "time"

// Event es una entrada del diario de actividad de una mascota.
// Se escribe dentro de la misma transacción que el cambio que describe.
type Event struct {
	ID    string
	PetID string

	Type    EventType
	ActorID string

	OccurredAt time.Time

	// Details lleva datos chicos de la transición (coins=7, item_id=...).
	Details map[string]string
}
