package events

type EventType string

const (
	EventTypePetInitialized     EventType = "PET_INITIALIZED"
	EventTypePetFed             EventType = "PET_FED"
	EventTypePetPlayed          EventType = "PET_PLAYED"
	EventTypeCoinsEarned        EventType = "COINS_EARNED"
	EventTypeOwnershipRequested EventType = "OWNERSHIP_REQUESTED"
	EventTypeOwnershipAccepted  EventType = "OWNERSHIP_ACCEPTED"
	EventTypeOwnershipRejected  EventType = "OWNERSHIP_REJECTED"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypePetInitialized,
		EventTypePetFed,
		EventTypePetPlayed,
		EventTypeCoinsEarned,
		EventTypeOwnershipRequested,
		EventTypeOwnershipAccepted,
		EventTypeOwnershipRejected:
		return true
	default:
		return false
	}
}
