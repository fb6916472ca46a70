package ownership

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// Request es una solicitud de traspaso de una mascota.
// Pending -> Accepted | Rejected, una sola vez.
type Request struct {
	ID string

	PetID string

	FromUserID string // quien pide la mascota
	ToUserID   string // dueño actual al momento de pedir

	Status Status

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}
