package events

import (
	"context"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RecordInput struct {
	PetID      string
	ActorID    string
	Type       EventType
	OccurredAt time.Time
	Details    map[string]string
}

// Record agrega una entrada al diario. Pensado para llamarse dentro de
// WithinTx: si la operación que lo rodea falla, el evento no queda.
func (s *Service) Record(ctx context.Context, in RecordInput) (Event, error) {
	if strings.TrimSpace(in.PetID) == "" || strings.TrimSpace(in.ActorID) == "" {
		return Event{}, rules.ErrInvalidInput
	}
	if !in.Type.Valid() {
		return Event{}, rules.ErrInvalidInput
	}
	if in.OccurredAt.IsZero() {
		return Event{}, rules.ErrInvalidInput
	}

	e := Event{
		ID:         uuid.NewString(),
		PetID:      in.PetID,
		Type:       in.Type,
		ActorID:    in.ActorID,
		OccurredAt: in.OccurredAt,
		Details:    in.Details,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Event, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, rules.ErrInvalidInput
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.ListByPet(ctx, petID, filter)
}
