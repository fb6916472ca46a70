package events

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e Event) error
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Event, error)
}

type ListFilter struct {
	Types []EventType
	From  *time.Time
	To    *time.Time
	Limit int
}

// Matches aplica el filtro en memoria (lo usan los adapters sin SQL).
func (f ListFilter) Matches(e Event) bool {
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	return true
}
