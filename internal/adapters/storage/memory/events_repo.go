package memory

import (
	"context"
	"errors"
	"sort"

	"virtual-pet/internal/domain/events"
)

type eventRepo struct {
	s *Store
}

func (s *Store) Events() events.Repository {
	return &eventRepo{s: s}
}

func (t *txn) eventStage() *stage[events.Event] {
	if t == nil {
		return nil
	}
	return t.events
}

func (r *eventRepo) Create(ctx context.Context, e events.Event) error {
	if e.ID == "" {
		return errors.New("event id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.events, t.eventStage(), e.ID); exists {
		return errors.New("event already exists")
	}
	r.s.stampSeq(e.ID)
	if t == nil {
		r.s.events[e.ID] = e
		return nil
	}
	t.events.put(e.ID, e)
	return nil
}

func (r *eventRepo) ListByPet(ctx context.Context, petID string, filter events.ListFilter) ([]events.Event, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := scan(r.s.events, t.eventStage(), func(e events.Event) bool {
		return e.PetID == petID && filter.Matches(e)
	})

	// Orden por occurred_at desc (más reciente primero)
	seq := r.s.seqOf(out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return seq[out[i].ID] > seq[out[j].ID]
		}
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) stampSeq(id string) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.nextSeq++
	s.eventSeq[id] = s.nextSeq
}

func (s *Store) seqOf(list []events.Event) map[string]uint64 {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	out := make(map[string]uint64, len(list))
	for _, e := range list {
		out[e.ID] = s.eventSeq[e.ID]
	}
	return out
}
