package events

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"virtual-pet/internal/domain/rules"
)

type testRepo struct {
	items     []Event
	lastLimit int
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	r.items = append(r.items, e)
	return nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Event, error) {
	r.lastLimit = filter.Limit
	out := make([]Event, 0)
	for _, e := range r.items {
		if e.PetID == petID && filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func TestService_Record_Validates(t *testing.T) {
	svc := NewService(&testRepo{})
	at := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	bad := []RecordInput{
		{ActorID: "u1", Type: EventTypePetFed, OccurredAt: at},
		{PetID: "p1", Type: EventTypePetFed, OccurredAt: at},
		{PetID: "p1", ActorID: "u1", Type: "NOPE", OccurredAt: at},
		{PetID: "p1", ActorID: "u1", Type: EventTypePetFed},
	}
	for _, in := range bad {
		if _, err := svc.Record(context.Background(), in); !errors.Is(err, rules.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}

	e, err := svc.Record(context.Background(), RecordInput{PetID: "p1", ActorID: "u1", Type: EventTypePetPlayed, OccurredAt: at})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if e.ID == "" || e.Type != EventTypePetPlayed {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestService_ListByPet_LimitDefaultsAndFilters(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)
	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	for i, typ := range []EventType{EventTypePetInitialized, EventTypePetFed, EventTypePetPlayed, EventTypeCoinsEarned} {
		_, err := svc.Record(context.Background(), RecordInput{PetID: "p1", ActorID: "u1", Type: typ, OccurredAt: base.Add(time.Duration(i) * time.Minute)})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	list, err := svc.ListByPet(context.Background(), "p1", ListFilter{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastLimit != defaultListLimit {
		t.Fatalf("expected default limit %d, got %d", defaultListLimit, repo.lastLimit)
	}
	if len(list) != 4 || list[0].Type != EventTypeCoinsEarned {
		t.Fatalf("expected newest first, got %+v", list)
	}

	if _, err := svc.ListByPet(context.Background(), "p1", ListFilter{Limit: 10_000}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.lastLimit != maxListLimit {
		t.Fatalf("expected limit capped at %d, got %d", maxListLimit, repo.lastLimit)
	}

	from := base.Add(time.Minute)
	to := base.Add(2 * time.Minute)
	list, _ = svc.ListByPet(context.Background(), "p1", ListFilter{From: &from, To: &to})
	if len(list) != 2 {
		t.Fatalf("expected 2 events in range, got %d", len(list))
	}

	list, _ = svc.ListByPet(context.Background(), "p1", ListFilter{Types: []EventType{EventTypePetFed}})
	if len(list) != 1 || list[0].Type != EventTypePetFed {
		t.Fatalf("expected only PET_FED, got %+v", list)
	}

	if _, err := svc.ListByPet(context.Background(), " ", ListFilter{}); !errors.Is(err, rules.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
