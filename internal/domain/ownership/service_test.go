package ownership

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/domain/uow"
)

// -------------------------
// Test stores (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Request
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Request{}}
}

func (r *testRepo) Create(ctx context.Context, req Request) error {
	if req.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[req.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[req.ID] = req
	return nil
}

func (r *testRepo) Update(ctx context.Context, req Request) error {
	if _, ok := r.byID[req.ID]; !ok {
		return fmt.Errorf("request %s: %w", req.ID, rules.ErrNotFound)
	}
	r.byID[req.ID] = req
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Request, error) {
	req, ok := r.byID[id]
	if !ok {
		return Request{}, fmt.Errorf("request %s: %w", id, rules.ErrNotFound)
	}
	return req, nil
}

func (r *testRepo) list(match func(Request) bool) []Request {
	out := make([]Request, 0)
	for _, req := range r.byID {
		if match(req) {
			out = append(out, req)
		}
	}
	return out
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]Request, error) {
	return r.list(func(req Request) bool { return req.PetID == petID }), nil
}

func (r *testRepo) ListByFrom(ctx context.Context, fromUserID string) ([]Request, error) {
	return r.list(func(req Request) bool { return req.FromUserID == fromUserID }), nil
}

func (r *testRepo) ListByTo(ctx context.Context, toUserID string) ([]Request, error) {
	return r.list(func(req Request) bool { return req.ToUserID == toUserID }), nil
}

type testPets struct {
	byID map[string]pets.Pet
}

func (s *testPets) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	p, ok := s.byID[id]
	if !ok {
		return pets.Pet{}, fmt.Errorf("pet %s: %w", id, rules.ErrNotFound)
	}
	return p, nil
}

func (s *testPets) Update(ctx context.Context, p pets.Pet) error {
	s.byID[p.ID] = p
	return nil
}

type testJournal struct {
	types []events.EventType
}

func (j *testJournal) Record(ctx context.Context, in events.RecordInput) (events.Event, error) {
	j.types = append(j.types, in.Type)
	return events.Event{Type: in.Type}, nil
}

// testTx restaura ambos stores si fn falla.
type testTx struct {
	repo *testRepo
	pets *testPets
}

func (t *testTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	reqs := make(map[string]Request, len(t.repo.byID))
	for k, v := range t.repo.byID {
		reqs[k] = v
	}
	ps := make(map[string]pets.Pet, len(t.pets.byID))
	for k, v := range t.pets.byID {
		ps[k] = v
	}
	if err := fn(ctx); err != nil {
		t.repo.byID, t.pets.byID = reqs, ps
		return err
	}
	return nil
}

func newTestService(t *testing.T) (*Service, *testRepo, *testPets, *testJournal) {
	t.Helper()
	repo := newTestRepo()
	ps := &testPets{byID: map[string]pets.Pet{
		"p1": {ID: "p1", OwnerID: "alice", Health: 100, Happiness: 100},
	}}
	j := &testJournal{}
	runner := uow.NewRunner(&testTx{repo: repo, pets: ps}, nil, nil, nil)
	return NewService(repo, ps, j, runner, nil), repo, ps, j
}

// -------------------------
// Tests
// -------------------------

func TestService_Request_CreatesPendingToCurrentOwner(t *testing.T) {
	svc, _, _, j := newTestService(t)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	req, err := svc.Request(context.Background(), "p1", "bob")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if req.Status != StatusPending || req.FromUserID != "bob" || req.ToUserID != "alice" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.CreatedAt != now || req.ResolvedAt != nil {
		t.Fatalf("unexpected timestamps: %+v", req)
	}
	if len(j.types) != 1 || j.types[0] != events.EventTypeOwnershipRequested {
		t.Fatalf("expected OWNERSHIP_REQUESTED, got %v", j.types)
	}
}

func TestService_Request_Dedup_ReturnsSamePending(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	r1, err := svc.Request(context.Background(), "p1", "bob")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	r2, err := svc.Request(context.Background(), "p1", "bob")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r1.ID != r2.ID {
		t.Fatalf("expected same request id, got %s vs %s", r1.ID, r2.ID)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected 1 stored request, got %d", len(repo.byID))
	}
}

func TestService_Request_OwnerOrMissingPet(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.Request(context.Background(), "p1", "alice"); !errors.Is(err, rules.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for owner, got %v", err)
	}
	if _, err := svc.Request(context.Background(), "nope", "bob"); !errors.Is(err, rules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Respond_OnlyRecipient(t *testing.T) {
	svc, repo, ps, _ := newTestService(t)

	req, _ := svc.Request(context.Background(), "p1", "bob")

	for _, actor := range []string{"bob", "mallory"} {
		if _, err := svc.Respond(context.Background(), req.ID, actor, true); !errors.Is(err, rules.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", actor, err)
		}
	}
	if repo.byID[req.ID].Status != StatusPending {
		t.Fatalf("request must stay pending")
	}
	if ps.byID["p1"].OwnerID != "alice" {
		t.Fatalf("owner must not change")
	}
}

func TestService_Respond_Accept_TransfersAndRejectsSiblings(t *testing.T) {
	svc, repo, ps, j := newTestService(t)
	now1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	now2 := now1.Add(time.Hour)

	svc.now = func() time.Time { return now1 }
	fromBob, _ := svc.Request(context.Background(), "p1", "bob")
	fromCarol, _ := svc.Request(context.Background(), "p1", "carol")

	svc.now = func() time.Time { return now2 }
	got, err := svc.Respond(context.Background(), fromBob.ID, "alice", true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != StatusAccepted || got.ResolvedAt == nil || !got.ResolvedAt.Equal(now2) {
		t.Fatalf("unexpected resolved request: %+v", got)
	}
	if ps.byID["p1"].OwnerID != "bob" {
		t.Fatalf("expected owner bob, got %s", ps.byID["p1"].OwnerID)
	}
	if repo.byID[fromCarol.ID].Status != StatusRejected {
		t.Fatalf("expected sibling rejected, got %s", repo.byID[fromCarol.ID].Status)
	}

	want := []events.EventType{
		events.EventTypeOwnershipRequested,
		events.EventTypeOwnershipRequested,
		events.EventTypeOwnershipAccepted,
		events.EventTypeOwnershipRejected,
	}
	if fmt.Sprint(j.types) != fmt.Sprint(want) {
		t.Fatalf("expected journal %v, got %v", want, j.types)
	}
}

func TestService_Respond_Reject_KeepsOwner(t *testing.T) {
	svc, _, ps, _ := newTestService(t)

	req, _ := svc.Request(context.Background(), "p1", "bob")
	got, err := svc.Respond(context.Background(), req.ID, "alice", false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", got.Status)
	}
	if ps.byID["p1"].OwnerID != "alice" {
		t.Fatalf("owner must not change")
	}

	// una vez rechazada se puede volver a pedir
	again, err := svc.Request(context.Background(), "p1", "bob")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if again.ID == req.ID {
		t.Fatalf("expected a new request after rejection")
	}
}

func TestService_Respond_Twice_InvalidState(t *testing.T) {
	svc, _, ps, _ := newTestService(t)

	req, _ := svc.Request(context.Background(), "p1", "bob")
	if _, err := svc.Respond(context.Background(), req.ID, "alice", true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, accept := range []bool{true, false} {
		if _, err := svc.Respond(context.Background(), req.ID, "alice", accept); !errors.Is(err, rules.ErrInvalidState) {
			t.Fatalf("accept=%v: expected ErrInvalidState, got %v", accept, err)
		}
	}
	if ps.byID["p1"].OwnerID != "bob" {
		t.Fatalf("owner must stay bob")
	}
}

func TestService_Respond_OwnerChanged_InvalidState(t *testing.T) {
	svc, _, ps, _ := newTestService(t)

	req, _ := svc.Request(context.Background(), "p1", "bob")

	// la mascota cambió de dueño por otra vía
	p := ps.byID["p1"]
	p.OwnerID = "dave"
	ps.byID["p1"] = p

	if _, err := svc.Respond(context.Background(), req.ID, "alice", true); !errors.Is(err, rules.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if ps.byID["p1"].OwnerID != "dave" {
		t.Fatalf("owner must not change")
	}
}

func TestService_GetByID_OnlyParties(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	req, _ := svc.Request(context.Background(), "p1", "bob")

	for _, actor := range []string{"alice", "bob"} {
		if _, err := svc.GetByID(context.Background(), req.ID, actor); err != nil {
			t.Fatalf("%s: unexpected err: %v", actor, err)
		}
	}
	if _, err := svc.GetByID(context.Background(), req.ID, "mallory"); !errors.Is(err, rules.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "missing", "alice"); !errors.Is(err, rules.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListIncomingOutgoing_NewestFirst(t *testing.T) {
	svc, _, ps, _ := newTestService(t)
	ps.byID["p2"] = pets.Pet{ID: "p2", OwnerID: "alice"}

	base := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	older, _ := svc.Request(context.Background(), "p1", "bob")
	svc.now = func() time.Time { return base.Add(time.Minute) }
	newer, _ := svc.Request(context.Background(), "p2", "bob")

	in, err := svc.ListIncoming(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(in) != 2 || in[0].ID != newer.ID || in[1].ID != older.ID {
		t.Fatalf("unexpected incoming order: %+v", in)
	}

	out, err := svc.ListOutgoing(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 || out[0].ID != newer.ID {
		t.Fatalf("unexpected outgoing order: %+v", out)
	}

	if _, err := svc.ListIncoming(context.Background(), " "); !errors.Is(err, rules.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
