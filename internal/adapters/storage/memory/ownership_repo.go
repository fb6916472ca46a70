package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"virtual-pet/internal/domain/ownership"
	"virtual-pet/internal/domain/rules"
)

type requestRepo struct {
	s *Store
}

func (s *Store) OwnershipRequests() ownership.Repository {
	return &requestRepo{s: s}
}

func (t *txn) requestStage() *stage[ownership.Request] {
	if t == nil {
		return nil
	}
	return t.requests
}

func (r *requestRepo) Create(ctx context.Context, req ownership.Request) error {
	if req.ID == "" {
		return errors.New("request id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.requests, t.requestStage(), req.ID); exists {
		return errors.New("request already exists")
	}
	if t == nil {
		r.s.requests[req.ID] = req
		return nil
	}
	t.requests.put(req.ID, req)
	return nil
}

func (r *requestRepo) Update(ctx context.Context, req ownership.Request) error {
	if req.ID == "" {
		return errors.New("request id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.requests, t.requestStage(), req.ID); !exists {
		return fmt.Errorf("ownership request %s: %w", req.ID, rules.ErrNotFound)
	}
	if t == nil {
		r.s.requests[req.ID] = req
		return nil
	}
	t.requests.put(req.ID, req)
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id string) (ownership.Request, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := lookup(r.s.requests, t.requestStage(), id)
	if !ok {
		return ownership.Request{}, fmt.Errorf("ownership request %s: %w", id, rules.ErrNotFound)
	}
	return req, nil
}

func (r *requestRepo) ListByPet(ctx context.Context, petID string) ([]ownership.Request, error) {
	return r.list(ctx, func(req ownership.Request) bool { return req.PetID == petID })
}

func (r *requestRepo) ListByFrom(ctx context.Context, fromUserID string) ([]ownership.Request, error) {
	return r.list(ctx, func(req ownership.Request) bool { return req.FromUserID == fromUserID })
}

func (r *requestRepo) ListByTo(ctx context.Context, toUserID string) ([]ownership.Request, error) {
	return r.list(ctx, func(req ownership.Request) bool { return req.ToUserID == toUserID })
}

func (r *requestRepo) list(ctx context.Context, keep func(ownership.Request) bool) ([]ownership.Request, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := scan(r.s.requests, t.requestStage(), keep)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
