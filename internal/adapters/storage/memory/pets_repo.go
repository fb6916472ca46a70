package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/rules"
)

type petRepo struct {
	s *Store
}

func (s *Store) Pets() pets.Repository {
	return &petRepo{s: s}
}

func (t *txn) petStage() *stage[pets.Pet] {
	if t == nil {
		return nil
	}
	return t.pets
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.pets, t.petStage(), p.ID); exists {
		return errors.New("pet already exists")
	}
	if t == nil {
		r.s.pets[p.ID] = p
		return nil
	}
	t.pets.put(p.ID, p)
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.pets, t.petStage(), p.ID); !exists {
		return fmt.Errorf("pet %s: %w", p.ID, rules.ErrNotFound)
	}
	if t == nil {
		r.s.pets[p.ID] = p
		return nil
	}
	t.pets.put(p.ID, p)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := lookup(r.s.pets, t.petStage(), id)
	if !ok {
		return pets.Pet{}, fmt.Errorf("pet %s: %w", id, rules.ErrNotFound)
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := scan(r.s.pets, t.petStage(), func(p pets.Pet) bool {
		return p.OwnerID == ownerID
	})

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
