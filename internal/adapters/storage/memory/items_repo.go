package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"virtual-pet/internal/domain/items"
	"virtual-pet/internal/domain/rules"
)

type itemRepo struct {
	s *Store
}

func (s *Store) Items() items.Repository {
	return &itemRepo{s: s}
}

func (t *txn) itemStage() *stage[items.Item] {
	if t == nil {
		return nil
	}
	return t.items
}

func (r *itemRepo) Create(ctx context.Context, it items.Item) error {
	if strings.TrimSpace(it.ID) == "" {
		return errors.New("item id required")
	}
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.items, t.itemStage(), it.ID); exists {
		return errors.New("item already exists")
	}
	if t == nil {
		r.s.items[it.ID] = it
		return nil
	}
	t.items.put(it.ID, it)
	return nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (items.Item, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	it, ok := lookup(r.s.items, t.itemStage(), id)
	if !ok {
		return items.Item{}, fmt.Errorf("item %s: %w", id, rules.ErrNotFound)
	}
	return it, nil
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	t := r.s.txFrom(ctx)

	if t == nil {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	} else {
		r.s.mu.RLock()
		defer r.s.mu.RUnlock()
	}

	if _, exists := lookup(r.s.items, t.itemStage(), id); !exists {
		return fmt.Errorf("item %s: %w", id, rules.ErrNotFound)
	}
	if t == nil {
		delete(r.s.items, id)
		return nil
	}
	t.items.del(id)
	return nil
}

func (r *itemRepo) ListByOwner(ctx context.Context, ownerID string) ([]items.Item, error) {
	t := r.s.txFrom(ctx)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := scan(r.s.items, t.itemStage(), func(it items.Item) bool {
		return it.OwnerID == ownerID
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
