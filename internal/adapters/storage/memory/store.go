package memory

import (
	"context"
	"sync"

	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/items"
	"virtual-pet/internal/domain/ownership"
	"virtual-pet/internal/domain/pets"
)

// Store guarda todos los registros en memoria (solo dev/tests).
// Las escrituras dentro de WithinTx se acumulan en un stage y se aplican
// juntas al confirmar; si fn falla, se descartan.
// El aislamiento entre operaciones sobre los mismos registros lo da keylock.
type Store struct {
	mu sync.RWMutex

	pets     map[string]pets.Pet
	items    map[string]items.Item
	requests map[string]ownership.Request
	events   map[string]events.Event

	// orden de inserción de eventos, desempata occurred_at
	seqMu    sync.Mutex
	nextSeq  uint64
	eventSeq map[string]uint64
}

func NewStore() *Store {
	return &Store{
		pets:     make(map[string]pets.Pet),
		items:    make(map[string]items.Item),
		requests: make(map[string]ownership.Request),
		events:   make(map[string]events.Event),
		eventSeq: make(map[string]uint64),
	}
}

type txKey struct{}

type txn struct {
	store *Store

	pets     *stage[pets.Pet]
	items    *stage[items.Item]
	requests *stage[ownership.Request]
	events   *stage[events.Event]
}

// WithinTx implementa tx.Transactor. Una tx anidada se une a la externa.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	t := &txn{
		store:    s,
		pets:     newStage[pets.Pet](),
		items:    newStage[items.Item](),
		requests: newStage[ownership.Request](),
		events:   newStage[events.Event](),
	}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t.pets.apply(s.pets)
	t.items.apply(s.items)
	t.requests.apply(s.requests)
	t.events.apply(s.events)
	return nil
}

func (s *Store) txFrom(ctx context.Context) *txn {
	t, ok := ctx.Value(txKey{}).(*txn)
	if !ok || t.store != s {
		return nil
	}
	return t
}

// stage son las escrituras pendientes de una tabla.
type stage[T any] struct {
	puts map[string]T
	dels map[string]struct{}
}

func newStage[T any]() *stage[T] {
	return &stage[T]{
		puts: make(map[string]T),
		dels: make(map[string]struct{}),
	}
}

func (st *stage[T]) put(id string, v T) {
	delete(st.dels, id)
	st.puts[id] = v
}

func (st *stage[T]) del(id string) {
	delete(st.puts, id)
	st.dels[id] = struct{}{}
}

func (st *stage[T]) apply(rows map[string]T) {
	for id := range st.dels {
		delete(rows, id)
	}
	for id, v := range st.puts {
		rows[id] = v
	}
}

// lookup lee primero lo escrito en la tx y después lo confirmado.
func lookup[T any](rows map[string]T, st *stage[T], id string) (T, bool) {
	if st != nil {
		if _, gone := st.dels[id]; gone {
			var zero T
			return zero, false
		}
		if v, ok := st.puts[id]; ok {
			return v, true
		}
	}
	v, ok := rows[id]
	return v, ok
}

// scan recorre la vista combinada (confirmado + stage).
func scan[T any](rows map[string]T, st *stage[T], keep func(T) bool) []T {
	out := make([]T, 0)
	for id, v := range rows {
		if st != nil {
			if _, gone := st.dels[id]; gone {
				continue
			}
			if _, staged := st.puts[id]; staged {
				continue
			}
		}
		if keep(v) {
			out = append(out, v)
		}
	}
	if st != nil {
		for _, v := range st.puts {
			if keep(v) {
				out = append(out, v)
			}
		}
	}
	return out
}
