package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/items"
	"virtual-pet/internal/domain/ownership"
	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/rules"

	"github.com/stretchr/testify/require"
)

func TestStore_WithinTx_CommitsAllWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Pets().Create(ctx, pets.Pet{ID: "p1", OwnerID: "u1", Health: 100, CreatedAt: now}); err != nil {
			return err
		}
		// lectura dentro de la tx ve lo escrito
		p, err := s.Pets().GetByID(ctx, "p1")
		require.NoError(t, err)
		require.Equal(t, "u1", p.OwnerID)

		// fuera de la tx todavía no existe
		_, err = s.Pets().GetByID(context.Background(), "p1")
		require.True(t, errors.Is(err, rules.ErrNotFound))

		return s.Items().Create(ctx, items.Item{ID: "i1", OwnerID: "u1", CreatedAt: now})
	})
	require.NoError(t, err)

	p, err := s.Pets().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, uint8(100), p.Health)

	_, err = s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
}

func TestStore_WithinTx_DiscardsOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Pets().Create(ctx, pets.Pet{ID: "p1", OwnerID: "u1", Health: 50}))
	require.NoError(t, s.Items().Create(ctx, items.Item{ID: "i1", OwnerID: "u1"}))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Pets().Update(ctx, pets.Pet{ID: "p1", OwnerID: "u1", Health: 90}))
		require.NoError(t, s.Items().Delete(ctx, "i1"))

		_, err := s.Items().GetByID(ctx, "i1")
		require.True(t, errors.Is(err, rules.ErrNotFound))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Pets().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, uint8(50), p.Health)

	_, err = s.Items().GetByID(ctx, "i1")
	require.NoError(t, err)
}

func TestStore_NestedTxJoinsOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.WithinTx(ctx, func(ctx context.Context) error {
			return s.Pets().Create(ctx, pets.Pet{ID: "p1", OwnerID: "u1"})
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)

	_, err = s.Pets().GetByID(ctx, "p1")
	require.True(t, errors.Is(err, rules.ErrNotFound))
}

func TestRequestRepo_ListsMergeStagedRows(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	repo := s.OwnershipRequests()
	require.NoError(t, repo.Create(ctx, ownership.Request{ID: "r1", PetID: "p1", FromUserID: "a", ToUserID: "o", Status: ownership.StatusPending, CreatedAt: t0}))

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Create(ctx, ownership.Request{ID: "r2", PetID: "p1", FromUserID: "b", ToUserID: "o", Status: ownership.StatusPending, CreatedAt: t0.Add(time.Minute)}))
		require.NoError(t, repo.Update(ctx, ownership.Request{ID: "r1", PetID: "p1", FromUserID: "a", ToUserID: "o", Status: ownership.StatusRejected, CreatedAt: t0}))

		list, err := repo.ListByPet(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "r1", list[0].ID)
		require.Equal(t, ownership.StatusRejected, list[0].Status)
		require.Equal(t, "r2", list[1].ID)
		return nil
	})
	require.NoError(t, err)

	incoming, err := repo.ListByTo(ctx, "o")
	require.NoError(t, err)
	require.Len(t, incoming, 2)

	outgoing, err := repo.ListByFrom(ctx, "b")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
}

func TestPetRepo_UpdateMissing_ReturnsNotFound(t *testing.T) {
	s := NewStore()
	err := s.Pets().Update(context.Background(), pets.Pet{ID: "nope"})
	require.True(t, errors.Is(err, rules.ErrNotFound))
}

func TestEventRepo_SameInstant_NewestInsertFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range []string{"z", "a", "m"} {
			if err := s.Events().Create(ctx, events.Event{ID: id, PetID: "p1", Type: events.EventTypeOwnershipRejected, OccurredAt: t0}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	list, err := s.Events().ListByPet(ctx, "p1", events.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"m", "a", "z"}, []string{list[0].ID, list[1].ID, list[2].ID})
}
