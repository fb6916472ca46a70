package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	ledgermem "virtual-pet/internal/adapters/ledger/memory"
	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/domain/uow"
	"virtual-pet/internal/ports/ledger"

	"github.com/stretchr/testify/require"
)

// gatedLedger retiene el primer MintTo hasta que el test lo libera.
type gatedLedger struct {
	ledger.Ledger

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedLedger) MintTo(ctx context.Context, dst ledger.Account, amount uint64) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Ledger.MintTo(ctx, dst, amount)
}

func TestPetsService_EarnCoins_PaddedIDSharesLock(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	mem := ledgermem.New()
	gate := &gatedLedger{Ledger: mem, entered: make(chan struct{}), release: make(chan struct{})}
	tracked := ledger.NewTracked(gate)

	svc := pets.NewService(s.Pets(), pets.Deps{
		Journal: events.NewService(s.Events()),
		Ledger:  tracked,
		Runner:  uow.NewRunner(s, tracked, nil, nil),
	})

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.Pets().Create(ctx, pets.Pet{
		ID: "p1", OwnerID: "u1", Health: 100, Happiness: 100,
		LastInteraction: past, LastCoinEarn: past, CreatedAt: past, UpdatedAt: past,
	}))

	errs := make([]error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, errs[0] = svc.EarnCoins(ctx, "p1", "u1")
	}()
	<-gate.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, errs[1] = svc.EarnCoins(ctx, " p1", "u1")
	}()
	time.Sleep(50 * time.Millisecond)
	close(gate.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.True(t, errors.Is(errs[1], rules.ErrRateLimited), "got %v", errs[1])

	p, err := s.Pets().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, uint64(10), p.CoinsEarned)

	bal, err := mem.BalanceOf(ctx, ledger.Account{Holder: "u1", Asset: ledger.AssetPetCoin})
	require.NoError(t, err)
	require.Equal(t, uint64(10), bal)
}
