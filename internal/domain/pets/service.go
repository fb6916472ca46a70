package pets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/items"
	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/domain/uow"
	"virtual-pet/internal/platform/logger"
	"virtual-pet/internal/platform/metrics"
	"virtual-pet/internal/platform/telemetry"
	"virtual-pet/internal/ports/ledger"

	"github.com/google/uuid"
)

const tracerName = "virtual-pet/pets"

// ItemRedeemer es lo que CareActions necesita de items.
type ItemRedeemer interface {
	GetByID(ctx context.Context, id string) (items.Item, error)
	Redeem(ctx context.Context, it items.Item, feederID string) error
}

// Journal registra la actividad dentro de la misma transacción.
type Journal interface {
	Record(ctx context.Context, in events.RecordInput) (events.Event, error)
}

type Deps struct {
	Items   ItemRedeemer
	Journal Journal
	Ledger  ledger.Ledger
	Runner  *uow.Runner
	Logger  logger.Logger
}

type Service struct {
	repo    Repository
	items   ItemRedeemer
	journal Journal
	ledger  ledger.Ledger
	runner  *uow.Runner
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		items:   deps.Items,
		journal: deps.Journal,
		ledger:  deps.Ledger,
		runner:  deps.Runner,
		log:     log.With(map[string]any{"module": "pets"}),
		now:     time.Now,
	}
}

// LockKey es la clave de keylock de una mascota; la comparten los módulos que la mutan.
func LockKey(id string) string { return "pet:" + id }

// Initialize crea la mascota de ownerID con valores fijos:
// health=happiness=100, coins=0, ambos timestamps = ahora.
func (s *Service) Initialize(ctx context.Context, ownerID string) (p Pet, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "pets.Initialize")
	defer func() { observe(span, "initialize", err) }()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Pet{}, rules.ErrInvalidInput
	}

	now := s.now()
	p = Pet{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Health:          InitialHealth,
		Happiness:       InitialHappiness,
		CoinsEarned:     0,
		LastInteraction: now,
		LastCoinEarn:    now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.runner.Do(ctx, []string{LockKey(p.ID)}, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.record(ctx, p.ID, ownerID, events.EventTypePetInitialized, now, nil)
	})
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, rules.ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			return Pet{}, fmt.Errorf("pet %s: %w", id, rules.ErrNotFound)
		}
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerID))
}

// Play sube happiness en 10 (tope 100). Solo el dueño, una vez por hora.
func (s *Service) Play(ctx context.Context, petID, ownerID string) (p Pet, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "pets.Play")
	defer func() { observe(span, "play", err) }()

	// la clave de lock debe coincidir con el id que se carga
	petID = strings.TrimSpace(petID)
	now := s.now()

	err = s.runner.Do(ctx, []string{LockKey(petID)}, func(ctx context.Context) error {
		cur, err := s.GetByID(ctx, petID)
		if err != nil {
			return err
		}
		if cur.OwnerID != ownerID {
			return rules.ErrUnauthorized
		}
		if err := rules.CheckCooldown(now, cur.LastInteraction, rules.InteractionCooldown, rules.ReasonTooFrequentInteraction); err != nil {
			return err
		}

		cur.Happiness = rules.AddStat(cur.Happiness, rules.PlayHappinessBoost)
		cur.LastInteraction = now
		cur.UpdatedAt = now

		if err := s.repo.Update(ctx, cur); err != nil {
			return err
		}
		if err := s.record(ctx, cur.ID, ownerID, events.EventTypePetPlayed, now, map[string]string{
			"happiness": strconv.Itoa(int(cur.Happiness)),
		}); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

// Feed aplica los efectos del ítem y lo consume (burn) en la misma unidad.
// El ítem debe ser del feeder y el feeder debe ser el dueño de la mascota.
func (s *Service) Feed(ctx context.Context, petID, itemID, feederID string) (p Pet, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "pets.Feed")
	defer func() { observe(span, "feed", err) }()

	if s.items == nil {
		return Pet{}, errors.New("pets: item redeemer not configured")
	}

	petID = strings.TrimSpace(petID)
	itemID = strings.TrimSpace(itemID)
	now := s.now()

	err = s.runner.Do(ctx, []string{LockKey(petID), items.LockKey(itemID)}, func(ctx context.Context) error {
		it, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if it.OwnerID != feederID {
			return rules.ErrItemOwnership
		}

		cur, err := s.GetByID(ctx, petID)
		if err != nil {
			return err
		}
		if cur.OwnerID != feederID {
			return rules.ErrUnauthorized
		}

		cur.Health = rules.AddStat(cur.Health, it.HealthEffect)
		cur.Happiness = rules.AddStat(cur.Happiness, it.HappinessEffect)
		cur.UpdatedAt = now

		if err := s.repo.Update(ctx, cur); err != nil {
			return err
		}
		if err := s.record(ctx, cur.ID, feederID, events.EventTypePetFed, now, map[string]string{
			"item_id":   it.ID,
			"health":    strconv.Itoa(int(cur.Health)),
			"happiness": strconv.Itoa(int(cur.Happiness)),
		}); err != nil {
			return err
		}

		// último paso: el burn del ledger
		if err := s.items.Redeem(ctx, it, feederID); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		return Pet{}, err
	}
	return p, nil
}

// EarnCoins acredita floor((health+happiness)/20) PETCOIN al dueño, una vez
// cada 24h. El contador y el mint se confirman juntos.
func (s *Service) EarnCoins(ctx context.Context, petID, ownerID string) (p Pet, coins uint64, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "pets.EarnCoins")
	defer func() { observe(span, "earn_coins", err) }()

	if s.ledger == nil {
		return Pet{}, 0, errors.New("pets: ledger not configured")
	}

	petID = strings.TrimSpace(petID)
	now := s.now()

	err = s.runner.Do(ctx, []string{LockKey(petID)}, func(ctx context.Context) error {
		cur, err := s.GetByID(ctx, petID)
		if err != nil {
			return err
		}
		if cur.OwnerID != ownerID {
			return rules.ErrUnauthorized
		}
		if err := rules.CheckCooldown(now, cur.LastCoinEarn, rules.CoinEarnCooldown, rules.ReasonTooFrequentCoinEarn); err != nil {
			return err
		}

		earned := rules.CoinsFor(cur.Health, cur.Happiness)
		total, ok := rules.CheckedAddU64(cur.CoinsEarned, earned)
		if !ok {
			return fmt.Errorf("coins_earned overflow: %w", rules.ErrInvalidState)
		}
		cur.CoinsEarned = total
		cur.LastCoinEarn = now
		cur.UpdatedAt = now

		if err := s.repo.Update(ctx, cur); err != nil {
			return err
		}
		if err := s.record(ctx, cur.ID, ownerID, events.EventTypeCoinsEarned, now, map[string]string{
			"coins": strconv.FormatUint(earned, 10),
			"total": strconv.FormatUint(total, 10),
		}); err != nil {
			return err
		}

		// mint de 0 no tiene efecto; solo avanza el timestamp
		if earned > 0 {
			if err := s.ledger.MintTo(ctx, ledger.Account{Holder: ownerID, Asset: ledger.AssetPetCoin}, earned); err != nil {
				metrics.ObserveLedger("mint", "error")
				return rules.LedgerError("mint coins", err)
			}
			metrics.ObserveLedger("mint", "ok")
		}

		p = cur
		coins = earned
		return nil
	})
	if err != nil {
		return Pet{}, 0, err
	}

	metrics.CoinsMinted(coins)
	s.log.Info("coins earned", map[string]any{"pet_id": p.ID, "owner_id": ownerID, "coins": coins, "total": p.CoinsEarned})
	return p, coins, nil
}

func (s *Service) record(ctx context.Context, petID, actorID string, t events.EventType, at time.Time, details map[string]string) error {
	if s.journal == nil {
		return nil
	}
	_, err := s.journal.Record(ctx, events.RecordInput{
		PetID:      petID,
		ActorID:    actorID,
		Type:       t,
		OccurredAt: at,
		Details:    details,
	})
	return err
}
