package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/domain/uow"
	"virtual-pet/internal/platform/metrics"
	"virtual-pet/internal/platform/telemetry"
	"virtual-pet/internal/ports/ledger"

	"github.com/google/uuid"
)

const tracerName = "virtual-pet/items"

type Service struct {
	repo   Repository
	ledger ledger.Ledger
	runner *uow.Runner
	now    func() time.Time
}

func NewService(repo Repository, led ledger.Ledger, runner *uow.Runner) *Service {
	return &Service{
		repo:   repo,
		ledger: led,
		runner: runner,
		now:    time.Now,
	}
}

func LockKey(id string) string { return "item:" + id }

type IssueInput struct {
	HealthEffect    uint8
	HappinessEffect uint8
	Price           uint64
}

// Issue crea un ítem para ownerID: cobra Price en PETCOIN (burn) y acuña una
// unidad del token del ítem. Todo o nada.
func (s *Service) Issue(ctx context.Context, ownerID string, in IssueInput) (it Item, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "items.Issue")
	defer func() { observe(span, "issue", err) }()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Item{}, rules.ErrInvalidInput
	}
	if in.HealthEffect == 0 && in.HappinessEffect == 0 {
		return Item{}, rules.ErrInvalidInput
	}
	if in.HealthEffect > rules.MaxStat || in.HappinessEffect > rules.MaxStat {
		return Item{}, rules.ErrInvalidInput
	}

	id := uuid.NewString()
	it = Item{
		ID:              id,
		OwnerID:         ownerID,
		Asset:           AssetPrefix + id,
		HealthEffect:    in.HealthEffect,
		HappinessEffect: in.HappinessEffect,
		Price:           in.Price,
		CreatedAt:       s.now(),
	}

	err = s.runner.Do(ctx, []string{LockKey(id)}, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, it); err != nil {
			return err
		}
		if it.Price > 0 {
			if err := s.ledger.Burn(ctx, ledger.Account{Holder: ownerID, Asset: ledger.AssetPetCoin}, it.Price); err != nil {
				metrics.ObserveLedger("burn", "error")
				return rules.LedgerError("burn price", err)
			}
			metrics.ObserveLedger("burn", "ok")
		}
		if err := s.ledger.MintTo(ctx, ledger.Account{Holder: ownerID, Asset: it.Asset}, 1); err != nil {
			metrics.ObserveLedger("mint", "error")
			return rules.LedgerError("mint item", err)
		}
		metrics.ObserveLedger("mint", "ok")
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// Redeem consume el ítem: lo borra del store y quema una unidad en el ledger
// con la autoridad de feederID. Debe correr dentro de la transacción del
// llamador; si el burn falla, el llamador aborta todo.
func (s *Service) Redeem(ctx context.Context, it Item, feederID string) error {
	if it.OwnerID != feederID {
		return rules.ErrItemOwnership
	}
	if err := s.repo.Delete(ctx, it.ID); err != nil {
		return err
	}
	if err := s.ledger.Burn(ctx, ledger.Account{Holder: feederID, Asset: it.Asset}, 1); err != nil {
		metrics.ObserveLedger("burn", "error")
		return rules.LedgerError("burn item", err)
	}
	metrics.ObserveLedger("burn", "ok")
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, rules.ErrInvalidInput
	}
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			return Item{}, fmt.Errorf("item %s: %w", id, rules.ErrNotFound)
		}
		return Item{}, err
	}
	return it, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Item, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerID))
}
