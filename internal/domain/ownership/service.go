package ownership

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"virtual-pet/internal/domain/events"
	"virtual-pet/internal/domain/pets"
	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/domain/uow"
	"virtual-pet/internal/platform/logger"
	"virtual-pet/internal/platform/telemetry"

	"github.com/google/uuid"
)

const tracerName = "virtual-pet/ownership"

// PetStore es la parte del store de mascotas que el traspaso necesita.
// pets.Repository la satisface.
type PetStore interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	Update(ctx context.Context, p pets.Pet) error
}

type Journal interface {
	Record(ctx context.Context, in events.RecordInput) (events.Event, error)
}

type Service struct {
	repo    Repository
	pets    PetStore
	journal Journal
	runner  *uow.Runner
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, petStore PetStore, journal Journal, runner *uow.Runner, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		pets:    petStore,
		journal: journal,
		runner:  runner,
		log:     log.With(map[string]any{"module": "ownership"}),
		now:     time.Now,
	}
}

func LockKey(id string) string { return "ownership:" + id }

// Request crea una solicitud Pending de fromUserID hacia el dueño actual.
// Si ya existe una Pending para (pet, from, to) se devuelve esa.
func (s *Service) Request(ctx context.Context, petID, fromUserID string) (req Request, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "ownership.Request")
	defer func() { observe(span, "request", err) }()

	petID = strings.TrimSpace(petID)
	fromUserID = strings.TrimSpace(fromUserID)
	if petID == "" || fromUserID == "" {
		return Request{}, rules.ErrInvalidInput
	}

	now := s.now()

	err = s.runner.Do(ctx, []string{pets.LockKey(petID)}, func(ctx context.Context) error {
		p, err := s.getPet(ctx, petID)
		if err != nil {
			return err
		}
		toUserID := p.OwnerID
		if toUserID == fromUserID {
			return fmt.Errorf("already owner: %w", rules.ErrInvalidInput)
		}

		// Dedup: una sola Pending por (pet, from, to)
		existing, err := s.repo.ListByPet(ctx, petID)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.Status == StatusPending && r.FromUserID == fromUserID && r.ToUserID == toUserID {
				req = r
				return nil
			}
		}

		req = Request{
			ID:         uuid.NewString(),
			PetID:      petID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Status:     StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}
		return s.record(ctx, petID, fromUserID, events.EventTypeOwnershipRequested, now, map[string]string{
			"request_id": req.ID,
			"to":         toUserID,
		})
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// Respond resuelve una solicitud. Solo el destinatario puede responder y
// solo una vez. Aceptar traspasa la mascota y rechaza las demás Pending.
func (s *Service) Respond(ctx context.Context, requestID, responderID string, accept bool) (req Request, err error) {
	ctx, span := telemetry.Start(ctx, tracerName, "ownership.Respond")
	defer func() { observe(span, "respond", err) }()

	requestID = strings.TrimSpace(requestID)
	responderID = strings.TrimSpace(responderID)
	if requestID == "" || responderID == "" {
		return Request{}, rules.ErrInvalidInput
	}

	// PetID es inmutable: se lee antes de tomar los locks.
	head, err := s.getRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}

	now := s.now()

	err = s.runner.Do(ctx, []string{pets.LockKey(head.PetID), LockKey(requestID)}, func(ctx context.Context) error {
		cur, err := s.getRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if cur.ToUserID != responderID {
			return rules.ErrUnauthorized
		}
		if cur.Status != StatusPending {
			return fmt.Errorf("request is %s: %w", cur.Status, rules.ErrInvalidState)
		}

		p, err := s.getPet(ctx, cur.PetID)
		if err != nil {
			return err
		}
		if p.OwnerID != cur.ToUserID {
			return fmt.Errorf("pet owner changed: %w", rules.ErrInvalidState)
		}

		if !accept {
			if err := s.resolve(ctx, &cur, StatusRejected, responderID, now); err != nil {
				return err
			}
			req = cur
			return nil
		}

		p.OwnerID = cur.FromUserID
		p.UpdatedAt = now
		if err := s.pets.Update(ctx, p); err != nil {
			return err
		}
		if err := s.resolve(ctx, &cur, StatusAccepted, responderID, now); err != nil {
			return err
		}

		// las demás Pending apuntan a un dueño que ya no lo es
		siblings, err := s.repo.ListByPet(ctx, cur.PetID)
		if err != nil {
			return err
		}
		for _, sib := range siblings {
			if sib.ID == cur.ID || sib.Status != StatusPending {
				continue
			}
			if err := s.resolve(ctx, &sib, StatusRejected, responderID, now); err != nil {
				return err
			}
		}

		req = cur
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	if req.Status == StatusAccepted {
		s.log.Info("pet ownership transferred", map[string]any{"pet_id": req.PetID, "from": req.ToUserID, "to": req.FromUserID, "request_id": req.ID})
	}
	return req, nil
}

// GetByID solo devuelve la solicitud a sus partes (from / to).
func (s *Service) GetByID(ctx context.Context, requestID, actorID string) (Request, error) {
	r, err := s.getRequest(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return Request{}, err
	}
	if r.FromUserID != actorID && r.ToUserID != actorID {
		return Request{}, rules.ErrUnauthorized
	}
	return r, nil
}

func (s *Service) ListIncoming(ctx context.Context, toUserID string) ([]Request, error) {
	toUserID = strings.TrimSpace(toUserID)
	if toUserID == "" {
		return nil, rules.ErrInvalidInput
	}
	out, err := s.repo.ListByTo(ctx, toUserID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Service) ListOutgoing(ctx context.Context, fromUserID string) ([]Request, error) {
	fromUserID = strings.TrimSpace(fromUserID)
	if fromUserID == "" {
		return nil, rules.ErrInvalidInput
	}
	out, err := s.repo.ListByFrom(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Service) resolve(ctx context.Context, r *Request, st Status, actorID string, now time.Time) error {
	r.Status = st
	r.UpdatedAt = now
	r.ResolvedAt = &now
	if err := s.repo.Update(ctx, *r); err != nil {
		return err
	}

	t := events.EventTypeOwnershipRejected
	if st == StatusAccepted {
		t = events.EventTypeOwnershipAccepted
	}
	return s.record(ctx, r.PetID, actorID, t, now, map[string]string{
		"request_id": r.ID,
		"from":       r.FromUserID,
		"to":         r.ToUserID,
	})
}

func (s *Service) getRequest(ctx context.Context, id string) (Request, error) {
	if id == "" {
		return Request{}, rules.ErrInvalidInput
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			return Request{}, fmt.Errorf("ownership request %s: %w", id, rules.ErrNotFound)
		}
		return Request{}, err
	}
	return r, nil
}

func (s *Service) getPet(ctx context.Context, id string) (pets.Pet, error) {
	p, err := s.pets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rules.ErrNotFound) {
			return pets.Pet{}, fmt.Errorf("pet %s: %w", id, rules.ErrNotFound)
		}
		return pets.Pet{}, err
	}
	return p, nil
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

func sortNewestFirst(list []Request) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
