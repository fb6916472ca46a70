package sqldb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"virtual-pet/internal/domain/events"
)

type EventsRepo struct {
	db *DB
}

func NewEventsRepo(db *DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	details := "{}"
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("encode event details: %w", err)
		}
		details = string(b)
	}

	_, err := r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		INSERT INTO pet_events (
			id, pet_id,
			type, actor_id,
			occurred_at, details
		) VALUES ($1,$2,$3,$4,$5,$6)
	`),
		e.ID,
		e.PetID,
		string(e.Type),
		e.ActorID,
		toUnix(e.OccurredAt),
		details,
	)
	return err
}

func (r *EventsRepo) ListByPet(ctx context.Context, petID string, filter events.ListFilter) ([]events.Event, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, nil
	}

	// Base query
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, pet_id,
			type, actor_id,
			occurred_at, details
		FROM pet_events
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	// types filter
	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	// from/to
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, toUnix(*filter.From))
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, toUnix(*filter.To))
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	sb.WriteString(fmt.Sprintf(" ORDER BY occurred_at DESC, seq DESC LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.conn(ctx).QueryContext(ctx, r.db.q(sb.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		var (
			e        events.Event
			typ      string
			occurred int64
			details  string
		)
		if err := rows.Scan(&e.ID, &e.PetID, &typ, &e.ActorID, &occurred, &details); err != nil {
			return nil, err
		}
		e.Type = events.EventType(typ)
		e.OccurredAt = fromUnix(occurred)
		if details != "" && details != "{}" {
			if err := json.Unmarshal([]byte(details), &e.Details); err != nil {
				return nil, fmt.Errorf("decode event details %s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
