package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"virtual-pet/internal/domain/ownership"
)

type OwnershipRepo struct {
	db *DB
}

func NewOwnershipRepo(db *DB) *OwnershipRepo {
	return &OwnershipRepo{db: db}
}

const requestColumns = `
	id, pet_id,
	from_user_id, to_user_id,
	status,
	created_at, updated_at, resolved_at`

func (r *OwnershipRepo) Create(ctx context.Context, req ownership.Request) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		INSERT INTO ownership_requests (`+requestColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`),
		req.ID,
		req.PetID,
		req.FromUserID,
		req.ToUserID,
		string(req.Status),
		toUnix(req.CreatedAt),
		toUnix(req.UpdatedAt),
		toNullUnix(req.ResolvedAt),
	)
	return err
}

func (r *OwnershipRepo) Update(ctx context.Context, req ownership.Request) error {
	res, err := r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		UPDATE ownership_requests
		SET
			status = $2,
			updated_at = $3,
			resolved_at = $4
		WHERE id = $1
	`),
		req.ID,
		string(req.Status),
		toUnix(req.UpdatedAt),
		toNullUnix(req.ResolvedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("ownership request", req.ID)
	}
	return nil
}

func (r *OwnershipRepo) GetByID(ctx context.Context, id string) (ownership.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ownership.Request{}, notFound("ownership request", id)
	}

	row := r.db.conn(ctx).QueryRowContext(ctx, r.db.q(`
		SELECT `+requestColumns+`
		FROM ownership_requests
		WHERE id = $1`+r.db.lockClause(ctx)), id)

	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ownership.Request{}, notFound("ownership request", id)
		}
		return ownership.Request{}, err
	}
	return req, nil
}

func (r *OwnershipRepo) ListByPet(ctx context.Context, petID string) ([]ownership.Request, error) {
	return r.list(ctx, "pet_id", petID)
}

func (r *OwnershipRepo) ListByFrom(ctx context.Context, fromUserID string) ([]ownership.Request, error) {
	return r.list(ctx, "from_user_id", fromUserID)
}

func (r *OwnershipRepo) ListByTo(ctx context.Context, toUserID string) ([]ownership.Request, error) {
	return r.list(ctx, "to_user_id", toUserID)
}

// column viene siempre de las constantes de arriba, nunca del request.
func (r *OwnershipRepo) list(ctx context.Context, column, value string) ([]ownership.Request, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, r.db.q(`
		SELECT `+requestColumns+`
		FROM ownership_requests
		WHERE `+column+` = $1
		ORDER BY created_at ASC, id ASC
	`), value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ownership.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func scanRequest(row rowScanner) (ownership.Request, error) {
	var (
		req              ownership.Request
		status           string
		created, updated int64
		resolved         sql.NullInt64
	)
	if err := row.Scan(
		&req.ID,
		&req.PetID,
		&req.FromUserID,
		&req.ToUserID,
		&status,
		&created,
		&updated,
		&resolved,
	); err != nil {
		return ownership.Request{}, err
	}
	req.Status = ownership.Status(status)
	req.CreatedAt = fromUnix(created)
	req.UpdatedAt = fromUnix(updated)
	req.ResolvedAt = fromNullUnix(resolved)
	return req, nil
}
