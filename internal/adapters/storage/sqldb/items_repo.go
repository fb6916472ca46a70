package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"virtual-pet/internal/domain/items"
)

type ItemsRepo struct {
	db *DB
}

func NewItemsRepo(db *DB) *ItemsRepo {
	return &ItemsRepo{db: db}
}

const itemColumns = `
	id, owner_id, asset,
	health_effect, happiness_effect, price,
	created_at`

func (r *ItemsRepo) Create(ctx context.Context, it items.Item) error {
	price, err := toStorableInt("price", it.Price)
	if err != nil {
		return err
	}
	_, err = r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`),
		it.ID,
		it.OwnerID,
		it.Asset,
		int(it.HealthEffect),
		int(it.HappinessEffect),
		price,
		toUnix(it.CreatedAt),
	)
	return err
}

func (r *ItemsRepo) GetByID(ctx context.Context, id string) (items.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return items.Item{}, notFound("item", id)
	}

	row := r.db.conn(ctx).QueryRowContext(ctx, r.db.q(`
		SELECT `+itemColumns+`
		FROM items
		WHERE id = $1`+r.db.lockClause(ctx)), id)

	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return items.Item{}, notFound("item", id)
		}
		return items.Item{}, err
	}
	return it, nil
}

func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn(ctx).ExecContext(ctx, r.db.q(`DELETE FROM items WHERE id = $1`), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("item", id)
	}
	return nil
}

func (r *ItemsRepo) ListByOwner(ctx context.Context, ownerID string) ([]items.Item, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, r.db.q(`
		SELECT `+itemColumns+`
		FROM items
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]items.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanItem(row rowScanner) (items.Item, error) {
	var (
		it                 items.Item
		health, happiness  int
		price, createdUnix int64
	)
	if err := row.Scan(
		&it.ID,
		&it.OwnerID,
		&it.Asset,
		&health,
		&happiness,
		&price,
		&createdUnix,
	); err != nil {
		return items.Item{}, err
	}
	it.HealthEffect = uint8(health)
	it.HappinessEffect = uint8(happiness)
	it.Price = uint64(price)
	it.CreatedAt = fromUnix(createdUnix)
	return it, nil
}
