package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"virtual-pet/internal/domain/pets"
)

type PetsRepo struct {
	db *DB
}

func NewPetsRepo(db *DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id,
	health, happiness, coins_earned,
	last_interaction, last_coin_earn,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	coins, err := toStorableInt("coins_earned", p.CoinsEarned)
	if err != nil {
		return err
	}
	_, err = r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`),
		p.ID,
		p.OwnerID,
		int(p.Health),
		int(p.Happiness),
		coins,
		toUnix(p.LastInteraction),
		toUnix(p.LastCoinEarn),
		toUnix(p.CreatedAt),
		toUnix(p.UpdatedAt),
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	coins, err := toStorableInt("coins_earned", p.CoinsEarned)
	if err != nil {
		return err
	}
	res, err := r.db.conn(ctx).ExecContext(ctx, r.db.q(`
		UPDATE pets
		SET
			owner_id = $2,
			health = $3,
			happiness = $4,
			coins_earned = $5,
			last_interaction = $6,
			last_coin_earn = $7,
			updated_at = $8
		WHERE id = $1
	`),
		p.ID,
		p.OwnerID,
		int(p.Health),
		int(p.Happiness),
		coins,
		toUnix(p.LastInteraction),
		toUnix(p.LastCoinEarn),
		toUnix(p.UpdatedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound("pet", p.ID)
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, notFound("pet", id)
	}

	row := r.db.conn(ctx).QueryRowContext(ctx, r.db.q(`
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1`+r.db.lockClause(ctx)), id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, notFound("pet", id)
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, r.db.q(`
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p                                       pets.Pet
		health, happiness                       int
		coins                                   int64
		lastInteraction, lastCoin, created, upd int64
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&health,
		&happiness,
		&coins,
		&lastInteraction,
		&lastCoin,
		&created,
		&upd,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Health = uint8(health)
	p.Happiness = uint8(happiness)
	p.CoinsEarned = uint64(coins)
	p.LastInteraction = fromUnix(lastInteraction)
	p.LastCoinEarn = fromUnix(lastCoin)
	p.CreatedAt = fromUnix(created)
	p.UpdatedAt = fromUnix(upd)
	return p, nil
}
