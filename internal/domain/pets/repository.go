package pets

import "context"

// Repository es el store de registros de mascotas. Sin lógica de negocio.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	Update(ctx context.Context, p Pet) error
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}
