package ownership

import "context"

type Repository interface {
	Create(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)
	ListByPet(ctx context.Context, petID string) ([]Request, error)
	ListByFrom(ctx context.Context, fromUserID string) ([]Request, error)
	ListByTo(ctx context.Context, toUserID string) ([]Request, error)
}
