package repository

import (
	"context"

	"toy-admin/internal/domain/model"
)

// ToyRepository is the port for activated toy profiles.
type ToyRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Toy) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Toy, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.Toy, error)
	ListByUserID(ctx context.Context, tx Tx, userID string) ([]*model.Toy, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
