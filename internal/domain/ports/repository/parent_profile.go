package repository

import (
	"context"

	"toy-admin/internal/domain/model"
)

type ParentProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.ParentProfile) error
	Delete(ctx context.Context, tx Tx, id string) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.ParentProfile, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.ParentProfile, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
