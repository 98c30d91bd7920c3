package repository

import (
	"context"

	"toy-admin/internal/domain/model"
)

type LoginHistoryFilter struct {
	SuspiciousOnly bool
	Offset         int
	Limit          int
}

// LoginHistoryRepository is read-mostly: rows are written by the mobile app.
type LoginHistoryRepository interface {
	List(ctx context.Context, tx Tx, f LoginHistoryFilter) ([]*model.LoginHistory, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.LoginHistory, error)
	SetSuspicious(ctx context.Context, tx Tx, id int64, suspicious bool) (*model.LoginHistory, error)
	Delete(ctx context.Context, tx Tx, id int64) error
	Count(ctx context.Context, tx Tx) (total int, suspicious int, err error)
}
