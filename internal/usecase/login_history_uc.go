package usecase

import (
	"context"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ LoginHistoryUseCase = (*loginHistoryUC)(nil)

type LoginHistoryUseCase interface {
	List(ctx context.Context, suspiciousOnly bool, offset, limit int) (*Page[*model.LoginHistory], error)
	Get(ctx context.Context, id int64) (*model.LoginHistory, error)
	MarkSuspicious(ctx context.Context, id int64, suspicious bool) (*model.LoginHistory, error)
	Delete(ctx context.Context, id int64) error
}

type loginHistoryUC struct {
	logins repository.LoginHistoryRepository
	log    *zerolog.Logger
}

func NewLoginHistoryUseCase(logins repository.LoginHistoryRepository, logger *zerolog.Logger) *loginHistoryUC {
	return &loginHistoryUC{logins: logins, log: logger}
}

func (u *loginHistoryUC) List(ctx context.Context, suspiciousOnly bool, offset, limit int) (*Page[*model.LoginHistory], error) {
	defer logging.TraceDuration(u.log, "LoginHistoryUC.List")()
	offset, limit = normalizePage(offset, limit)

	items, err := u.logins.List(ctx, repository.NoTX, repository.LoginHistoryFilter{
		SuspiciousOnly: suspiciousOnly,
		Offset:         offset,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}
	total, suspicious, err := u.logins.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	if suspiciousOnly {
		total = suspicious
	}
	return &Page[*model.LoginHistory]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func (u *loginHistoryUC) Get(ctx context.Context, id int64) (*model.LoginHistory, error) {
	return u.logins.FindByID(ctx, repository.NoTX, id)
}

func (u *loginHistoryUC) MarkSuspicious(ctx context.Context, id int64, suspicious bool) (*model.LoginHistory, error) {
	defer logging.TraceDuration(u.log, "LoginHistoryUC.MarkSuspicious")()

	l, err := u.logins.SetSuspicious(ctx, repository.NoTX, id, suspicious)
	if err != nil {
		return nil, err
	}
	logging.With(ctx, u.log).Info().
		Int64("login_id", id).
		Bool("suspicious", suspicious).
		Msg("login flagged")
	return l, nil
}

func (u *loginHistoryUC) Delete(ctx context.Context, id int64) error {
	defer logging.TraceDuration(u.log, "LoginHistoryUC.Delete")()
	return u.logins.Delete(ctx, repository.NoTX, id)
}
