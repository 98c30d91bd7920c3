package usecase

import (
	"context"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ParentProfileUseCase = (*parentProfileUC)(nil)

// ParentDetail is a parent profile together with the toys bound to its account.
type ParentDetail struct {
	*model.ParentProfile
	Toys []*model.Toy `json:"toys"`
}

type ParentProfileUseCase interface {
	Create(ctx context.Context, userID, name, email, phone string) (*model.ParentProfile, error)
	Update(ctx context.Context, id string, upd model.ParentProfileUpdate) (*model.ParentProfile, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*ParentDetail, error)
	List(ctx context.Context, offset, limit int) (*Page[*model.ParentProfile], error)
}

type parentProfileUC struct {
	parents repository.ParentProfileRepository
	toys    repository.ToyRepository
	tm      repository.TransactionManager
	log     *zerolog.Logger
}

func NewParentProfileUseCase(parents repository.ParentProfileRepository, toys repository.ToyRepository, tm repository.TransactionManager, logger *zerolog.Logger) *parentProfileUC {
	return &parentProfileUC{parents: parents, toys: toys, tm: tm, log: logger}
}

func (u *parentProfileUC) Create(ctx context.Context, userID, name, email, phone string) (*model.ParentProfile, error) {
	defer logging.TraceDuration(u.log, "ParentProfileUC.Create")()

	p, err := model.NewParentProfile(userID, name, email, phone)
	if err != nil {
		return nil, err
	}
	if err := u.parents.Save(ctx, repository.NoTX, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (u *parentProfileUC) Update(ctx context.Context, id string, upd model.ParentProfileUpdate) (*model.ParentProfile, error) {
	defer logging.TraceDuration(u.log, "ParentProfileUC.Update")()

	var p *model.ParentProfile
	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(ctx context.Context, tx repository.Tx) error {
		found, err := u.parents.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		found.Apply(upd)
		if err := found.Validate(); err != nil {
			return err
		}
		if err := u.parents.Save(ctx, tx, found); err != nil {
			return err
		}
		p = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (u *parentProfileUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "ParentProfileUC.Delete")()
	return u.parents.Delete(ctx, repository.NoTX, id)
}

func (u *parentProfileUC) Get(ctx context.Context, id string) (*ParentDetail, error) {
	defer logging.TraceDuration(u.log, "ParentProfileUC.Get")()

	p, err := u.parents.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		return nil, err
	}
	detail := &ParentDetail{ParentProfile: p, Toys: []*model.Toy{}}
	if p.UserID == "" {
		return detail, nil
	}
	toys, err := u.toys.ListByUserID(ctx, repository.NoTX, p.UserID)
	if err != nil {
		return nil, err
	}
	detail.Toys = toys
	return detail, nil
}

func (u *parentProfileUC) List(ctx context.Context, offset, limit int) (*Page[*model.ParentProfile], error) {
	defer logging.TraceDuration(u.log, "ParentProfileUC.List")()
	offset, limit = normalizePage(offset, limit)

	items, err := u.parents.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := u.parents.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &Page[*model.ParentProfile]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}
