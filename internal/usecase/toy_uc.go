package usecase

import (
	"context"
	"fmt"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ ToyUseCase = (*toyUC)(nil)

type CreateToyRequest struct {
	Name     string
	RoleType model.RoleType
	Language model.Language
	Voice    model.Voice
	// Optional fields applied after the persona is validated.
	Extra model.ToyUpdate
}

type ToyUseCase interface {
	Create(ctx context.Context, req CreateToyRequest) (*model.Toy, error)
	Update(ctx context.Context, id string, upd model.ToyUpdate) (*model.Toy, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Toy, error)
	List(ctx context.Context, offset, limit int) (*Page[*model.Toy], error)
}

type toyUC struct {
	toys repository.ToyRepository
	tm   repository.TransactionManager
	log  *zerolog.Logger
}

func NewToyUseCase(toys repository.ToyRepository, tm repository.TransactionManager, logger *zerolog.Logger) *toyUC {
	return &toyUC{toys: toys, tm: tm, log: logger}
}

func (u *toyUC) Create(ctx context.Context, req CreateToyRequest) (*model.Toy, error) {
	defer logging.TraceDuration(u.log, "ToyUC.Create")()

	t, err := model.NewToy(req.Name, req.RoleType, req.Language, req.Voice)
	if err != nil {
		return nil, err
	}
	t.Apply(req.Extra)
	if err := validateToy(t); err != nil {
		return nil, err
	}
	if err := u.toys.Save(ctx, repository.NoTX, t); err != nil {
		return nil, err
	}
	logging.With(ctx, u.log).Info().Str("toy_id", t.ID).Msg("toy created")
	return t, nil
}

func (u *toyUC) Update(ctx context.Context, id string, upd model.ToyUpdate) (*model.Toy, error) {
	defer logging.TraceDuration(u.log, "ToyUC.Update")()

	var t *model.Toy
	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(ctx context.Context, tx repository.Tx) error {
		found, err := u.toys.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		found.Apply(upd)
		if err := validateToy(found); err != nil {
			return err
		}
		if err := u.toys.Save(ctx, tx, found); err != nil {
			return err
		}
		t = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (u *toyUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "ToyUC.Delete")()
	return u.toys.Delete(ctx, repository.NoTX, id)
}

func (u *toyUC) Get(ctx context.Context, id string) (*model.Toy, error) {
	return u.toys.FindByID(ctx, repository.NoTX, id)
}

func (u *toyUC) List(ctx context.Context, offset, limit int) (*Page[*model.Toy], error) {
	defer logging.TraceDuration(u.log, "ToyUC.List")()
	offset, limit = normalizePage(offset, limit)

	items, err := u.toys.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := u.toys.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &Page[*model.Toy]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}

func validateToy(t *model.Toy) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ActivationCode != "" && !model.ValidActivationCode(t.ActivationCode) {
		return fmt.Errorf("%w: activation code must be 6 digits", domain.ErrInvalidArgument)
	}
	return nil
}
