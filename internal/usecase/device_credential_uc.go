package usecase

import (
	"context"
	"fmt"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ DeviceCredentialUseCase = (*deviceCredentialUC)(nil)

// SecretIssuer creates device secrets; only the hash is persisted.
type SecretIssuer interface {
	NewSecret() (plain, hash string, err error)
}

type RegisterDeviceRequest struct {
	MacID          string
	ActivationCode string // optional; issued when empty
	IsActive       bool
}

// DeviceWithSecret is returned when a plaintext secret was minted. Secret is
// empty when the stored secret did not change.
type DeviceWithSecret struct {
	Device *model.DeviceCredential `json:"device"`
	Secret string                  `json:"secret,omitempty"`
}

type DeviceCredentialUseCase interface {
	Register(ctx context.Context, req RegisterDeviceRequest) (*DeviceWithSecret, error)
	Update(ctx context.Context, macID string, upd model.DeviceCredentialUpdate) (*DeviceWithSecret, error)
	Delete(ctx context.Context, macID string) error
	Get(ctx context.Context, macID string) (*model.DeviceCredential, error)
	List(ctx context.Context, offset, limit int) (*Page[*model.DeviceCredential], error)
}

type deviceCredentialUC struct {
	devices repository.DeviceCredentialRepository
	issuer  *ActivationCodeIssuer
	secrets SecretIssuer
	log     *zerolog.Logger
}

func NewDeviceCredentialUseCase(devices repository.DeviceCredentialRepository, issuer *ActivationCodeIssuer, secrets SecretIssuer, logger *zerolog.Logger) *deviceCredentialUC {
	return &deviceCredentialUC{
		devices: devices,
		issuer:  issuer,
		secrets: secrets,
		log:     logger,
	}
}

func (u *deviceCredentialUC) Register(ctx context.Context, req RegisterDeviceRequest) (*DeviceWithSecret, error) {
	defer logging.TraceDuration(u.log, "DeviceCredentialUC.Register")()

	d, err := model.NewDeviceCredential(req.MacID)
	if err != nil {
		return nil, err
	}
	d.IsActive = req.IsActive

	plain, hash, err := u.secrets.NewSecret()
	if err != nil {
		return nil, err
	}
	d.SecretHash = hash

	if req.ActivationCode != "" {
		if !model.ValidActivationCode(req.ActivationCode) {
			return nil, fmt.Errorf("%w: activation code must be 6 digits", domain.ErrInvalidArgument)
		}
		d.ActivationCode = req.ActivationCode
		if err := u.devices.Create(ctx, repository.NoTX, d); err != nil {
			return nil, err
		}
	} else {
		_, err = u.issuer.Issue(ctx, func(ctx context.Context, code string) error {
			d.ActivationCode = code
			return u.devices.Create(ctx, repository.NoTX, d)
		})
		if err != nil {
			return nil, err
		}
	}

	logging.With(ctx, u.log).Info().
		Str("mac_id", d.MacID).
		Bool("is_active", d.IsActive).
		Msg("device credential registered")
	return &DeviceWithSecret{Device: d, Secret: plain}, nil
}

func (u *deviceCredentialUC) Update(ctx context.Context, macID string, upd model.DeviceCredentialUpdate) (*DeviceWithSecret, error) {
	defer logging.TraceDuration(u.log, "DeviceCredentialUC.Update")()

	if upd.RegenerateCode && upd.ActivationCode != nil {
		return nil, fmt.Errorf("%w: set or regenerate the code, not both", domain.ErrInvalidArgument)
	}
	if upd.ActivationCode != nil && !model.ValidActivationCode(*upd.ActivationCode) {
		return nil, fmt.Errorf("%w: activation code must be 6 digits", domain.ErrInvalidArgument)
	}

	d, err := u.devices.FindByMacID(ctx, repository.NoTX, model.NormalizeMacID(macID))
	if err != nil {
		return nil, err
	}

	if upd.IsActive != nil {
		d.IsActive = *upd.IsActive
	}
	var plain string
	if upd.RegenerateSecret {
		p, hash, err := u.secrets.NewSecret()
		if err != nil {
			return nil, err
		}
		plain, d.SecretHash = p, hash
	}
	if upd.ActivationCode != nil {
		d.ActivationCode = *upd.ActivationCode
	}

	if upd.RegenerateCode {
		_, err = u.issuer.Issue(ctx, func(ctx context.Context, code string) error {
			d.ActivationCode = code
			return u.devices.Update(ctx, repository.NoTX, d)
		})
		if err != nil {
			return nil, err
		}
	} else if err := u.devices.Update(ctx, repository.NoTX, d); err != nil {
		return nil, err
	}

	logging.With(ctx, u.log).Info().
		Str("mac_id", d.MacID).
		Bool("code_changed", upd.RegenerateCode || upd.ActivationCode != nil).
		Bool("secret_changed", upd.RegenerateSecret).
		Msg("device credential updated")
	return &DeviceWithSecret{Device: d, Secret: plain}, nil
}

func (u *deviceCredentialUC) Delete(ctx context.Context, macID string) error {
	defer logging.TraceDuration(u.log, "DeviceCredentialUC.Delete")()
	macID = model.NormalizeMacID(macID)
	if err := u.devices.Delete(ctx, repository.NoTX, macID); err != nil {
		return err
	}
	logging.With(ctx, u.log).Info().Str("mac_id", macID).Msg("device credential deleted")
	return nil
}

func (u *deviceCredentialUC) Get(ctx context.Context, macID string) (*model.DeviceCredential, error) {
	defer logging.TraceDuration(u.log, "DeviceCredentialUC.Get")()
	return u.devices.FindByMacID(ctx, repository.NoTX, model.NormalizeMacID(macID))
}

func (u *deviceCredentialUC) List(ctx context.Context, offset, limit int) (*Page[*model.DeviceCredential], error) {
	defer logging.TraceDuration(u.log, "DeviceCredentialUC.List")()
	offset, limit = normalizePage(offset, limit)

	items, err := u.devices.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		return nil, err
	}
	total, _, err := u.devices.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &Page[*model.DeviceCredential]{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}
