package repository

import (
	"context"

	"toy-admin/internal/domain/model"
)

// DeviceCredentialRepository is the port for the mqtt_auth table.
//
// Create and Update return domain.ErrDuplicateKey when the activation code is
// already held by another row and domain.ErrAlreadyExists when the mac id is
// taken. Connectivity failures surface as domain.ErrStoreUnavailable.
type DeviceCredentialRepository interface {
	Create(ctx context.Context, tx Tx, d *model.DeviceCredential) error
	Update(ctx context.Context, tx Tx, d *model.DeviceCredential) error
	Delete(ctx context.Context, tx Tx, macID string) error
	FindByMacID(ctx context.Context, tx Tx, macID string) (*model.DeviceCredential, error)
	// ExistsByActivationCode reports whether any row currently holds code.
	ExistsByActivationCode(ctx context.Context, tx Tx, code string) (bool, error)
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.DeviceCredential, error)
	Count(ctx context.Context, tx Tx) (total int, active int, err error)
	CountIssuedCodes(ctx context.Context, tx Tx) (int, error)
}
