package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
)

var _ repository.DeviceCredentialRepository = (*PostgresDeviceCredentialRepo)(nil)

// PostgresDeviceCredentialRepo stores device credentials in mqtt_auth.
// The secret column only ever holds the bcrypt hash.
type PostgresDeviceCredentialRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresDeviceCredentialRepo(pool *pgxpool.Pool) *PostgresDeviceCredentialRepo {
	return &PostgresDeviceCredentialRepo{pool: pool}
}

const deviceColumns = `mac_id, secret, is_active, COALESCE(activation_code, ''), created_at`

func (r *PostgresDeviceCredentialRepo) Create(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	const q = `
INSERT INTO mqtt_auth (mac_id, secret, is_active, activation_code, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), $5);`
	_, err := execSQL(ctx, r.pool, tx, q, d.MacID, d.SecretHash, d.IsActive, d.ActivationCode, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create device credential: %w", err)
	}
	return nil
}

func (r *PostgresDeviceCredentialRepo) Update(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	const q = `
UPDATE mqtt_auth
   SET secret = $2, is_active = $3, activation_code = NULLIF($4, '')
 WHERE mac_id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, d.MacID, d.SecretHash, d.IsActive, d.ActivationCode)
	if err != nil {
		return fmt.Errorf("update device credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresDeviceCredentialRepo) Delete(ctx context.Context, tx repository.Tx, macID string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM mqtt_auth WHERE mac_id = $1;`, macID)
	if err != nil {
		return fmt.Errorf("delete device credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresDeviceCredentialRepo) FindByMacID(ctx context.Context, tx repository.Tx, macID string) (*model.DeviceCredential, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+deviceColumns+` FROM mqtt_auth WHERE mac_id = $1;`, macID)
	d, err := scanDevice(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return d, nil
}

func (r *PostgresDeviceCredentialRepo) ExistsByActivationCode(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT EXISTS (SELECT 1 FROM mqtt_auth WHERE activation_code = $1);`, code)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup activation code: %w", mapPgErr(err))
	}
	return exists, nil
}

func (r *PostgresDeviceCredentialRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.DeviceCredential, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+deviceColumns+` FROM mqtt_auth ORDER BY created_at DESC, mac_id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list device credentials: %w", err)
	}
	defer rows.Close()

	out := make([]*model.DeviceCredential, 0, limit)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, d)
	}
	return out, mapPgErr(rows.Err())
}

func (r *PostgresDeviceCredentialRepo) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM mqtt_auth;`)
	var total, active int
	if err := row.Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count device credentials: %w", mapPgErr(err))
	}
	return total, active, nil
}

func (r *PostgresDeviceCredentialRepo) CountIssuedCodes(ctx context.Context, tx repository.Tx) (int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(activation_code) FROM mqtt_auth;`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count issued codes: %w", mapPgErr(err))
	}
	return n, nil
}

func scanDevice(row pgx.Row) (*model.DeviceCredential, error) {
	var d model.DeviceCredential
	if err := row.Scan(&d.MacID, &d.SecretHash, &d.IsActive, &d.ActivationCode, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}
