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

var _ repository.LoginHistoryRepository = (*PostgresLoginHistoryRepo)(nil)

type PostgresLoginHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresLoginHistoryRepo(pool *pgxpool.Pool) *PostgresLoginHistoryRepo {
	return &PostgresLoginHistoryRepo{pool: pool}
}

const loginColumns = `id, user_id, device_info, device_fingerprint, ip_address, location, login_method,
       login_time, logout_time, session_duration, is_suspicious`

func (r *PostgresLoginHistoryRepo) List(ctx context.Context, tx repository.Tx, f repository.LoginHistoryFilter) ([]*model.LoginHistory, error) {
	rows, err := queryRows(ctx, r.pool, tx, `
SELECT `+loginColumns+`
  FROM login_history
 WHERE ($1 = FALSE OR is_suspicious)
 ORDER BY login_time DESC, id DESC
OFFSET $2 LIMIT $3;`, f.SuspiciousOnly, f.Offset, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list login history: %w", err)
	}
	defer rows.Close()

	out := make([]*model.LoginHistory, 0, f.Limit)
	for rows.Next() {
		l, err := scanLogin(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, l)
	}
	return out, mapPgErr(rows.Err())
}

func (r *PostgresLoginHistoryRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.LoginHistory, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+loginColumns+` FROM login_history WHERE id = $1;`, id)
	l, err := scanLogin(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return l, nil
}

func (r *PostgresLoginHistoryRepo) SetSuspicious(ctx context.Context, tx repository.Tx, id int64, suspicious bool) (*model.LoginHistory, error) {
	row := pickRow(ctx, r.pool, tx,
		`UPDATE login_history SET is_suspicious = $2 WHERE id = $1 RETURNING `+loginColumns+`;`, id, suspicious)
	l, err := scanLogin(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return l, nil
}

func (r *PostgresLoginHistoryRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM login_history WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete login history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresLoginHistoryRepo) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_suspicious) FROM login_history;`)
	var total, suspicious int
	if err := row.Scan(&total, &suspicious); err != nil {
		return 0, 0, fmt.Errorf("count login history: %w", mapPgErr(err))
	}
	return total, suspicious, nil
}

func scanLogin(row pgx.Row) (*model.LoginHistory, error) {
	var l model.LoginHistory
	err := row.Scan(&l.ID, &l.UserID, &l.DeviceInfo, &l.DeviceFingerprint, &l.IPAddress, &l.Location, &l.LoginMethod,
		&l.LoginTime, &l.LogoutTime, &l.SessionDuration, &l.IsSuspicious)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
