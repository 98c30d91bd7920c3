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

var _ repository.ParentProfileRepository = (*PostgresParentProfileRepo)(nil)

type PostgresParentProfileRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresParentProfileRepo(pool *pgxpool.Pool) *PostgresParentProfileRepo {
	return &PostgresParentProfileRepo{pool: pool}
}

const parentColumns = `id, user_id, parent_name, parent_email, parent_phone_number, created_at`

func (r *PostgresParentProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.ParentProfile) error {
	const q = `
INSERT INTO parent_profiles (id, user_id, parent_name, parent_email, parent_phone_number, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  user_id=$2, parent_name=$3, parent_email=$4, parent_phone_number=$5;`
	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.ParentName, p.ParentEmail, p.ParentPhoneNumber, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save parent profile: %w", err)
	}
	return nil
}

func (r *PostgresParentProfileRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM parent_profiles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete parent profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresParentProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ParentProfile, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+parentColumns+` FROM parent_profiles WHERE id = $1;`, id)
	p, err := scanParent(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return p, nil
}

func (r *PostgresParentProfileRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.ParentProfile, error) {
	rows, err := queryRows(ctx, r.pool, tx,
		`SELECT `+parentColumns+` FROM parent_profiles ORDER BY created_at DESC, id OFFSET $1 LIMIT $2;`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list parent profiles: %w", err)
	}
	defer rows.Close()

	out := make([]*model.ParentProfile, 0, limit)
	for rows.Next() {
		p, err := scanParent(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, p)
	}
	return out, mapPgErr(rows.Err())
}

func (r *PostgresParentProfileRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM parent_profiles;`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count parent profiles: %w", mapPgErr(err))
	}
	return n, nil
}

func scanParent(row pgx.Row) (*model.ParentProfile, error) {
	var p model.ParentProfile
	if err := row.Scan(&p.ID, &p.UserID, &p.ParentName, &p.ParentEmail, &p.ParentPhoneNumber, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
