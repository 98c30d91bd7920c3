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

var _ repository.ToyRepository = (*PostgresToyRepo)(nil)

type PostgresToyRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresToyRepo(pool *pgxpool.Pool) *PostgresToyRepo {
	return &PostgresToyRepo{pool: pool}
}

const toyColumns = `id, user_id, name, role_type, language, voice, kid_name, kid_age, dob,
       activation_code, toy_mac_id, additional_instructions, created_at`

func (r *PostgresToyRepo) Save(ctx context.Context, tx repository.Tx, t *model.Toy) error {
	const q = `
INSERT INTO toys (
  id, user_id, name, role_type, language, voice, kid_name, kid_age, dob,
  activation_code, toy_mac_id, additional_instructions, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  user_id=$2, name=$3, role_type=$4, language=$5, voice=$6, kid_name=$7, kid_age=$8, dob=$9,
  activation_code=$10, toy_mac_id=$11, additional_instructions=$12;`
	_, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.UserID, t.Name, string(t.RoleType), string(t.Language), string(t.Voice), t.KidName, t.KidAge, t.DOB,
		t.ActivationCode, t.ToyMacID, t.AdditionalInstructions, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("save toy: %w", err)
	}
	return nil
}

func (r *PostgresToyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM toys WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete toy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresToyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Toy, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+toyColumns+` FROM toys WHERE id = $1;`, id)
	t, err := scanToy(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return t, nil
}

func (r *PostgresToyRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Toy, error) {
	return r.query(ctx, tx, `SELECT `+toyColumns+` FROM toys ORDER BY created_at DESC, id OFFSET $1 LIMIT $2;`, offset, limit)
}

func (r *PostgresToyRepo) ListByUserID(ctx context.Context, tx repository.Tx, userID string) ([]*model.Toy, error) {
	return r.query(ctx, tx, `SELECT `+toyColumns+` FROM toys WHERE user_id = $1 ORDER BY created_at DESC;`, userID)
}

func (r *PostgresToyRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM toys;`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count toys: %w", mapPgErr(err))
	}
	return n, nil
}

func (r *PostgresToyRepo) query(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.Toy, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list toys: %w", err)
	}
	defer rows.Close()

	out := []*model.Toy{}
	for rows.Next() {
		t, err := scanToy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, t)
	}
	return out, mapPgErr(rows.Err())
}

func scanToy(row pgx.Row) (*model.Toy, error) {
	var (
		t                 model.Toy
		role, lang, voice string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &role, &lang, &voice, &t.KidName, &t.KidAge, &t.DOB,
		&t.ActivationCode, &t.ToyMacID, &t.AdditionalInstructions, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.RoleType, t.Language, t.Voice = model.RoleType(role), model.Language(lang), model.Voice(voice)
	return &t, nil
}
