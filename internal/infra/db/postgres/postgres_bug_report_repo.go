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

var _ repository.BugReportRepository = (*PostgresBugReportRepo)(nil)

type PostgresBugReportRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresBugReportRepo(pool *pgxpool.Pool) *PostgresBugReportRepo {
	return &PostgresBugReportRepo{pool: pool}
}

const bugColumns = `id, user_id, title, description, app_version, build_number, platform, os_version,
       device_model, app_screen, steps_to_reproduce, severity, status, bug_category, screenshot_url,
       created_at, updated_at`

func (r *PostgresBugReportRepo) Create(ctx context.Context, tx repository.Tx, b *model.BugReport) error {
	const q = `
INSERT INTO bug_reports (
  user_id, title, description, app_version, build_number, platform, os_version,
  device_model, app_screen, steps_to_reproduce, severity, status, bug_category, screenshot_url,
  created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
RETURNING id;`
	row := pickRow(ctx, r.pool, tx, q,
		b.UserID, b.Title, b.Description, b.AppVersion, b.BuildNumber, b.Platform, b.OSVersion,
		b.DeviceModel, b.AppScreen, b.StepsToReproduce, string(b.Severity), string(b.Status), string(b.Category), b.ScreenshotURL,
		b.CreatedAt, b.UpdatedAt)
	if err := row.Scan(&b.ID); err != nil {
		return fmt.Errorf("create bug report: %w", mapPgErr(err))
	}
	return nil
}

func (r *PostgresBugReportRepo) Update(ctx context.Context, tx repository.Tx, b *model.BugReport) error {
	const q = `
UPDATE bug_reports SET
  user_id=$2, title=$3, description=$4, app_version=$5, build_number=$6, platform=$7, os_version=$8,
  device_model=$9, app_screen=$10, steps_to_reproduce=$11, severity=$12, status=$13, bug_category=$14,
  screenshot_url=$15, updated_at=$16
WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, b.ID,
		b.UserID, b.Title, b.Description, b.AppVersion, b.BuildNumber, b.Platform, b.OSVersion,
		b.DeviceModel, b.AppScreen, b.StepsToReproduce, string(b.Severity), string(b.Status), string(b.Category),
		b.ScreenshotURL, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update bug report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresBugReportRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM bug_reports WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete bug report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresBugReportRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.BugReport, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+bugColumns+` FROM bug_reports WHERE id = $1;`, id)
	b, err := scanBug(row)
	if err != nil {
		return nil, scanErr(err)
	}
	return b, nil
}

func (r *PostgresBugReportRepo) List(ctx context.Context, tx repository.Tx, f repository.BugReportFilter) ([]*model.BugReport, error) {
	rows, err := queryRows(ctx, r.pool, tx, `
SELECT `+bugColumns+`
  FROM bug_reports
 WHERE ($1 = '' OR status = $1)
   AND ($2 = '' OR severity = $2)
 ORDER BY created_at DESC, id DESC
OFFSET $3 LIMIT $4;`, string(f.Status), string(f.Severity), f.Offset, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("list bug reports: %w", err)
	}
	defer rows.Close()

	out := make([]*model.BugReport, 0, f.Limit)
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out = append(out, b)
	}
	return out, mapPgErr(rows.Err())
}

func (r *PostgresBugReportRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.BugStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM bug_reports GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("count bug reports: %w", err)
	}
	defer rows.Close()

	out := make(map[model.BugStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
		}
		out[model.BugStatus(status)] = n
	}
	return out, mapPgErr(rows.Err())
}

func (r *PostgresBugReportRepo) CountBySeverity(ctx context.Context, tx repository.Tx, s model.BugSeverity) (int, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM bug_reports WHERE severity = $1;`, string(s))
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count bug reports: %w", mapPgErr(err))
	}
	return n, nil
}

func scanBug(row pgx.Row) (*model.BugReport, error) {
	var (
		b                          model.BugReport
		severity, status, category string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.AppVersion, &b.BuildNumber, &b.Platform, &b.OSVersion,
		&b.DeviceModel, &b.AppScreen, &b.StepsToReproduce, &severity, &status, &category, &b.ScreenshotURL,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Severity, b.Status, b.Category = model.BugSeverity(severity), model.BugStatus(status), model.BugCategory(category)
	return &b, nil
}
