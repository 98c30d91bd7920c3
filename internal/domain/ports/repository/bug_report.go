package repository

import (
	"context"

	"toy-admin/internal/domain/model"
)

type BugReportFilter struct {
	Status   model.BugStatus
	Severity model.BugSeverity
	Offset   int
	Limit    int
}

type BugReportRepository interface {
	// Create assigns b.ID from the database sequence.
	Create(ctx context.Context, tx Tx, b *model.BugReport) error
	Update(ctx context.Context, tx Tx, b *model.BugReport) error
	Delete(ctx context.Context, tx Tx, id int64) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.BugReport, error)
	List(ctx context.Context, tx Tx, f BugReportFilter) ([]*model.BugReport, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.BugStatus]int, error)
	CountBySeverity(ctx context.Context, tx Tx, s model.BugSeverity) (int, error)
}
