package usecase

import (
	"context"
	"fmt"
	"strings"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/adapter"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"
	"toy-admin/internal/infra/worker"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ BugReportUseCase = (*bugReportUC)(nil)

// Dispatcher runs work off the request path.
type Dispatcher interface {
	Submit(task worker.Task) error
}

type CreateBugReportRequest struct {
	UserID      string
	Title       string
	Description string
	Severity    model.BugSeverity
	Status      model.BugStatus
	Extra       model.BugReportUpdate
}

type BugReportUseCase interface {
	Create(ctx context.Context, req CreateBugReportRequest) (*model.BugReport, error)
	Update(ctx context.Context, id int64, upd model.BugReportUpdate) (*model.BugReport, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.BugReport, error)
	List(ctx context.Context, status model.BugStatus, severity model.BugSeverity, offset, limit int) ([]*model.BugReport, error)
}

type bugReportUC struct {
	bugs        repository.BugReportRepository
	tm          repository.TransactionManager
	notifier    adapter.BugNotifier
	dispatch    Dispatcher
	minSeverity model.BugSeverity
	log         *zerolog.Logger
}

// NewBugReportUseCase wires the bug tracker. notifier and dispatch may be nil,
// in which case new reports are only stored.
func NewBugReportUseCase(bugs repository.BugReportRepository, tm repository.TransactionManager, notifier adapter.BugNotifier, dispatch Dispatcher, minSeverity model.BugSeverity, logger *zerolog.Logger) *bugReportUC {
	if !minSeverity.Valid() {
		minSeverity = model.SeverityHigh
	}
	return &bugReportUC{
		bugs:        bugs,
		tm:          tm,
		notifier:    notifier,
		dispatch:    dispatch,
		minSeverity: minSeverity,
		log:         logger,
	}
}

func (u *bugReportUC) Create(ctx context.Context, req CreateBugReportRequest) (*model.BugReport, error) {
	defer logging.TraceDuration(u.log, "BugReportUC.Create")()

	b, err := model.NewBugReport(req.Title, req.Description, req.Severity, req.Status)
	if err != nil {
		return nil, err
	}
	b.UserID = strings.TrimSpace(req.UserID)
	b.Apply(req.Extra)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := u.bugs.Create(ctx, repository.NoTX, b); err != nil {
		return nil, err
	}

	logging.With(ctx, u.log).Info().
		Int64("bug_id", b.ID).
		Str("severity", string(b.Severity)).
		Msg("bug report created")
	u.notify(ctx, b)
	return b, nil
}

func (u *bugReportUC) notify(ctx context.Context, b *model.BugReport) {
	if u.notifier == nil || !b.Severity.AtLeast(u.minSeverity) {
		return
	}
	snapshot := *b
	task := func(ctx context.Context) error {
		return u.notifier.NotifyBugReported(ctx, &snapshot)
	}
	if u.dispatch == nil {
		if err := task(ctx); err != nil {
			u.log.Warn().Err(err).Int64("bug_id", b.ID).Msg("bug notification failed")
		}
		return
	}
	if err := u.dispatch.Submit(task); err != nil {
		u.log.Warn().Err(err).Int64("bug_id", b.ID).Msg("bug notification not queued")
	}
}

func (u *bugReportUC) Update(ctx context.Context, id int64, upd model.BugReportUpdate) (*model.BugReport, error) {
	defer logging.TraceDuration(u.log, "BugReportUC.Update")()

	var b *model.BugReport
	err := u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead}, func(ctx context.Context, tx repository.Tx) error {
		found, err := u.bugs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		found.Apply(upd)
		if err := found.Validate(); err != nil {
			return err
		}
		if err := u.bugs.Update(ctx, tx, found); err != nil {
			return err
		}
		b = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (u *bugReportUC) Delete(ctx context.Context, id int64) error {
	defer logging.TraceDuration(u.log, "BugReportUC.Delete")()
	return u.bugs.Delete(ctx, repository.NoTX, id)
}

func (u *bugReportUC) Get(ctx context.Context, id int64) (*model.BugReport, error) {
	return u.bugs.FindByID(ctx, repository.NoTX, id)
}

func (u *bugReportUC) List(ctx context.Context, status model.BugStatus, severity model.BugSeverity, offset, limit int) ([]*model.BugReport, error) {
	defer logging.TraceDuration(u.log, "BugReportUC.List")()

	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	if severity != "" && !severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", domain.ErrInvalidArgument, severity)
	}
	offset, limit = normalizePage(offset, limit)
	return u.bugs.List(ctx, repository.NoTX, repository.BugReportFilter{
		Status:   status,
		Severity: severity,
		Offset:   offset,
		Limit:    limit,
	})
}
