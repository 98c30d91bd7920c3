package usecase

import (
	"context"

	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type DashboardStats struct {
	Devices          int                     `json:"devices"`
	ActiveDevices    int                     `json:"active_devices"`
	IssuedCodes      int                     `json:"issued_codes"`
	CodeSpaceRatio   float64                 `json:"code_space_ratio"`
	Toys             int                     `json:"toys"`
	Parents          int                     `json:"parents"`
	Logins           int                     `json:"logins"`
	SuspiciousLogins int                     `json:"suspicious_logins"`
	BugsByStatus     map[model.BugStatus]int `json:"bugs_by_status"`
	CriticalBugs     int                     `json:"critical_bugs"`
}

type StatsUseCase interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// CodeSpaceUsage returns the number of issued codes and the used fraction of the code space.
	CodeSpaceUsage(ctx context.Context) (issued int, ratio float64, err error)
}

type statsUC struct {
	devices repository.DeviceCredentialRepository
	toys    repository.ToyRepository
	parents repository.ParentProfileRepository
	logins  repository.LoginHistoryRepository
	bugs    repository.BugReportRepository

	log *zerolog.Logger
}

func NewStatsUseCase(
	devices repository.DeviceCredentialRepository,
	toys repository.ToyRepository,
	parents repository.ParentProfileRepository,
	logins repository.LoginHistoryRepository,
	bugs repository.BugReportRepository,
	logger *zerolog.Logger,
) *statsUC {
	return &statsUC{devices: devices, toys: toys, parents: parents, logins: logins, bugs: bugs, log: logger}
}

func (s *statsUC) Dashboard(ctx context.Context) (*DashboardStats, error) {
	defer logging.TraceDuration(s.log, "StatsUC.Dashboard")()

	var st DashboardStats
	var err error
	if st.Devices, st.ActiveDevices, err = s.devices.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if st.IssuedCodes, st.CodeSpaceRatio, err = s.CodeSpaceUsage(ctx); err != nil {
		return nil, err
	}
	if st.Toys, err = s.toys.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if st.Parents, err = s.parents.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if st.Logins, st.SuspiciousLogins, err = s.logins.Count(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if st.BugsByStatus, err = s.bugs.CountByStatus(ctx, repository.NoTX); err != nil {
		return nil, err
	}
	if st.CriticalBugs, err = s.bugs.CountBySeverity(ctx, repository.NoTX, model.SeverityCritical); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *statsUC) CodeSpaceUsage(ctx context.Context) (int, float64, error) {
	issued, err := s.devices.CountIssuedCodes(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, err
	}
	return issued, float64(issued) / float64(model.ActivationCodeSpace), nil
}
