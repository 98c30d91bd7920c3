//go:build !integration

package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/usecase"
)

// --- Use case fakes ---

type fakeDevices struct {
	RegisterFunc func(ctx context.Context, req usecase.RegisterDeviceRequest) (*usecase.DeviceWithSecret, error)
	UpdateFunc   func(ctx context.Context, macID string, upd model.DeviceCredentialUpdate) (*usecase.DeviceWithSecret, error)
	GetFunc      func(ctx context.Context, macID string) (*model.DeviceCredential, error)
}

func (f *fakeDevices) Register(ctx context.Context, req usecase.RegisterDeviceRequest) (*usecase.DeviceWithSecret, error) {
	return f.RegisterFunc(ctx, req)
}
func (f *fakeDevices) Update(ctx context.Context, macID string, upd model.DeviceCredentialUpdate) (*usecase.DeviceWithSecret, error) {
	return f.UpdateFunc(ctx, macID, upd)
}
func (f *fakeDevices) Delete(ctx context.Context, macID string) error { return nil }
func (f *fakeDevices) Get(ctx context.Context, macID string) (*model.DeviceCredential, error) {
	if f.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return f.GetFunc(ctx, macID)
}
func (f *fakeDevices) List(ctx context.Context, offset, limit int) (*usecase.Page[*model.DeviceCredential], error) {
	return &usecase.Page[*model.DeviceCredential]{Items: []*model.DeviceCredential{}, Offset: offset, Limit: limit}, nil
}

type fakeToys struct {
	mu      sync.Mutex
	created []usecase.CreateToyRequest
	updates []model.ToyUpdate
}

func (f *fakeToys) Create(ctx context.Context, req usecase.CreateToyRequest) (*model.Toy, error) {
	f.mu.Lock()
	f.created = append(f.created, req)
	f.mu.Unlock()
	t, err := model.NewToy(req.Name, req.RoleType, req.Language, req.Voice)
	if err != nil {
		return nil, err
	}
	t.Apply(req.Extra)
	return t, t.Validate()
}
func (f *fakeToys) Update(ctx context.Context, id string, upd model.ToyUpdate) (*model.Toy, error) {
	f.mu.Lock()
	f.updates = append(f.updates, upd)
	f.mu.Unlock()
	return &model.Toy{ID: id}, nil
}
func (f *fakeToys) Delete(ctx context.Context, id string) error { return domain.ErrNotFound }
func (f *fakeToys) Get(ctx context.Context, id string) (*model.Toy, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeToys) List(ctx context.Context, offset, limit int) (*usecase.Page[*model.Toy], error) {
	return &usecase.Page[*model.Toy]{Items: []*model.Toy{}, Offset: offset, Limit: limit}, nil
}

type fakeParents struct{}

func (fakeParents) Create(ctx context.Context, userID, name, email, phone string) (*model.ParentProfile, error) {
	return model.NewParentProfile(userID, name, email, phone)
}
func (fakeParents) Update(ctx context.Context, id string, upd model.ParentProfileUpdate) (*model.ParentProfile, error) {
	return &model.ParentProfile{ID: id}, nil
}
func (fakeParents) Delete(ctx context.Context, id string) error { return nil }
func (fakeParents) Get(ctx context.Context, id string) (*usecase.ParentDetail, error) {
	return &usecase.ParentDetail{
		ParentProfile: &model.ParentProfile{ID: id, UserID: "user-1"},
		Toys:          []*model.Toy{{ID: "toy-1", UserID: "user-1", Name: "Buddy"}},
	}, nil
}
func (fakeParents) List(ctx context.Context, offset, limit int) (*usecase.Page[*model.ParentProfile], error) {
	return &usecase.Page[*model.ParentProfile]{Items: []*model.ParentProfile{}}, nil
}

type fakeLogins struct {
	lastSuspiciousOnly bool
}

func (f *fakeLogins) List(ctx context.Context, suspiciousOnly bool, offset, limit int) (*usecase.Page[*model.LoginHistory], error) {
	f.lastSuspiciousOnly = suspiciousOnly
	return &usecase.Page[*model.LoginHistory]{Items: []*model.LoginHistory{}}, nil
}
func (f *fakeLogins) Get(ctx context.Context, id int64) (*model.LoginHistory, error) {
	return &model.LoginHistory{ID: id}, nil
}
func (f *fakeLogins) MarkSuspicious(ctx context.Context, id int64, suspicious bool) (*model.LoginHistory, error) {
	return &model.LoginHistory{ID: id, IsSuspicious: suspicious}, nil
}
func (f *fakeLogins) Delete(ctx context.Context, id int64) error { return nil }

type fakeBugs struct {
	lastCreate usecase.CreateBugReportRequest
	lastStatus model.BugStatus
}

func (f *fakeBugs) Create(ctx context.Context, req usecase.CreateBugReportRequest) (*model.BugReport, error) {
	f.lastCreate = req
	b, err := model.NewBugReport(req.Title, req.Description, req.Severity, req.Status)
	if err != nil {
		return nil, err
	}
	b.ID = 1
	return b, nil
}
func (f *fakeBugs) Update(ctx context.Context, id int64, upd model.BugReportUpdate) (*model.BugReport, error) {
	return &model.BugReport{ID: id}, nil
}
func (f *fakeBugs) Delete(ctx context.Context, id int64) error { return nil }
func (f *fakeBugs) Get(ctx context.Context, id int64) (*model.BugReport, error) {
	if id == 99 {
		panic("boom")
	}
	return &model.BugReport{ID: id}, nil
}
func (f *fakeBugs) List(ctx context.Context, status model.BugStatus, severity model.BugSeverity, offset, limit int) ([]*model.BugReport, error) {
	f.lastStatus = status
	return []*model.BugReport{}, nil
}

type fakeStats struct{}

func (fakeStats) Dashboard(ctx context.Context) (*usecase.DashboardStats, error) {
	return &usecase.DashboardStats{Devices: 3, IssuedCodes: 2, BugsByStatus: map[model.BugStatus]int{model.BugOpen: 1}}, nil
}
func (fakeStats) CodeSpaceUsage(ctx context.Context) (int, float64, error) { return 2, 2.0 / 900000, nil }

// --- Auth collaborators ---

type fakeLimiter struct {
	mu    sync.Mutex
	count map[string]int
	err   error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.count == nil {
		f.count = map[string]int{}
	}
	f.count[key]++
	return f.count[key] <= limit, nil
}

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}
