//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"toy-admin/internal/domain"
	"toy-admin/internal/domain/model"
	"toy-admin/internal/domain/ports/adapter"
	"toy-admin/internal/domain/ports/repository"
	"toy-admin/internal/infra/worker"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- Mock DeviceCredentialRepository ----

// MockDeviceRepo keeps rows in memory and enforces the activation code unique
// index the way Postgres does, so concurrent issuers can race against it.
type MockDeviceRepo struct {
	mu     sync.Mutex
	byMac  map[string]*model.DeviceCredential
	byCode map[string]string // code -> mac

	CreateFunc                 func(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error
	ExistsByActivationCodeFunc func(ctx context.Context, tx repository.Tx, code string) (bool, error)

	ExistsCalls int
	CreateCalls int
}

var _ repository.DeviceCredentialRepository = (*MockDeviceRepo)(nil)

func NewMockDeviceRepo() *MockDeviceRepo {
	return &MockDeviceRepo{
		byMac:  make(map[string]*model.DeviceCredential),
		byCode: make(map[string]string),
	}
}

func (m *MockDeviceRepo) Create(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, d)
	}
	return m.insert(d)
}

func (m *MockDeviceRepo) insert(d *model.DeviceCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMac[d.MacID]; ok {
		return domain.ErrAlreadyExists
	}
	if d.ActivationCode != "" {
		if _, ok := m.byCode[d.ActivationCode]; ok {
			return domain.ErrDuplicateKey
		}
		m.byCode[d.ActivationCode] = d.MacID
	}
	cp := *d
	m.byMac[d.MacID] = &cp
	return nil
}

func (m *MockDeviceRepo) Update(ctx context.Context, tx repository.Tx, d *model.DeviceCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.byMac[d.MacID]
	if !ok {
		return domain.ErrNotFound
	}
	if d.ActivationCode != old.ActivationCode && d.ActivationCode != "" {
		if owner, ok := m.byCode[d.ActivationCode]; ok && owner != d.MacID {
			return domain.ErrDuplicateKey
		}
	}
	delete(m.byCode, old.ActivationCode)
	if d.ActivationCode != "" {
		m.byCode[d.ActivationCode] = d.MacID
	}
	cp := *d
	m.byMac[d.MacID] = &cp
	return nil
}

func (m *MockDeviceRepo) Delete(ctx context.Context, tx repository.Tx, macID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byMac[macID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byCode, d.ActivationCode)
	delete(m.byMac, macID)
	return nil
}

func (m *MockDeviceRepo) FindByMacID(ctx context.Context, tx repository.Tx, macID string) (*model.DeviceCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byMac[macID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MockDeviceRepo) ExistsByActivationCode(ctx context.Context, tx repository.Tx, code string) (bool, error) {
	m.mu.Lock()
	m.ExistsCalls++
	m.mu.Unlock()
	if m.ExistsByActivationCodeFunc != nil {
		return m.ExistsByActivationCodeFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byCode[code]
	return ok, nil
}

func (m *MockDeviceRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.DeviceCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*model.DeviceCredential, 0, len(m.byMac))
	for _, d := range m.byMac {
		cp := *d
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*model.DeviceCredential{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockDeviceRepo) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := 0
	for _, d := range m.byMac {
		if d.IsActive {
			active++
		}
	}
	return len(m.byMac), active, nil
}

func (m *MockDeviceRepo) CountIssuedCodes(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byCode), nil
}

// Codes returns every activation code currently stored.
func (m *MockDeviceRepo) Codes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.byMac))
	for _, d := range m.byMac {
		out = append(out, d.ActivationCode)
	}
	return out
}

// ---- Mock ToyRepository ----

type MockToyRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Toy
}

var _ repository.ToyRepository = (*MockToyRepo)(nil)

func NewMockToyRepo() *MockToyRepo {
	return &MockToyRepo{byID: make(map[string]*model.Toy)}
}

func (m *MockToyRepo) Save(ctx context.Context, tx repository.Tx, t *model.Toy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.byID[t.ID] = &cp
	return nil
}

func (m *MockToyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MockToyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Toy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockToyRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Toy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Toy, 0, len(m.byID))
	for _, t := range m.byID {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockToyRepo) ListByUserID(ctx context.Context, tx repository.Tx, userID string) ([]*model.Toy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Toy{}
	for _, t := range m.byID {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockToyRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

// ---- Mock ParentProfileRepository ----

type MockParentRepo struct {
	mu   sync.Mutex
	byID map[string]*model.ParentProfile
}

var _ repository.ParentProfileRepository = (*MockParentRepo)(nil)

func NewMockParentRepo() *MockParentRepo {
	return &MockParentRepo{byID: make(map[string]*model.ParentProfile)}
}

func (m *MockParentRepo) Save(ctx context.Context, tx repository.Tx, p *model.ParentProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MockParentRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MockParentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.ParentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockParentRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.ParentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ParentProfile, 0, len(m.byID))
	for _, p := range m.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockParentRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

// ---- Mock LoginHistoryRepository ----

type MockLoginRepo struct {
	mu   sync.Mutex
	byID map[int64]*model.LoginHistory

	ListFunc func(ctx context.Context, tx repository.Tx, f repository.LoginHistoryFilter) ([]*model.LoginHistory, error)
}

var _ repository.LoginHistoryRepository = (*MockLoginRepo)(nil)

func NewMockLoginRepo() *MockLoginRepo {
	return &MockLoginRepo{byID: make(map[int64]*model.LoginHistory)}
}

func (m *MockLoginRepo) Put(l *model.LoginHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.byID[l.ID] = &cp
}

func (m *MockLoginRepo) List(ctx context.Context, tx repository.Tx, f repository.LoginHistoryFilter) ([]*model.LoginHistory, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.LoginHistory{}
	for _, l := range m.byID {
		if f.SuspiciousOnly && !l.IsSuspicious {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockLoginRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.LoginHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *MockLoginRepo) SetSuspicious(ctx context.Context, tx repository.Tx, id int64, suspicious bool) (*model.LoginHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	l.IsSuspicious = suspicious
	cp := *l
	return &cp, nil
}

func (m *MockLoginRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MockLoginRepo) Count(ctx context.Context, tx repository.Tx) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	suspicious := 0
	for _, l := range m.byID {
		if l.IsSuspicious {
			suspicious++
		}
	}
	return len(m.byID), suspicious, nil
}

// ---- Mock BugReportRepository ----

type MockBugRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*model.BugReport
}

var _ repository.BugReportRepository = (*MockBugRepo)(nil)

func NewMockBugRepo() *MockBugRepo {
	return &MockBugRepo{byID: make(map[int64]*model.BugReport)}
}

func (m *MockBugRepo) Create(ctx context.Context, tx repository.Tx, b *model.BugReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *MockBugRepo) Update(ctx context.Context, tx repository.Tx, b *model.BugReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *MockBugRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MockBugRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.BugReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBugRepo) List(ctx context.Context, tx repository.Tx, f repository.BugReportFilter) ([]*model.BugReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.BugReport{}
	for _, b := range m.byID {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Severity != "" && b.Severity != f.Severity {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockBugRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.BugStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.BugStatus]int)
	for _, b := range m.byID {
		out[b.Status]++
	}
	return out, nil
}

func (m *MockBugRepo) CountBySeverity(ctx context.Context, tx repository.Tx, s model.BugSeverity) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.byID {
		if b.Severity == s {
			n++
		}
	}
	return n, nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock BugNotifier ----

type MockNotifier struct {
	mu   sync.Mutex
	Sent []*model.BugReport

	NotifyFunc func(ctx context.Context, b *model.BugReport) error
}

var _ adapter.BugNotifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyBugReported(ctx context.Context, b *model.BugReport) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, b)
	return nil
}

// ---- Inline dispatcher ----

// inlineDispatcher runs tasks synchronously so tests can assert on side effects.
type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task worker.Task) error {
	return task(context.Background())
}

// ---- Fake secrets ----

type fakeSecrets struct {
	mu sync.Mutex
	n  int
}

func (f *fakeSecrets) NewSecret() (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	plain := "secret-" + strconv.Itoa(f.n)
	return plain, "hash:" + plain, nil
}
