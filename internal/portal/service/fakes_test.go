package service_test

import (
	"context"
	"sync"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/repository/postgres"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	names map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*domain.User{}, names: map[string]string{}}
}

func (f *fakeUsers) CreateUser(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.names[u.Username]; ok {
		return postgres.ErrDuplicateUsername
	}
	cp := *u
	f.byID[u.ID] = &cp
	f.names[u.Username] = u.ID
	return nil
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.names[username]
	if !ok {
		return nil, nil
	}
	cp := *f.byID[id]
	return &cp, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) SetCity(_ context.Context, id, city string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[id].City = city
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.QueryRecord
}

func (f *fakeRecorder) Record(rec domain.QueryRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

type predictCall struct {
	rate  engine.ServiceRate
	hours string
	n     int
}

type fakePredictor struct {
	calls []predictCall
	rec   engine.Recommendation
	err   error
}

func (f *fakePredictor) PredictBestArrivalTime(_ context.Context, rate engine.ServiceRate, hours string, n int) (engine.Recommendation, error) {
	f.calls = append(f.calls, predictCall{rate: rate, hours: hours, n: n})
	return f.rec, f.err
}

type fakeQueries struct {
	limit int
	list  []domain.QueryRecord
	hours []domain.HourStat
}

func (f *fakeQueries) ListByUser(_ context.Context, _ string, limit int) ([]domain.QueryRecord, error) {
	f.limit = limit
	return f.list, nil
}

func (f *fakeQueries) ServiceStats(context.Context) ([]domain.ServiceStat, error) {
	return []domain.ServiceStat{{Service: "pasoš", Count: 3}}, nil
}

func (f *fakeQueries) HourStats(context.Context) ([]domain.HourStat, error) {
	return f.hours, nil
}
