package service

import (
	"context"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// QueryStore — чтение истории и аналитики (Postgres)
type QueryStore interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error)
	ServiceStats(ctx context.Context) ([]domain.ServiceStat, error)
	HourStats(ctx context.Context) ([]domain.HourStat, error)
}

type HistoryService struct {
	store QueryStore
}

func NewHistoryService(store QueryStore) *HistoryService {
	return &HistoryService{store: store}
}

// List возвращает последние запросы пользователя. limit вне 1..100 приводится к границам.
func (s *HistoryService) List(ctx context.Context, userID string, limit int) ([]domain.QueryRecord, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return s.store.ListByUser(ctx, userID, limit)
}

func (s *HistoryService) ServiceStats(ctx context.Context) ([]domain.ServiceStat, error) {
	return s.store.ServiceStats(ctx)
}

// PeakHours всегда возвращает 24 значения, часы без запросов заполнены нулями.
func (s *HistoryService) PeakHours(ctx context.Context) ([]domain.HourStat, error) {
	stats, err := s.store.HourStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HourStat, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, st := range stats {
		if st.Hour >= 0 && st.Hour < 24 {
			out[st.Hour].Count = st.Count
		}
	}
	return out, nil
}
