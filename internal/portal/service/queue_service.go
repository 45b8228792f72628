package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
)

// Recorder — асинхронная запись истории запросов
type Recorder interface {
	Record(rec domain.QueryRecord)
}

// Predictor — Monte-Carlo рекомендация
type Predictor interface {
	PredictBestArrivalTime(ctx context.Context, rate engine.ServiceRate, workingHours string, numSimulations int) (engine.Recommendation, error)
}

type EstimateResult struct {
	Service      string         `json:"service"`
	Center       *domain.Center `json:"center,omitempty"`
	WaitMinutes  int            `json:"wait_minutes"`
	NextSlot     time.Time      `json:"next_slot"`
	Utilization  float64        `json:"utilization"`
	WorkingHours string         `json:"working_hours"`
}

type PredictResult struct {
	Service      string         `json:"service"`
	Center       *domain.Center `json:"center,omitempty"`
	WorkingHours string         `json:"working_hours"`
	Simulations  int            `json:"simulations"`
	engine.Recommendation
}

type QueueService struct {
	predictor Predictor
	recorder  Recorder
	sim       infra.SimulationConfig
	now       func() time.Time
	logger    *zap.Logger
}

func NewQueueService(predictor Predictor, recorder Recorder, sim infra.SimulationConfig, logger *zap.Logger) *QueueService {
	return &QueueService{
		predictor: predictor,
		recorder:  recorder,
		sim:       sim,
		now:       time.Now,
		logger:    logger.Named("queue"),
	}
}

// WithClock подменяет часы (для тестов)
func (s *QueueService) WithClock(now func() time.Time) *QueueService {
	s.now = now
	return s
}

// Estimate: аналитическая оценка ожидания и ближайший 10-минутный слот в часы работы
// выбранного отделения (или окна по умолчанию).
func (s *QueueService) Estimate(ctx context.Context, userID string, req domain.EstimateRequest) (*EstimateResult, error) {
	svc, err := resolveService(req)
	if err != nil {
		return nil, err
	}
	rate, err := s.rate(req)
	if err != nil {
		return nil, err
	}

	center, err := centerFor(req.CenterID)
	if err != nil {
		return nil, err
	}
	hours := s.sim.DefaultWorkingHours
	if center != nil {
		hours = center.WorkingHours
	}
	window, err := engine.ParseWorkingHours(hours)
	if err != nil {
		s.logger.Warn("working hours not parsed, using default window", zap.String("working_hours", hours), zap.Error(err))
		window = engine.DefaultWindow
	}

	wait := engine.EstimateWaitMinutes(rate.ArrivalRatePerHour, rate.ServiceRatePerHour, rate.CurrentQueue)
	slot := engine.FitToWindow(engine.NextBestSlot(s.now(), wait), window)

	s.recorder.Record(domain.QueryRecord{
		TraceID:     infra.TraceIDFromContext(ctx),
		UserID:      userID,
		Service:     svc.Name,
		Kind:        domain.QueryKindEstimate,
		Query:       req.Query,
		WaitMinutes: wait,
	})

	return &EstimateResult{
		Service:      svc.Name,
		Center:       center,
		WaitMinutes:  wait,
		NextSlot:     slot,
		Utilization:  engine.Utilization(rate.ArrivalRatePerHour, rate.ServiceRatePerHour),
		WorkingHours: engine.FormatWindow(window),
	}, nil
}

// Predict: 1. услуга, 2. нагрузка, 3. часы работы (отделение или запрос), 4. Monte-Carlo.
func (s *QueueService) Predict(ctx context.Context, userID string, req domain.PredictRequest) (*PredictResult, error) {
	svc, err := resolveService(req.EstimateRequest)
	if err != nil {
		return nil, err
	}
	rate, err := s.rate(req.EstimateRequest)
	if err != nil {
		return nil, err
	}

	n := req.NumSimulations
	if n <= 0 {
		n = s.sim.NumSimulations
	}
	if n > s.sim.MaxSimulations {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySimulations, n, s.sim.MaxSimulations)
	}

	center, err := centerFor(req.CenterID)
	if err != nil {
		return nil, err
	}
	hours := req.WorkingHours
	if center != nil {
		hours = center.WorkingHours
	}
	if hours == "" {
		hours = s.sim.DefaultWorkingHours
	}

	rec, err := s.predictor.PredictBestArrivalTime(ctx, rate, hours, n)
	if err != nil {
		return nil, err
	}

	recommended := rec.RecommendedTime
	s.recorder.Record(domain.QueryRecord{
		TraceID:       infra.TraceIDFromContext(ctx),
		UserID:        userID,
		Service:       svc.Name,
		Kind:          domain.QueryKindPredict,
		Query:         req.Query,
		WaitMinutes:   rec.EstimatedWaitAvg,
		RecommendedAt: &recommended,
	})

	return &PredictResult{
		Service:        svc.Name,
		Center:         center,
		WorkingHours:   hours,
		Simulations:    n,
		Recommendation: rec,
	}, nil
}

// Верхние границы нагрузки из запроса: выше них модель теряет смысл.
const (
	maxRatePerHour = 10_000
	maxQueueSize   = 100_000
)

// rate собирает нагрузку: поля запроса поверх профиля по умолчанию.
func (s *QueueService) rate(req domain.EstimateRequest) (engine.ServiceRate, error) {
	rate := s.sim.DefaultRate()
	if req.ArrivalRate != nil {
		rate.ArrivalRatePerHour = *req.ArrivalRate
	}
	if req.ServiceRate != nil {
		rate.ServiceRatePerHour = *req.ServiceRate
	}
	if req.CurrentQueue != nil {
		rate.CurrentQueue = *req.CurrentQueue
	}
	if rate.ArrivalRatePerHour < 0 || rate.ServiceRatePerHour < 0 || rate.CurrentQueue < 0 {
		return engine.ServiceRate{}, ErrInvalidLoad
	}
	if rate.ArrivalRatePerHour > maxRatePerHour || rate.ServiceRatePerHour > maxRatePerHour || rate.CurrentQueue > maxQueueSize {
		return engine.ServiceRate{}, fmt.Errorf("%w: rates up to %d/h, queue up to %d", ErrInvalidLoad, maxRatePerHour, maxQueueSize)
	}
	return rate, nil
}

// centerFor: 0 означает "отделение не выбрано".
func centerFor(id int) (*domain.Center, error) {
	if id == 0 {
		return nil, nil
	}
	c, ok := domain.CenterByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCenter, id)
	}
	return &c, nil
}

// resolveService: явное имя услуги, иначе поиск по свободному тексту.
func resolveService(req domain.EstimateRequest) (domain.ServiceInfo, error) {
	if req.Service != "" {
		if svc, ok := domain.ServiceByName(req.Service); ok {
			return svc, nil
		}
		return domain.ServiceInfo{}, fmt.Errorf("%w: %q", ErrUnknownService, req.Service)
	}
	if svc, ok := domain.DetectService(req.Query); ok {
		return svc, nil
	}
	return domain.ServiceInfo{}, ErrUnknownService
}
