package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
)

var simCfg = infra.SimulationConfig{
	ArrivalRate:         18,
	ServiceRate:         20,
	CurrentQueue:        12,
	NumSimulations:      1000,
	MaxSimulations:      5000,
	DefaultWorkingHours: "08:00-15:00",
}

func ptr[T any](v T) *T { return &v }

func TestQueueService_Estimate(t *testing.T) {
	rec := &fakeRecorder{}
	now := time.Date(2026, 3, 10, 9, 3, 0, 0, time.UTC)
	svc := service.NewQueueService(&fakePredictor{}, rec, simCfg, zap.NewNop()).
		WithClock(func() time.Time { return now })

	ctx := infra.WithTraceID(context.Background(), "trace-1")
	res, err := svc.Estimate(ctx, "u-1", domain.EstimateRequest{Service: "Pasos", CurrentQueue: ptr(0)})
	require.NoError(t, err)

	// пустая очередь: минимальная оценка 3 минуты, слот 09:10
	assert.Equal(t, "pasoš", res.Service)
	assert.Equal(t, 3, res.WaitMinutes)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC), res.NextSlot)
	assert.InDelta(t, 0.9, res.Utilization, 1e-9)
	assert.Equal(t, "08:00-15:00", res.WorkingHours)

	require.Len(t, rec.records, 1)
	assert.Equal(t, domain.QueryKindEstimate, rec.records[0].Kind)
	assert.Equal(t, "trace-1", rec.records[0].TraceID)
	assert.Equal(t, "u-1", rec.records[0].UserID)
}

func TestQueueService_EstimateAfterHoursMovesToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	svc := service.NewQueueService(&fakePredictor{}, &fakeRecorder{}, simCfg, zap.NewNop()).
		WithClock(func() time.Time { return now })

	res, err := svc.Estimate(context.Background(), "u-1", domain.EstimateRequest{Query: "treba mi licna karta", CurrentQueue: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, "lična karta", res.Service)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), res.NextSlot)
}

func TestQueueService_EstimateErrors(t *testing.T) {
	svc := service.NewQueueService(&fakePredictor{}, &fakeRecorder{}, simCfg, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Estimate(ctx, "u-1", domain.EstimateRequest{Service: "visa"})
	assert.ErrorIs(t, err, service.ErrUnknownService)

	_, err = svc.Estimate(ctx, "u-1", domain.EstimateRequest{Query: "dobar dan"})
	assert.ErrorIs(t, err, service.ErrUnknownService)

	_, err = svc.Estimate(ctx, "u-1", domain.EstimateRequest{Service: "pasoš", CenterID: 404})
	assert.ErrorIs(t, err, service.ErrUnknownCenter)

	loads := map[string]domain.EstimateRequest{
		"negative queue":   {Service: "pasoš", CurrentQueue: ptr(-1)},
		"huge arrivals":    {Service: "pasoš", ArrivalRate: ptr(1e30)},
		"huge service":     {Service: "pasoš", ServiceRate: ptr(1e300)},
		"huge queue":       {Service: "pasoš", CurrentQueue: ptr(1 << 60)},
		"just above limit": {Service: "pasoš", ArrivalRate: ptr(10_000.5)},
	}
	for name, req := range loads {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Estimate(ctx, "u-1", req)
			assert.ErrorIs(t, err, service.ErrInvalidLoad)
		})
	}

	_, err = svc.Estimate(ctx, "u-1", domain.EstimateRequest{Service: "pasoš", ArrivalRate: ptr(10_000.0), CurrentQueue: ptr(100_000)})
	assert.NoError(t, err)
}

func TestQueueService_EstimateUsesCenterHours(t *testing.T) {
	// Никшич работает до 14:30: в 14:20 + 3 минуты слот 14:30 уже вне окна 8..14
	now := time.Date(2026, 3, 10, 14, 20, 0, 0, time.UTC)
	svc := service.NewQueueService(&fakePredictor{}, &fakeRecorder{}, simCfg, zap.NewNop()).
		WithClock(func() time.Time { return now })
	req := domain.EstimateRequest{Service: "pasoš", CurrentQueue: ptr(0)}

	res, err := svc.Estimate(context.Background(), "u-1", req)
	require.NoError(t, err)
	assert.Nil(t, res.Center)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), res.NextSlot)

	req.CenterID = 2
	res, err = svc.Estimate(context.Background(), "u-1", req)
	require.NoError(t, err)
	require.NotNil(t, res.Center)
	assert.Equal(t, "Nikšić", res.Center.City)
	assert.Equal(t, "08:00-14:00", res.WorkingHours)
	assert.Equal(t, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC), res.NextSlot)
}

func TestQueueService_Predict(t *testing.T) {
	recommended := time.Date(2026, 3, 11, 9, 12, 0, 0, time.UTC)
	pred := &fakePredictor{rec: engine.Recommendation{RecommendedHour: 9, RecommendedTime: recommended, EstimatedWaitAvg: 17}}
	rec := &fakeRecorder{}
	svc := service.NewQueueService(pred, rec, simCfg, zap.NewNop())
	ctx := context.Background()

	t.Run("center hours and default load", func(t *testing.T) {
		res, err := svc.Predict(ctx, "u-1", domain.PredictRequest{
			EstimateRequest: domain.EstimateRequest{Service: "pasoš", CenterID: 2},
		})
		require.NoError(t, err)

		call := pred.calls[len(pred.calls)-1]
		assert.Equal(t, "08:00–14:30", call.hours)
		assert.Equal(t, 1000, call.n)
		assert.Equal(t, simCfg.DefaultRate(), call.rate)

		assert.Equal(t, "Nikšić", res.Center.City)
		assert.Equal(t, 9, res.RecommendedHour)
		assert.Equal(t, 1000, res.Simulations)
	})

	t.Run("explicit hours and load", func(t *testing.T) {
		_, err := svc.Predict(ctx, "u-1", domain.PredictRequest{
			EstimateRequest: domain.EstimateRequest{Service: "pasoš", ArrivalRate: ptr(30.0), CurrentQueue: ptr(4)},
			WorkingHours:    "09:00-17:00",
			NumSimulations:  250,
		})
		require.NoError(t, err)

		call := pred.calls[len(pred.calls)-1]
		assert.Equal(t, "09:00-17:00", call.hours)
		assert.Equal(t, 250, call.n)
		assert.Equal(t, engine.ServiceRate{ArrivalRatePerHour: 30, ServiceRatePerHour: 20, CurrentQueue: 4}, call.rate)
	})

	t.Run("recorded with recommended time", func(t *testing.T) {
		last := rec.records[len(rec.records)-1]
		assert.Equal(t, domain.QueryKindPredict, last.Kind)
		assert.Equal(t, 17, last.WaitMinutes)
		require.NotNil(t, last.RecommendedAt)
		assert.Equal(t, recommended, *last.RecommendedAt)
	})
}

func TestQueueService_PredictErrors(t *testing.T) {
	pred := &fakePredictor{err: engine.ErrSimulationFailed}
	svc := service.NewQueueService(pred, &fakeRecorder{}, simCfg, zap.NewNop())
	ctx := context.Background()
	base := domain.EstimateRequest{Service: "pasoš"}

	_, err := svc.Predict(ctx, "u-1", domain.PredictRequest{EstimateRequest: domain.EstimateRequest{Service: "pasoš", CenterID: 404}})
	assert.ErrorIs(t, err, service.ErrUnknownCenter)

	_, err = svc.Predict(ctx, "u-1", domain.PredictRequest{EstimateRequest: domain.EstimateRequest{Service: "pasoš", ArrivalRate: ptr(1e30)}})
	assert.ErrorIs(t, err, service.ErrInvalidLoad)
	assert.Empty(t, pred.calls)

	_, err = svc.Predict(ctx, "u-1", domain.PredictRequest{EstimateRequest: base, NumSimulations: 10_000})
	assert.ErrorIs(t, err, service.ErrTooManySimulations)

	_, err = svc.Predict(ctx, "u-1", domain.PredictRequest{EstimateRequest: base})
	assert.True(t, errors.Is(err, engine.ErrSimulationFailed))
}

func TestHistoryService(t *testing.T) {
	store := &fakeQueries{hours: []domain.HourStat{{Hour: 9, Count: 4}, {Hour: 13, Count: 1}}}
	svc := service.NewHistoryService(store)
	ctx := context.Background()

	for limit, want := range map[int]int{0: 10, -5: 10, 25: 25, 500: 100} {
		_, err := svc.List(ctx, "u-1", limit)
		require.NoError(t, err)
		assert.Equal(t, want, store.limit, "limit %d", limit)
	}

	peaks, err := svc.PeakHours(ctx)
	require.NoError(t, err)
	require.Len(t, peaks, 24)
	assert.Equal(t, int64(4), peaks[9].Count)
	assert.Equal(t, int64(0), peaks[10].Count)
	assert.Equal(t, 23, peaks[23].Hour)
}
