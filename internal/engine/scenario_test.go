package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
)

var (
	referenceRate   = engine.ServiceRate{ArrivalRatePerHour: 18, ServiceRatePerHour: 20, CurrentQueue: 12}
	referenceWindow = engine.WorkingWindow{StartHour: 8, EndHour: 15}
)

func TestSimulateScenario_Reproducible(t *testing.T) {
	first := engine.SimulateScenario(42, referenceRate, referenceWindow)
	second := engine.SimulateScenario(42, referenceRate, referenceWindow)

	require.Len(t, first, 7)
	assert.Equal(t, first, second)
}

func TestSimulateScenario_DifferentSeedsDiverge(t *testing.T) {
	a := engine.SimulateScenario(1, referenceRate, referenceWindow)
	b := engine.SimulateScenario(2, referenceRate, referenceWindow)
	assert.NotEqual(t, a, b)
}

func TestSimulateScenario_HoursCoverWindow(t *testing.T) {
	result := engine.SimulateScenario(7, referenceRate, referenceWindow)

	for i, o := range result {
		assert.Equal(t, referenceWindow.StartHour+i, o.Hour)
	}
}

func TestSimulateScenario_Invariants(t *testing.T) {
	rates := map[string]engine.ServiceRate{
		"reference":     referenceRate,
		"overloaded":    {ArrivalRatePerHour: 60, ServiceRatePerHour: 10, CurrentQueue: 30},
		"quiet":         {ArrivalRatePerHour: 2, ServiceRatePerHour: 40, CurrentQueue: 0},
		"no arrivals":   {ArrivalRatePerHour: 0, ServiceRatePerHour: 20, CurrentQueue: 5},
		"no throughput": {ArrivalRatePerHour: 10, ServiceRatePerHour: 0, CurrentQueue: 3},
	}

	for name, rate := range rates {
		t.Run(name, func(t *testing.T) {
			for id := range 50 {
				for _, o := range engine.SimulateScenario(id, rate, referenceWindow) {
					assert.GreaterOrEqual(t, o.QueueSize, 0)
					assert.GreaterOrEqual(t, o.WaitMinutes, 0)
					assert.GreaterOrEqual(t, o.Arrivals, 0)
					assert.GreaterOrEqual(t, o.Served, 0)
				}
			}
		})
	}
}

func TestSimulateScenario_HugeInputsSaturate(t *testing.T) {
	rates := map[string]engine.ServiceRate{
		"arrivals 1e30":  {ArrivalRatePerHour: 1e30, ServiceRatePerHour: 20, CurrentQueue: 12},
		"arrivals 1e300": {ArrivalRatePerHour: 1e300, ServiceRatePerHour: 20, CurrentQueue: 12},
		"service 1e300":  {ArrivalRatePerHour: 18, ServiceRatePerHour: 1e300, CurrentQueue: 12},
		"max queue":      {ArrivalRatePerHour: 18, ServiceRatePerHour: 20, CurrentQueue: math.MaxInt},
	}

	for name, rate := range rates {
		t.Run(name, func(t *testing.T) {
			prev := min(rate.CurrentQueue, math.MaxInt32)
			for _, o := range engine.SimulateScenario(1, rate, referenceWindow) {
				for _, v := range []int{o.QueueSize, o.WaitMinutes, o.Arrivals, o.Served} {
					assert.GreaterOrEqual(t, v, 0)
					assert.LessOrEqual(t, v, math.MaxInt32)
				}
				assert.Equal(t, min(max(0, prev+o.Arrivals-o.Served), math.MaxInt32), o.QueueSize)
				prev = o.QueueSize
			}
		})
	}
}

func TestSimulateScenario_QueueCarriesOver(t *testing.T) {
	rate := engine.ServiceRate{ArrivalRatePerHour: 30, ServiceRatePerHour: 20, CurrentQueue: 4}

	for id := range 20 {
		prev := rate.CurrentQueue
		for _, o := range engine.SimulateScenario(id, rate, referenceWindow) {
			expected := max(0, prev+o.Arrivals-o.Served)
			assert.Equal(t, expected, o.QueueSize)
			prev = o.QueueSize
		}
	}
}

func TestSimulateScenario_NoArrivalsWithZeroRate(t *testing.T) {
	rate := engine.ServiceRate{ArrivalRatePerHour: 0, ServiceRatePerHour: 20, CurrentQueue: 0}

	for _, o := range engine.SimulateScenario(3, rate, referenceWindow) {
		assert.Zero(t, o.Arrivals)
		assert.Zero(t, o.QueueSize)
		// пустая очередь: короткое ожидание 1..5 минут
		assert.GreaterOrEqual(t, o.WaitMinutes, 1)
		assert.LessOrEqual(t, o.WaitMinutes, 5)
	}
}
