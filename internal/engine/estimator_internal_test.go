package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateWait_Jitter(t *testing.T) {
	// λ = 0, μ = 1/мин: база ровно 10 минут
	tests := map[string]struct {
		uniform  float64
		expected int
	}{
		"lower jitter": {uniform: 0, expected: 8},
		"no jitter":    {uniform: 0.5, expected: 10},
		"upper jitter": {uniform: 1, expected: 12},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := estimateWait(0, 60, 10, func() float64 { return tc.uniform })
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestEstimateWait_FloorOnCapacityGap(t *testing.T) {
	// μ - λ < 0.05 -> знаменатель 0.05; 1 человек -> 20 минут
	got := estimateWait(19.9, 20, 1, func() float64 { return 0.5 })
	assert.Equal(t, 20, got)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.InDelta(t, 5.5, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 7.75, percentile(sorted, 75), 1e-9)
	assert.InDelta(t, 9.55, percentile(sorted, 95), 1e-9)
	assert.InDelta(t, 1, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 10, percentile(sorted, 100), 1e-9)
	assert.Zero(t, percentile(nil, 50))
}

func TestPopMeanStdDev(t *testing.T) {
	mean, std := popMeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-9)
	assert.InDelta(t, 2, std, 1e-9)

	mean, std = popMeanStdDev([]float64{7})
	assert.InDelta(t, 7, mean, 1e-9)
	assert.Zero(t, std)
}

func TestBandFor(t *testing.T) {
	bands := DefaultBands()

	expected := map[int]float64{0: 1.2, 1: 1.2, 2: 1.0, 3: 1.0, 4: 0.7, 5: 0.9, 9: 0.9}
	for offset, min := range expected {
		assert.Equal(t, min, bandFor(bands, offset).Min, "offset %d", offset)
	}
}
