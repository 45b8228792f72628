package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Уровень доверия фиксирован и передается как метка.
const confidenceLevel = 95

// aggregate сворачивает результаты всех сценариев в статистику по часам окна.
func aggregate(results []ScenarioResult, window WorkingWindow) Aggregates {
	out := make(Aggregates, 0, window.Hours())

	for hour := window.StartHour; hour < window.EndHour; hour++ {
		waits := make([]float64, 0, len(results))
		queues := make([]float64, 0, len(results))

		for _, r := range results {
			if o, ok := r.At(hour); ok {
				waits = append(waits, float64(o.WaitMinutes))
				queues = append(queues, float64(o.QueueSize))
			}
		}
		if len(waits) == 0 {
			continue
		}

		mean, std := popMeanStdDev(waits)

		sorted := append([]float64(nil), waits...)
		sort.Float64s(sorted)

		out = append(out, HourAggregate{
			Hour:         hour,
			AvgWait:      mean,
			MinWait:      floats.Min(waits),
			MaxWait:      floats.Max(waits),
			StdWait:      std,
			Percentile50: percentile(sorted, 50),
			Percentile75: percentile(sorted, 75),
			Percentile95: percentile(sorted, 95),
			AvgQueue:     stat.Mean(queues, nil),
			Confidence:   confidenceLevel,
		})
	}

	return out
}

// popMeanStdDev возвращает среднее и смещенное (по генеральной совокупности) отклонение.
func popMeanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	n := float64(len(x))
	mean, std = stat.MeanStdDev(x, nil)
	if math.IsNaN(std) {
		// ошибки округления на почти одинаковых значениях
		return mean, 0
	}
	return mean, std * math.Sqrt((n-1)/n)
}

// percentile считает линейной интерполяцией между ближайшими рангами (позиция p/100·(n-1)).
// sorted должен быть отсортирован по возрастанию.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p / 100 * float64(len(sorted)-1)
	lower := math.Floor(pos)
	upper := math.Ceil(pos)
	if lower == upper {
		return sorted[int(lower)]
	}
	weight := pos - lower
	return sorted[int(lower)]*(1-weight) + sorted[int(upper)]*weight
}
