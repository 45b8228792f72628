package engine

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Разброс пропускной способности смены: σ = 15% от μ.
	serviceSpread = 0.15

	// Номера потоков PCG: приходы и обслуживание тянут числа из независимых источников.
	arrivalStream = 0x9e3779b97f4a7c15
	serviceStream = 0xbf58476d1ce4e5b9

	// Потолок интенсивности Пуассона: выше выборка теряет точность float64.
	maxLambda = 1e9
)

// SimulateScenario прогоняет один день работы центра с профилем DefaultBands.
// Один и тот же scenarioID всегда дает одну и ту же траекторию.
func SimulateScenario(scenarioID int, rate ServiceRate, window WorkingWindow) ScenarioResult {
	return simulateScenario(scenarioID, rate, window, DefaultBands())
}

func simulateScenario(scenarioID int, rate ServiceRate, window WorkingWindow, bands []ArrivalBand) ScenarioResult {
	// Локальные генераторы сценария: глобальное состояние rand не трогаем,
	// сценарии можно гонять параллельно.
	seed := uint64(scenarioID)
	arrivalSrc := rand.NewPCG(seed, arrivalStream)
	serviceSrc := rand.NewPCG(seed, serviceStream)

	served := distuv.Normal{
		Mu:    rate.ServiceRatePerHour,
		Sigma: rate.ServiceRatePerHour * serviceSpread,
		Src:   serviceSrc,
	}

	queue := min(max(rate.CurrentQueue, 0), maxCount)
	result := make(ScenarioResult, 0, window.Hours())

	for offset := 0; offset < window.Hours(); offset++ {
		// 1. Суточный профиль: множитель интенсивности прихода
		band := bandFor(bands, offset)
		multiplier := distuv.Uniform{Min: band.Min, Max: band.Max, Src: arrivalSrc}.Rand()

		// 2. Приходы за час ~ Poisson(λ × множитель)
		arrivals := 0
		if lambda := math.Min(rate.ArrivalRatePerHour*multiplier, maxLambda); lambda > 0 {
			arrivals = saturate(distuv.Poisson{Lambda: lambda, Src: arrivalSrc}.Rand())
		}

		// 3. Обслужено за час ~ Normal(μ, 0.15μ), не меньше нуля
		out := saturate(served.Rand())

		// 4. Очередь переносится в следующий час
		queue = min(max(queue+arrivals-out, 0), maxCount)

		// 5. Ожидание в этом часу
		var wait float64
		if queue > 0 && out > 0 {
			avgServiceMinutes := 60.0 / rate.ServiceRatePerHour
			wait = float64(queue) * avgServiceMinutes * distuv.Uniform{Min: 0.8, Max: 1.2, Src: serviceSrc}.Rand()
		} else {
			wait = distuv.Uniform{Min: 1, Max: 5, Src: serviceSrc}.Rand()
		}

		result = append(result, HourOutcome{
			Hour:        window.StartHour + offset,
			QueueSize:   queue,
			WaitMinutes: saturate(wait),
			Arrivals:    arrivals,
			Served:      out,
		})
	}

	return result
}
