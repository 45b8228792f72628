package engine

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	minUtilization = 0.1
	maxUtilization = 0.95
	// Нижняя граница для (μ - λ): спрос ≈ мощности не должен давать бесконечное ожидание.
	minCapacityGap = 0.05
	jitterShare    = 0.2
	minWaitMinutes = 3
	slotMinutes    = 10

	// Потолок для счетчиков и минут: огромные входы насыщаются, а не переполняют int.
	maxCount = math.MaxInt32
)

// saturate переводит float в int, зажимая в [0, maxCount]. NaN дает 0.
func saturate(x float64) int {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= maxCount:
		return maxCount
	}
	return int(x)
}

// Utilization возвращает ρ = λ/μ, зажатую в [0.1, 0.95].
// При μ <= 0 считается 0.95.
func Utilization(arrivalPerHour, servicePerHour float64) float64 {
	lam := arrivalPerHour / 60.0
	mu := servicePerHour / 60.0

	rho := maxUtilization
	if mu > 0 {
		rho = lam / mu
	}
	return math.Min(math.Max(rho, minUtilization), maxUtilization)
}

// EstimateWaitMinutes приближает ожидание в духе M/M/1 с джиттером ±20%.
// Результат не меньше трех минут; ошибок нет, вырожденные входы гасятся ограничителями.
func EstimateWaitMinutes(arrivalPerHour, servicePerHour float64, currentQueue int) int {
	return estimateWait(arrivalPerHour, servicePerHour, currentQueue, rand.Float64)
}

func estimateWait(arrivalPerHour, servicePerHour float64, currentQueue int, uniform func() float64) int {
	lam := arrivalPerHour / 60.0
	mu := servicePerHour / 60.0

	denom := math.Max(mu-lam, minCapacityGap)
	base := float64(currentQueue) / denom
	jitter := (uniform()*2*jitterShare - jitterShare) * base

	est := saturate(base + jitter)
	if est < minWaitMinutes {
		return minWaitMinutes
	}
	return est
}

// NextBestSlot прибавляет оценку к now и округляет вперед до ближайших 10 минут.
// Секунды и доли секунды обнуляются.
func NextBestSlot(now time.Time, estimatedMinutes int) time.Time {
	start := now.Add(time.Duration(estimatedMinutes) * time.Minute)
	if rem := start.Minute() % slotMinutes; rem != 0 {
		start = start.Add(time.Duration(slotMinutes-rem) * time.Minute)
	}
	return time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), start.Minute(), 0, 0, start.Location())
}

// FitToWindow переносит слот на начало следующего рабочего дня,
// если он выпадает за пределы окна.
func FitToWindow(slot time.Time, w WorkingWindow) time.Time {
	open := time.Date(slot.Year(), slot.Month(), slot.Day(), w.StartHour, 0, 0, 0, slot.Location())
	closeAt := time.Date(slot.Year(), slot.Month(), slot.Day(), w.EndHour, 0, 0, 0, slot.Location())

	if slot.Before(open) || slot.After(closeAt) {
		return open.AddDate(0, 0, 1)
	}
	return slot
}
