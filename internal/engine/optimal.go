package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

var ErrNoAggregates = errors.New("no aggregated hours to choose from")

const (
	// Час, на который переносим людей, пришедших после закрытия.
	nextDayHour = 8

	minSpreadMinutes = 5
	maxSpreadMinutes = 15
)

// OffsetFunc возвращает смещение в минутах, чтобы люди не приходили ровно к началу часа.
type OffsetFunc func() int

// RandomOffset равномерно выбирает от 5 до 15 минут включительно.
func RandomOffset() int {
	return minSpreadMinutes + rand.IntN(maxSpreadMinutes-minSpreadMinutes+1)
}

// FindOptimalArrivalTime выбирает среди часов >= currentHour час с минимальным средним
// ожиданием (при равенстве берется самый ранний). Если таких часов нет, центр на сегодня
// закрыт и рекомендуется завтра 08:00.
func FindOptimalArrivalTime(aggs Aggregates, currentHour int, now time.Time, offset OffsetFunc) (Recommendation, error) {
	if len(aggs) == 0 {
		return Recommendation{}, ErrNoAggregates
	}
	if offset == nil {
		offset = RandomOffset
	}

	future := make(Aggregates, 0, len(aggs))
	for _, h := range aggs {
		if h.Hour >= currentHour {
			future = append(future, h)
		}
	}

	if len(future) == 0 {
		return closedForToday(aggs, now), nil
	}

	best := future[0]
	for _, h := range future[1:] {
		if h.AvgWait < best.AvgWait {
			best = h
		}
	}

	recommended := time.Date(now.Year(), now.Month(), now.Day(), best.Hour, 0, 0, 0, now.Location())
	if recommended.Before(now) {
		recommended = recommended.AddDate(0, 0, 1)
	}
	recommended = recommended.Add(time.Duration(offset()) * time.Minute)

	rec := fromAggregate(best)
	rec.RecommendedTime = recommended
	rec.Reason = fmt.Sprintf("lowest expected wait among %d remaining hours", len(future))
	rec.Hours = future
	return rec, nil
}

// closedForToday: после закрытия рекомендуем завтра 08:00 по агрегату этого часа.
// Если окно не содержит 08:00, берется час открытия.
func closedForToday(aggs Aggregates, now time.Time) Recommendation {
	h, ok := aggs.ByHour(nextDayHour)
	if !ok {
		h = aggs[0]
	}

	rec := fromAggregate(h)
	rec.RecommendedTime = time.Date(now.Year(), now.Month(), now.Day()+1, h.Hour, 0, 0, 0, now.Location())
	rec.ClosedToday = true
	rec.Reason = "outside working hours, come tomorrow morning"
	return rec
}

func fromAggregate(h HourAggregate) Recommendation {
	return Recommendation{
		RecommendedHour:    h.Hour,
		EstimatedWaitAvg:   int(h.AvgWait),
		EstimatedWaitRange: [2]int{int(h.MinWait), int(h.MaxWait)},
		Confidence:         h.Confidence,
		QueueSizeAvg:       int(h.AvgQueue),
		Percentile50:       int(h.Percentile50),
		Percentile95:       int(h.Percentile95),
	}
}
