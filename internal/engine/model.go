package engine

import "time"

// ServiceRate — профиль нагрузки одного окошка (шалтера) на момент запроса.
type ServiceRate struct {
	ArrivalRatePerHour float64 `json:"arrival_rate_per_hour"` // λ
	ServiceRatePerHour float64 `json:"service_rate_per_hour"` // μ
	CurrentQueue       int     `json:"current_queue"`
}

// WorkingWindow задает симулируемый рабочий день: часы [StartHour, EndHour).
type WorkingWindow struct {
	StartHour int `json:"start_hour"`
	EndHour   int `json:"end_hour"`
}

// DefaultWindow используется при любой ошибке разбора часов работы.
var DefaultWindow = WorkingWindow{StartHour: 8, EndHour: 15}

// Hours возвращает количество симулируемых часов.
func (w WorkingWindow) Hours() int {
	return w.EndHour - w.StartHour
}

// Valid проверяет границы суток и минимальную длину окна в один час.
func (w WorkingWindow) Valid() bool {
	return w.StartHour >= 0 && w.EndHour <= 23 && w.StartHour < w.EndHour
}

// HourOutcome — состояние очереди в конкретный час одного сценария.
type HourOutcome struct {
	Hour        int `json:"hour"`
	QueueSize   int `json:"queue_size"`
	WaitMinutes int `json:"wait_minutes"`
	Arrivals    int `json:"arrivals"`
	Served      int `json:"served"`
}

// ScenarioResult: траектория одного сценария, упорядоченная по часам.
type ScenarioResult []HourOutcome

// At возвращает исход для часа hour, если сценарий его содержит.
func (r ScenarioResult) At(hour int) (HourOutcome, bool) {
	if len(r) == 0 {
		return HourOutcome{}, false
	}
	i := hour - r[0].Hour
	if i < 0 || i >= len(r) || r[i].Hour != hour {
		return HourOutcome{}, false
	}
	return r[i], true
}

// HourAggregate — статистика по всем сценариям для одного часа.
type HourAggregate struct {
	Hour         int     `json:"hour"`
	AvgWait      float64 `json:"avg_wait"`
	MinWait      float64 `json:"min_wait"`
	MaxWait      float64 `json:"max_wait"`
	StdWait      float64 `json:"std_wait"`
	Percentile50 float64 `json:"percentile_50"`
	Percentile75 float64 `json:"percentile_75"`
	Percentile95 float64 `json:"percentile_95"`
	AvgQueue     float64 `json:"avg_queue"`
	Confidence   int     `json:"confidence"`
}

// Aggregates упорядочены по возрастанию часа.
type Aggregates []HourAggregate

// ByHour ищет агрегат конкретного часа.
func (a Aggregates) ByHour(hour int) (HourAggregate, bool) {
	for _, h := range a {
		if h.Hour == hour {
			return h, true
		}
	}
	return HourAggregate{}, false
}

// Recommendation - итоговая рекомендация времени прихода. Ядро ее не сохраняет.
type Recommendation struct {
	RecommendedHour    int        `json:"recommended_hour"`
	RecommendedTime    time.Time  `json:"recommended_time"`
	EstimatedWaitAvg   int        `json:"estimated_wait_avg"`
	EstimatedWaitRange [2]int     `json:"estimated_wait_range"`
	Confidence         int        `json:"confidence"`
	QueueSizeAvg       int        `json:"queue_size_avg"`
	Percentile50       int        `json:"percentile_50"`
	Percentile95       int        `json:"percentile_95"`
	ClosedToday        bool       `json:"closed_today"`
	Reason             string     `json:"reason"`
	Hours              Aggregates `json:"hours,omitempty"` // все оставшиеся часы для отображения вариантов
}
