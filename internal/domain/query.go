package domain

import "time"

// QueryKind — какой расчет запрашивал пользователь.
type QueryKind string

const (
	QueryKindEstimate QueryKind = "estimate"
	QueryKindPredict  QueryKind = "predict"
)

// QueryRecord — запись истории запросов пользователя.
type QueryRecord struct {
	ID            string     `json:"id"`
	TraceID       string     `json:"trace_id"`
	UserID        string     `json:"user_id"`
	Service       string     `json:"service"`
	Kind          QueryKind  `json:"kind"`
	Query         string     `json:"query,omitempty"`
	WaitMinutes   int        `json:"wait_minutes"`
	RecommendedAt *time.Time `json:"recommended_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ServiceStat: сколько раз спрашивали про услугу.
type ServiceStat struct {
	Service string `json:"service"`
	Count   int64  `json:"count"`
}

// HourStat: активность пользователей по часам суток.
type HourStat struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}
