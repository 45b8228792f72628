package domain

// EstimateRequest — быстрая аналитическая оценка ожидания.
// Незаполненные поля нагрузки берутся из профиля по умолчанию,
// часы работы берутся из отделения, если задан center_id.
type EstimateRequest struct {
	Service      string   `json:"service"`
	Query        string   `json:"query,omitempty"` // свободный текст, если услуга не указана
	CenterID     int      `json:"center_id,omitempty"`
	ArrivalRate  *float64 `json:"arrival_rate,omitempty"`
	ServiceRate  *float64 `json:"service_rate,omitempty"`
	CurrentQueue *int     `json:"current_queue,omitempty"`
}

// PredictRequest — Monte-Carlo рекомендация времени прихода.
// working_hours используется, только если center_id не задан.
type PredictRequest struct {
	EstimateRequest
	WorkingHours   string `json:"working_hours,omitempty"`
	NumSimulations int    `json:"num_simulations,omitempty"`
}
