package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor разделяет ошибки бизнес-логики на коды HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrCityFromIDCard):
		return http.StatusConflict
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrUnknownCity),
		errors.Is(err, domain.ErrInvalidIDCard),
		errors.Is(err, service.ErrUnknownService),
		errors.Is(err, service.ErrUnknownCenter),
		errors.Is(err, service.ErrInvalidLoad),
		errors.Is(err, service.ErrTooManySimulations),
		errors.Is(err, engine.ErrInvalidSimulationCount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
