package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/infra/auth"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
)

type HistoryHandler struct {
	service *service.HistoryService
	logger  *zap.Logger
}

func NewHistoryHandler(s *service.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{service: s, logger: logger.Named("history-handler")}
}

// List GET /v1/queries?limit=
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	records, err := h.service.List(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list queries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *HistoryHandler) ServiceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ServiceStats(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate services", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *HistoryHandler) PeakHours(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.PeakHours(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate hours", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
