package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
	"github.com/xela07ax/citizen-queue-portal/internal/infra/auth"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
)

type QueueHandler struct {
	service *service.QueueService
	logger  *zap.Logger
}

func NewQueueHandler(s *service.QueueService, logger *zap.Logger) *QueueHandler {
	return &QueueHandler{service: s, logger: logger.Named("queue-handler")}
}

func (h *QueueHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	res, err := h.service.Estimate(r.Context(), userID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *QueueHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req domain.PredictRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	res, err := h.service.Predict(r.Context(), userID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *QueueHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("queue request failed",
			zap.String("trace_id", infra.TraceIDFromContext(r.Context())),
			zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
