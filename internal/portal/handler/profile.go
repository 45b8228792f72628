package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/infra/auth"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
)

type ProfileHandler struct {
	service *service.ProfileService
	logger  *zap.Logger
}

func NewProfileHandler(s *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{service: s, logger: logger.Named("profile-handler")}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *ProfileHandler) SetCity(w http.ResponseWriter, r *http.Request) {
	var req domain.CityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	user, err := h.service.SetCity(r.Context(), userID, req.City)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// MyCenters GET /v1/me/centers
func (h *ProfileHandler) MyCenters(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	centers, err := h.service.CentersFor(r.Context(), userID, "")
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, withLinks(centers))
}

func (h *ProfileHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("profile request failed", zap.Error(err))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
