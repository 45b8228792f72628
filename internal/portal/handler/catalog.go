package handler

import (
	"net/http"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

type centerView struct {
	domain.Center
	MapsURL string `json:"maps_url"`
}

func withLinks(centers []domain.Center) []centerView {
	out := make([]centerView, len(centers))
	for i, c := range centers {
		out[i] = centerView{Center: c, MapsURL: c.MapsURL()}
	}
	return out
}

// Centers GET /v1/centers?city=: фильтр по городу, город без отделений дает весь список.
func Centers(w http.ResponseWriter, r *http.Request) {
	centers := domain.CentersByCity(r.URL.Query().Get("city"))
	if len(centers) == 0 {
		centers = domain.Centers()
	}
	writeJSON(w, http.StatusOK, withLinks(centers))
}

func Municipalities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Municipalities())
}

func Services(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Services())
}
