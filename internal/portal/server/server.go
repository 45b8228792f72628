package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xela07ax/citizen-queue-portal/internal/infra/auth"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/handler"
)

// Handlers — обработчики бизнес-доменов портала
type Handlers struct {
	Auth    *handler.AuthHandler    // /auth/*
	Profile *handler.ProfileHandler // /v1/me
	Queue   *handler.QueueHandler   // /v1/queue
	History *handler.HistoryHandler // /v1/queries, /v1/stats
}

type PortalServer struct {
	router *chi.Mux
	logger *zap.Logger

	// Проверка токенов (RS256)
	validator auth.TokenValidator
	// Лимитер Monte-Carlo прогонов
	predictLimiter *rate.Limiter

	h Handlers
}

func NewPortalServer(logger *zap.Logger, validator auth.TokenValidator, predictLimiter *rate.Limiter, h Handlers) *PortalServer {
	s := &PortalServer{
		router:         chi.NewRouter(),
		logger:         logger.Named("portal-api"),
		validator:      validator,
		predictLimiter: predictLimiter,
		h:              h,
	}

	s.routes()
	return s
}

func (s *PortalServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware ---
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Group(func(r chi.Router) {
		r.Post("/auth/register", s.h.Auth.Register)
		r.Post("/auth/token", s.h.Auth.Login)

		r.Get("/v1/centers", handler.Centers)
		r.Get("/v1/municipalities", handler.Municipalities)
		r.Get("/v1/services", handler.Services)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.validator, s.logger))

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", s.h.Profile.Me)
			r.Put("/city", s.h.Profile.SetCity)
			r.Get("/centers", s.h.Profile.MyCenters)
		})

		r.Route("/v1/queue", func(r chi.Router) {
			r.Post("/estimate", s.h.Queue.Estimate)
			// Monte-Carlo под лимитером
			r.With(RateLimit(s.predictLimiter, s.logger)).Post("/predict", s.h.Queue.Predict)
		})

		r.Get("/v1/queries", s.h.History.List)
		r.Get("/v1/stats/services", s.h.History.ServiceStats)
		r.Get("/v1/stats/hours", s.h.History.PeakHours)
	})
}

// ServeHTTP позволяет использовать PortalServer как стандартный http.Handler
func (s *PortalServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
