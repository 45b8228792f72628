package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/xela07ax/citizen-queue-portal/internal/cache"
	"github.com/xela07ax/citizen-queue-portal/internal/domain"
	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/history"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
	"github.com/xela07ax/citizen-queue-portal/internal/infra/auth"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/handler"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/server"
	"github.com/xela07ax/citizen-queue-portal/internal/portal/service"
	"github.com/xela07ax/citizen-queue-portal/internal/repository/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml or ./configs/config.yaml)")
	flag.Parse()

	cfg, err := infra.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("portal stopped with error", zap.Error(err))
	}
}

func run(cfg *infra.Config, logger *zap.Logger) error {
	// Контекст жизненного цикла: SIGINT/SIGTERM отменяет его
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := engine.NewMetrics(reg)

	// 2. Postgres
	pool, err := postgres.Connect(ctx, cfg.Database, logger.Named("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}
	users := postgres.NewUserRepo(pool)
	queries := postgres.NewQueryRepo(pool, cfg.Server.Timezone)

	// Слоты и окна работы считаются в поясе отделений, а не хоста
	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}
	clock := func() time.Time { return time.Now().In(loc) }

	// 3. История запросов: Postgres + опционально Kafka
	sinks := []history.Sink{queries}
	if cfg.Kafka.Enabled() {
		kafkaSink := history.NewKafkaSink(history.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
		logger.Info("query events mirrored to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	recorder := history.NewRecorder(logger, sinks)
	recorder.Start()
	defer recorder.Stop()

	// 4. Ядро: Monte-Carlo симулятор и предиктор (+ кэш агрегатов в Redis)
	exec := engine.NewPoolExecutor(cfg.Simulation.Workers)
	sim := engine.NewSimulator(exec, cfg.Simulation.Bands, metrics, logger)
	predictorOpts := []engine.PredictorOption{engine.WithMetrics(metrics), engine.WithClock(clock)}
	var locker cache.Locker

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Кэш не обязателен: предохранитель пропустит Redis, пока тот недоступен
			logger.Warn("redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		aggCache := cache.NewAggregateCache(rdb, cfg.Simulation.CacheTTL, cfg.Redis, metrics, logger)
		predictorOpts = append(predictorOpts, engine.WithCache(aggCache))
		locker = rdb
	}
	predictor := engine.NewPredictor(sim, logger, predictorOpts...)

	// Прогрев кэша профилем по умолчанию для всех окон работы отделений
	if locker != nil {
		windows := make([]engine.WorkingWindow, 0, 4)
		for _, hours := range domain.WorkingHoursSet() {
			windows = append(windows, predictor.ResolveWindow(hours))
		}
		go func() {
			if _, err := cache.Warmup(ctx, locker, predictor, logger, cfg.Simulation.DefaultRate(), windows, cfg.Simulation.NumSimulations); err != nil {
				logger.Warn("warm-up interrupted", zap.Error(err))
			}
		}()
	}
	logger.Info("simulator ready",
		zap.Int("workers", exec.Workers()),
		zap.Int("default_simulations", cfg.Simulation.NumSimulations))

	// 5. Ключи RS256
	privateKey, err := auth.ParseRSAPrivateKey(cfg.Auth.PrivateKey)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	publicKey, err := auth.ParseRSAPublicKey(cfg.Auth.PublicKey)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	// 6. Слои (Dependency Injection)
	authSvc := service.NewAuthService(users, privateKey, service.AuthSettings{
		Issuer:     cfg.Auth.Issuer,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger)
	queueSvc := service.NewQueueService(predictor, recorder, cfg.Simulation, logger).WithClock(clock)

	api := server.NewPortalServer(logger,
		auth.NewBaseValidator(publicKey, cfg.Auth.Issuer),
		rate.NewLimiter(rate.Limit(cfg.Simulation.RateLimit), cfg.Simulation.RateBurst),
		server.Handlers{
			Auth:    handler.NewAuthHandler(authSvc, logger),
			Profile: handler.NewProfileHandler(service.NewProfileService(users), logger),
			Queue:   handler.NewQueueHandler(queueSvc, logger),
			History: handler.NewHistoryHandler(service.NewHistoryService(queries), logger),
		})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.Addr,
		Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}

	// 7. gRPC health
	grpcSrv, healthSrv := server.NewHealthServer()
	if cfg.GRPC.Port > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("failed to listen gRPC: %w", err)
		}
		go func() {
			logger.Info("gRPC health server started", zap.Int("port", cfg.GRPC.Port))
			if err := grpcSrv.Serve(lis); err != nil {
				logger.Error("gRPC server failed", zap.Error(err))
			}
		}()
	}

	// 8. Запуск
	errCh := make(chan error, 2)
	go func() {
		logger.Info("portal API started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics endpoint started", zap.String("addr", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics: %w", err)
		}
	}()
	healthSrv.SetServingStatus(server.PortalServiceName, healthpb.HealthCheckResponse_SERVING)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	// 9. Graceful Shutdown: сначала health, потом HTTP; recorder допишет историю в defer
	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}
	grpcSrv.GracefulStop()
	logger.Info("portal exited properly")

	return runErr
}
