// Enrolla API — HTTP-сервер admission-процесса.
//
// API:
//   - Регистрирует абитуриентов
//   - Отдаёт процесс и его видимые задачи
//   - Принимает сабмиты шагов
//   - Отдаёт позицию и итоговый статус
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Enrolla/internal/api"
	"github.com/shaiso/Enrolla/internal/flow"
	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/service"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

var startTime = time.Now()

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("enrolla-api")
	logger.Info("starting enrolla-api")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Граф процесса: внешний конфиг либо встроенный fallback
	graph := flow.Load(logger)
	logger.Info("flow graph loaded", "nodes", graph.Size())

	// Хранилища: Postgres при заданном DB_URL, иначе in-memory
	var progressStore repo.ProgressStore
	var userStore repo.UserStore
	if os.Getenv("DB_URL") != "" {
		pool, err := repo.NewPool(ctx)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := repo.Migrate(ctx, pool); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")

		progressStore = repo.NewProgressRepo(pool)
		userStore = repo.NewUserRepo(pool)
	} else {
		logger.Warn("DB_URL not set, using in-memory stores")
		progressStore = repo.NewMemoryProgressStore()
		userStore = repo.NewMemoryUserStore()
	}

	// RabbitMQ: без брокера события просто не публикуются
	var publisher *mq.Publisher
	mqConn, err := mq.NewConnection(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, events disabled", "error", err)
	} else {
		defer mqConn.Close()
		logger.Info("RabbitMQ connected")

		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}

		publisher = mq.NewPublisher(mqConn, logger)
	}

	// Сервисы
	var progressEvents service.ProgressEvents
	var userEvents service.UserEvents
	if publisher != nil {
		progressEvents = publisher
		userEvents = publisher
	}

	progressService := service.NewProgressService(service.ProgressConfig{
		Graph:  graph,
		Store:  progressStore,
		Events: progressEvents,
		Logger: logger,
	})
	userService := service.NewUserService(service.UserConfig{
		Store:  userStore,
		Events: userEvents,
		Logger: logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Users:    userService,
		Progress: progressService,
		Logger:   logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
