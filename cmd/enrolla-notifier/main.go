// Enrolla Notifier — отправляет письма абитуриентам.
//
// Notifier:
//   - Получает события из RabbitMQ (mail.users, mail.progress)
//   - Резолвит email получателя через хранилище пользователей
//   - Отправляет письма через Mailer
//
// Несколько экземпляров могут потреблять из одних очередей.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/notifier"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("enrolla-notifier")
	logger.Info("starting enrolla-notifier")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилище пользователей для резолва получателей
	var userStore repo.UserStore
	if os.Getenv("DB_URL") != "" {
		pool, err := repo.NewPool(ctx)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		userStore = repo.NewUserRepo(pool)
	} else {
		logger.Warn("DB_URL not set, using in-memory user store")
		userStore = repo.NewMemoryUserStore()
	}

	// RabbitMQ обязателен: без брокера notifier бесполезен
	mqConn, err := mq.NewConnection(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Warn("failed to setup topology", "error", err)
	}

	// Создаём notifier с log-mailer
	n := notifier.New(notifier.Config{
		Users:  userStore,
		Mailer: notifier.NewLogMailer(logger),
		Conn:   mqConn,
		Logger: logger,
	})

	if err := n.Start(ctx); err != nil {
		logger.Error("failed to start notifier", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("NOTIFIER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	n.Stop()
	logger.Info("enrolla-notifier stopped")
}
