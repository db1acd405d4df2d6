// Enrolla Scheduler — напоминания застрявшим абитуриентам.
//
// Scheduler по cron-расписанию находит незавершённые записи
// прогресса без недавней активности и публикует reminder.due.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Enrolla/internal/flow"
	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/scheduler"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

const schedLockKey int64 = 271828

// Раз в час.
const defaultCron = "0 * * * *"

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger("enrolla-scheduler")
	logger.Info("starting enrolla-scheduler")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cronExpr := os.Getenv("REMINDER_CRON")
	if cronExpr == "" {
		cronExpr = defaultCron
	}
	if err := scheduler.ValidateCronExpr(cronExpr); err != nil {
		logger.Error("invalid REMINDER_CRON", "error", err)
		os.Exit(1)
	}

	staleAfter := 72 * time.Hour
	if v := os.Getenv("REMINDER_AFTER"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("invalid REMINDER_AFTER", "error", err)
			os.Exit(1)
		}
		staleAfter = d
	}

	// Граф процесса для вычисления позиций
	graph := flow.Load(logger)

	// Хранилище прогресса
	var progressStore repo.ProgressStore
	var pool *pgxpool.Pool
	if os.Getenv("DB_URL") != "" {
		var err error
		pool, err = repo.NewPool(ctx)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		progressStore = repo.NewProgressRepo(pool)
	} else {
		logger.Warn("DB_URL not set, using in-memory progress store")
		progressStore = repo.NewMemoryProgressStore()
	}

	// RabbitMQ обязателен: scheduler только публикует события
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

	sched := scheduler.New(scheduler.Config{
		Graph:      graph,
		Progress:   progressStore,
		Publisher:  mq.NewPublisher(mqConn, logger),
		Logger:     logger,
		StaleAfter: staleAfter,
	})

	// scheduler loop
	go func() {
		var hasLock bool
		defer func() {
			if hasLock && pool != nil {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
			}
		}()

		for {
			next, err := scheduler.NextRun(cronExpr, time.Now())
			if err != nil {
				logger.Error("cron parse failed", "error", err)
				return
			}

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			// При нескольких экземплярах тикает только лидер
			// (advisory lock); без БД лидерства нет.
			if pool != nil && !hasLock {
				var ok bool
				if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&ok); err != nil {
					logger.Error("advisory lock failed", "error", err)
					continue
				}
				hasLock = ok
			}
			if pool != nil && !hasLock {
				continue
			}

			if err := sched.Tick(ctx); err != nil {
				logger.Error("scheduler tick failed", "error", err)
			}
		}
	}()

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("enrolla-scheduler stopped")
}
