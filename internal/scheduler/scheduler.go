package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/engine"
	"github.com/shaiso/Enrolla/internal/flow"
	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

// Default configuration values.
const (
	defaultStaleAfter = 72 * time.Hour
	defaultBatchSize  = 100
)

// ReminderPublisher — публикация напоминаний.
// Реализуется mq.Publisher.
type ReminderPublisher interface {
	PublishReminderDue(ctx context.Context, payload mq.ReminderDuePayload) error
}

// Scheduler — планировщик напоминаний для застрявших абитуриентов.
type Scheduler struct {
	projector  *engine.Projector
	progress   repo.ProgressStore
	publisher  ReminderPublisher
	logger     *slog.Logger
	staleAfter time.Duration
	batchSize  int

	// reminded — когда абитуриенту в последний раз напоминали.
	// Защищает от повторного письма на каждом тике.
	reminded map[string]time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Graph     *flow.Graph
	Progress  repo.ProgressStore
	Publisher ReminderPublisher
	Logger    *slog.Logger

	// StaleAfter — сколько абитуриент должен бездействовать,
	// чтобы получить напоминание (default: 72h).
	StaleAfter time.Duration

	// BatchSize — количество записей за один тик (default: 100).
	BatchSize int
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	staleAfter := cfg.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		projector:  engine.NewProjector(cfg.Graph),
		progress:   cfg.Progress,
		publisher:  cfg.Publisher,
		logger:     logger,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		reminded:   make(map[string]time.Time),
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит незавершённые записи без активности дольше StaleAfter
// 2. Для каждой вычисляет текущую позицию
// 3. Публикует reminder.due
//
// Ошибки одной записи не блокируют обработку остальных.
// Tick вызывается из одной горутины; внутренняя карта reminded
// не синхронизируется.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.staleAfter)

	stale, err := s.progress.ListStale(ctx, cutoff, s.batchSize)
	if err != nil {
		return fmt.Errorf("list stale progress: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	s.logger.Debug("found stale applicants", "count", len(stale))

	var sent int
	for i := range stale {
		record := &stale[i]

		if last, ok := s.reminded[record.UserID]; ok && now.Sub(last) < s.staleAfter {
			continue
		}

		if err := s.remind(ctx, record); err != nil {
			s.logger.Error("failed to send reminder",
				"user_id", record.UserID,
				"error", err,
			)
			continue
		}

		s.reminded[record.UserID] = now
		sent++
	}

	s.logger.Info("scheduler tick completed",
		"stale", len(stale),
		"reminders_sent", sent,
	)

	return nil
}

// remind публикует напоминание для одной записи прогресса.
func (s *Scheduler) remind(ctx context.Context, record *domain.UserProgress) error {
	pos := s.projector.CurrentPosition(record)
	if pos.StepName == "" {
		// Процесс уже пройден, напоминать не о чем.
		return nil
	}

	err := s.publisher.PublishReminderDue(ctx, mq.ReminderDuePayload{
		UserID:       record.UserID,
		StepName:     pos.StepName,
		TaskName:     pos.TaskName,
		LastActivity: record.CacheUpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("publish reminder.due: %w", err)
	}

	telemetry.RemindersTotal.Inc()
	return nil
}
