package service

import (
	"context"
	"errors"
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

// ProgressEvents — публикуемые сервисом события прогресса.
// Реализуется mq.Publisher; nil отключает публикацию.
type ProgressEvents interface {
	PublishStepCompleted(ctx context.Context, payload mq.StepCompletedPayload) error
	PublishApplicantDecided(ctx context.Context, userID string, status domain.OverallStatus) error
}

// ProgressService обрабатывает сабмиты и отдаёт проекции статуса.
//
// Мутации сериализуются по user id: два конкурентных сабмита одного
// пользователя выполняются по очереди, разные пользователи — параллельно.
// Чтения пересчитывают проекции по записи прогресса заново;
// кэш-поля записи — только подсказка для внешних потребителей.
type ProgressService struct {
	graph     *flow.Graph
	projector *engine.Projector
	store     repo.ProgressStore
	events    ProgressEvents
	locks     *keyLock
	logger    *slog.Logger
}

// ProgressConfig — конфигурация для создания ProgressService.
type ProgressConfig struct {
	Graph  *flow.Graph
	Store  repo.ProgressStore
	Events ProgressEvents
	Logger *slog.Logger
}

// NewProgressService создаёт новый ProgressService.
func NewProgressService(cfg ProgressConfig) *ProgressService {
	return &ProgressService{
		graph:     cfg.Graph,
		projector: engine.NewProjector(cfg.Graph),
		store:     cfg.Store,
		events:    cfg.Events,
		locks:     newKeyLock(),
		logger:    cfg.Logger,
	}
}

// SubmissionResult — исход обработки сабмита.
type SubmissionResult struct {
	// StepName — шаг, к которому относился сабмит.
	StepName string

	// TaskName — закрытая задача; пусто для шага без задач и для no-op.
	TaskName string

	// Applied — false, если сабмит некуда было применить.
	Applied bool

	// Accepted — записанный статус узла (имеет смысл при Applied).
	Accepted bool

	// Overall — итоговый статус после обработки.
	Overall domain.OverallStatus
}

// CompleteStep обрабатывает сабмит шага.
//
// Имя шага без учёта регистра; payload определяет задачу внутри
// шага. Неразрешимый payload — молчаливый no-op: прогресс не
// меняется, ошибки нет. Неизвестное имя шага — ErrStepNotFound.
func (s *ProgressService) CompleteStep(ctx context.Context, userID, stepName string, payload domain.Payload) (*SubmissionResult, error) {
	step, err := s.graph.NodeByName(stepName)
	if err != nil || !step.IsStep() {
		return nil, fmt.Errorf("step %q: %w", stepName, ErrStepNotFound)
	}

	logger := telemetry.WithStep(telemetry.WithUserID(s.logger, userID), step.Name)

	unlock := s.locks.Lock(userID)
	defer unlock()

	progress, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	wasTerminal := s.projector.OverallStatus(progress).IsTerminal()

	tasks := s.graph.Children(step.ID)
	target := step
	if len(tasks) > 0 {
		target = engine.ResolveTask(tasks, payload, progress)
		if target == nil {
			logger.Info("submission matched no task, ignoring")
			return &SubmissionResult{
				StepName: step.Name,
				Applied:  false,
				Overall:  s.projector.OverallStatus(progress),
			}, nil
		}
	}

	now := time.Now().UTC()
	engine.ApplyOutcome(tasks, step, target, payload, progress, now)
	s.projector.RefreshCache(progress, now)

	if err := s.store.Save(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	accepted := progress.StatusOf(target.ID) == domain.StatusAccepted
	overall := progress.CachedOverallStatus

	result := &SubmissionResult{
		StepName: step.Name,
		Applied:  true,
		Accepted: accepted,
		Overall:  overall,
	}
	if target.IsTask() {
		result.TaskName = target.Name
	}

	telemetry.SubmissionsTotal.WithLabelValues(step.Name, string(progress.StatusOf(target.ID))).Inc()

	logger.Info("submission applied",
		"task", result.TaskName,
		"accepted", accepted,
		"overall", overall,
	)

	s.publishEvents(ctx, logger, result, userID, wasTerminal)

	return result, nil
}

// publishEvents отправляет события об обработанном сабмите.
// Ошибки брокера логируются и не роняют сабмит: прогресс уже сохранён.
func (s *ProgressService) publishEvents(ctx context.Context, logger *slog.Logger, result *SubmissionResult, userID string, wasTerminal bool) {
	if s.events == nil {
		return
	}

	err := s.events.PublishStepCompleted(ctx, mq.StepCompletedPayload{
		UserID:        userID,
		StepName:      result.StepName,
		TaskName:      result.TaskName,
		Accepted:      result.Accepted,
		OverallStatus: result.Overall,
	})
	if err != nil {
		logger.Warn("publish step.completed failed", "error", err)
	}

	if result.Overall.IsTerminal() && !wasTerminal {
		telemetry.DecisionsTotal.WithLabelValues(string(result.Overall)).Inc()
		if err := s.events.PublishApplicantDecided(ctx, userID, result.Overall); err != nil {
			logger.Warn("publish applicant.decided failed", "error", err)
		}
	}
}

// CurrentPosition возвращает текущую позицию абитуриента.
// Для пользователя без записи — начало процесса.
func (s *ProgressService) CurrentPosition(ctx context.Context, userID string) (engine.Position, error) {
	progress, err := s.loadOrFresh(ctx, userID)
	if err != nil {
		return engine.Position{}, err
	}
	return s.projector.CurrentPosition(progress), nil
}

// OverallStatus возвращает итоговый статус абитуриента,
// пересчитанный по записи прогресса. Пользователь без записи —
// InProgress; запись при этом не создаётся.
func (s *ProgressService) OverallStatus(ctx context.Context, userID string) (domain.OverallStatus, error) {
	progress, err := s.loadOrFresh(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.projector.OverallStatus(progress), nil
}

// StepView — шаг процесса с видимыми задачами.
type StepView struct {
	ID     int
	Name   string
	Status domain.ProgressStatus
	Tasks  []TaskView
}

// TaskView — задача внутри шага.
type TaskView struct {
	ID     int
	Name   string
	Status domain.ProgressStatus
}

// VisibleFlow возвращает шаги процесса по порядку, каждый — со
// своими видимыми для пользователя задачами. Пустой userID даёт
// вид процесса для нового пользователя. Чтение не мутирует прогресс.
func (s *ProgressService) VisibleFlow(ctx context.Context, userID string) ([]StepView, error) {
	progress := domain.NewUserProgress(userID)
	if userID != "" {
		var err error
		progress, err = s.loadOrFresh(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	steps := make([]StepView, 0, len(s.graph.RootSteps()))
	for _, step := range s.graph.RootSteps() {
		view := StepView{
			ID:     step.ID,
			Name:   step.Name,
			Status: progress.StatusOf(step.ID),
		}
		for _, task := range engine.VisibleTasks(s.graph.Children(step.ID), progress) {
			view.Tasks = append(view.Tasks, TaskView{
				ID:     task.ID,
				Name:   task.Name,
				Status: progress.StatusOf(task.ID),
			})
		}
		steps = append(steps, view)
	}
	return steps, nil
}

// loadOrFresh читает запись прогресса, подставляя пустую для
// пользователя без записи.
func (s *ProgressService) loadOrFresh(ctx context.Context, userID string) (*domain.UserProgress, error) {
	progress, err := s.store.Get(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.NewUserProgress(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return progress, nil
}
