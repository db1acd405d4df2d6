package engine

import (
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/flow"
)

// Position — текущая позиция абитуриента в процессе.
// Пустой StepName означает, что процесс пройден целиком.
type Position struct {
	StepName string
	TaskName string
}

// Projector пересчитывает позицию и итоговый статус по графу
// и записи прогресса. Обе проекции чистые и детерминированные:
// два вызова подряд без мутации прогресса дают одинаковый результат.
type Projector struct {
	graph *flow.Graph
}

// NewProjector создаёт проектор над графом.
func NewProjector(g *flow.Graph) *Projector {
	return &Projector{graph: g}
}

// CurrentPosition находит первый непройденный шаг и первую его
// задачу, чей эффективный результат не Complete.
//
// Шаг без задач и шаг, все задачи которого скрыты для пользователя,
// оцениваются по собственной записи шага: такой шаг требует явного
// сабмита.
func (p *Projector) CurrentPosition(progress *domain.UserProgress) Position {
	for _, step := range p.graph.RootSteps() {
		tasks := p.graph.Children(step.ID)

		if len(tasks) == 0 {
			if progress.StatusOf(step.ID) != domain.StatusAccepted {
				return Position{StepName: step.Name}
			}
			continue
		}

		visible := VisibleTasks(tasks, progress)
		if len(visible) == 0 {
			if progress.StatusOf(step.ID) != domain.StatusAccepted {
				return Position{StepName: step.Name}
			}
			continue
		}

		for _, task := range visible {
			if p.EffectiveOutcome(task, tasks, progress) != domain.OutcomeComplete {
				return Position{StepName: step.Name, TaskName: task.Name}
			}
		}
	}

	return Position{}
}

// OverallStatus сворачивает весь процесс в один статус.
//
// FinalRejection любой задачи обрывает обход: отказ не привязан
// к текущей позиции, провал позднего шага отклоняет абитуриента
// даже при незавершённых ранних. Без отказов результат Accepted
// только когда завершено всё.
func (p *Projector) OverallStatus(progress *domain.UserProgress) domain.OverallStatus {
	allComplete := true

	for _, step := range p.graph.RootSteps() {
		rejected, complete := p.stepStatus(step, progress)
		if rejected {
			return domain.OverallRejected
		}
		if !complete {
			allComplete = false
		}
	}

	if allComplete {
		return domain.OverallAccepted
	}
	return domain.OverallInProgress
}

// stepStatus оценивает один шаг: (отклонён, завершён).
func (p *Projector) stepStatus(step *domain.FlowNode, progress *domain.UserProgress) (rejected, complete bool) {
	tasks := p.graph.Children(step.ID)

	if len(tasks) == 0 {
		return stepOwnStatus(step, progress)
	}

	visible := VisibleTasks(tasks, progress)
	if len(visible) == 0 {
		return stepOwnStatus(step, progress)
	}

	for _, task := range visible {
		switch p.EffectiveOutcome(task, tasks, progress) {
		case domain.OutcomeFinalRejection:
			return true, false
		case domain.OutcomeComplete:
			// к следующей задаче
		default:
			return false, false
		}
	}

	return false, true
}

func stepOwnStatus(step *domain.FlowNode, progress *domain.UserProgress) (rejected, complete bool) {
	switch progress.StatusOf(step.ID) {
	case domain.StatusRejected:
		return true, false
	case domain.StatusAccepted:
		return false, true
	default:
		return false, false
	}
}

// EffectiveOutcome — результат задачи с учётом recovery-задач.
//
// Для проваленной задачи ищется recovery-задача среди соседей
// (та, чей RequiresPreviousTaskFailedID указывает на эту задачу):
//
//   - recovery нет — FinalRejection;
//   - recovery решена — Complete при Accepted, иначе FinalRejection;
//   - recovery не решена, но видима — PendingRecovery;
//   - recovery не решена и скрыта — FinalRejection: путь
//     восстановления недостижим.
func (p *Projector) EffectiveOutcome(task *domain.FlowNode, siblings []*domain.FlowNode, progress *domain.UserProgress) domain.TaskOutcome {
	switch progress.StatusOf(task.ID) {
	case domain.StatusNotStarted:
		return domain.OutcomeNotCompleted
	case domain.StatusAccepted:
		return domain.OutcomeComplete
	}

	var recovery *domain.FlowNode
	for _, s := range siblings {
		if s.RequiresPreviousTaskFailedID == task.ID {
			recovery = s
			break
		}
	}
	if recovery == nil {
		return domain.OutcomeFinalRejection
	}

	if progress.HasStatus(recovery.ID) {
		if progress.StatusOf(recovery.ID) == domain.StatusAccepted {
			return domain.OutcomeComplete
		}
		return domain.OutcomeFinalRejection
	}

	if IsVisible(recovery, progress) {
		return domain.OutcomePendingRecovery
	}
	return domain.OutcomeFinalRejection
}

// RefreshCache пересчитывает обе проекции и перезаписывает
// кэш-поля записи прогресса. Вызывается после каждой мутации.
func (p *Projector) RefreshCache(progress *domain.UserProgress, now time.Time) {
	pos := p.CurrentPosition(progress)

	progress.CurrentStepID = 0
	progress.CurrentTaskID = 0
	if pos.StepName != "" {
		if step, err := p.graph.NodeByName(pos.StepName); err == nil {
			progress.CurrentStepID = step.ID
		}
		if pos.TaskName != "" {
			if task, err := p.graph.NodeByName(pos.TaskName); err == nil {
				progress.CurrentTaskID = task.ID
			}
		}
	}

	progress.CachedOverallStatus = p.OverallStatus(progress)
	progress.CacheUpdatedAt = now
}
