package engine

import (
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
)

// ApplyOutcome применяет результат сабмита к записи прогресса.
//
// Порядок фиксированный:
//
//  1. Pass-условие узла вычисляется над payload.
//  2. Derived facts извлекаются из payload (перезаписывая прежние
//     значения с теми же именами) — ДО записи статуса, чтобы шаг
//     ниже видел актуальные факты при проверке видимости.
//  3. Узел получает статус Accepted либо Rejected.
//  4. Для задачи делается попытка закрыть родительский шаг.
//
// Мутируется только переданный progress; сохранение — забота
// вызывающей стороны.
func ApplyOutcome(tasks []*domain.FlowNode, step, node *domain.FlowNode, payload domain.Payload, progress *domain.UserProgress, now time.Time) {
	passed := EvaluatePass(node.Pass, payload)

	storeDerivedFacts(node, payload, progress)

	status := domain.StatusRejected
	if passed {
		status = domain.StatusAccepted
	}
	progress.SetStatus(node.ID, status, now)

	if node.IsTask() {
		tryCompleteStep(tasks, step, progress, now)
	}
}

// storeDerivedFacts копирует замапленные поля payload в факты.
func storeDerivedFacts(node *domain.FlowNode, payload domain.Payload, progress *domain.UserProgress) {
	for _, m := range node.DerivedFacts {
		if value, ok := payload[m.SourceField]; ok {
			progress.DerivedFacts[m.TargetFact] = value
		}
	}
}

// tryCompleteStep закрывает шаг, когда все его видимые задачи
// получили статусы: Accepted, если приняты все, иначе Rejected.
// Пока хотя бы одна видимая задача не решена, шаг остаётся без
// записи (или с прежней).
func tryCompleteStep(tasks []*domain.FlowNode, step *domain.FlowNode, progress *domain.UserProgress, now time.Time) {
	visible := VisibleTasks(tasks, progress)

	for _, t := range visible {
		if !progress.HasStatus(t.ID) {
			return
		}
	}

	allAccepted := true
	for _, t := range visible {
		if progress.StatusOf(t.ID) != domain.StatusAccepted {
			allAccepted = false
			break
		}
	}

	status := domain.StatusRejected
	if allAccepted {
		status = domain.StatusAccepted
	}
	progress.SetStatus(step.ID, status, now)
}
