package engine

import "github.com/shaiso/Enrolla/internal/domain"

// ResolveTask определяет, какую задачу шага закрывает сабмит.
//
// tasks — задачи шага, отсортированные по Order по возрастанию
// (в таком виде их отдаёт flow.Graph.Children).
//
// Алгоритм:
//
//  1. Единственная задача забирает любой payload.
//  2. Иначе по порядку ищется первая задача, которая допустима
//     (recovery-задача допустима только после провала целевой)
//     и совпадает с payload (есть хотя бы один из её
//     payload-идентификаторов) и ещё не имеет записанного статуса.
//  3. Если совпадений нет — первая задача без записанного статуса.
//  4. Если решены все — nil: сабмит некуда применить, вызывающая
//     сторона трактует это как no-op.
func ResolveTask(tasks []*domain.FlowNode, payload domain.Payload, progress *domain.UserProgress) *domain.FlowNode {
	if len(tasks) == 1 {
		return tasks[0]
	}

	for _, task := range tasks {
		if !isEligible(task, progress) {
			continue
		}
		if matchesPayload(task, payload) && !progress.HasStatus(task.ID) {
			return task
		}
	}

	for _, task := range tasks {
		if !progress.HasStatus(task.ID) {
			return task
		}
	}

	return nil
}

// isEligible проверяет допустимость задачи: recovery-задача
// допустима только когда целевая задача провалена.
func isEligible(task *domain.FlowNode, progress *domain.UserProgress) bool {
	if task.RequiresPreviousTaskFailedID == 0 {
		return true
	}
	return progress.StatusOf(task.RequiresPreviousTaskFailedID) == domain.StatusRejected
}

// matchesPayload: payload содержит хотя бы один идентификатор задачи.
func matchesPayload(task *domain.FlowNode, payload domain.Payload) bool {
	for _, key := range task.PayloadIdentifiers {
		if payload.Has(key) {
			return true
		}
	}
	return false
}
