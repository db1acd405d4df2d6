package domain

// ProgressStatus — записанный статус отдельного узла (шага или задачи).
//
// Узел без записи считается NotStarted; запись появляется только
// после обработки сабмита.
type ProgressStatus string

const (
	// StatusNotStarted — узел ещё не обрабатывался.
	StatusNotStarted ProgressStatus = "NOT_STARTED"

	// StatusAccepted — узел пройден.
	StatusAccepted ProgressStatus = "ACCEPTED"

	// StatusRejected — узел провален.
	StatusRejected ProgressStatus = "REJECTED"
)

// OverallStatus — итоговый статус абитуриента по всему процессу.
type OverallStatus string

const (
	// OverallInProgress — процесс не завершён.
	OverallInProgress OverallStatus = "IN_PROGRESS"

	// OverallAccepted — все видимые шаги и задачи пройдены.
	OverallAccepted OverallStatus = "ACCEPTED"

	// OverallRejected — какая-то задача провалена без возможности
	// восстановления.
	OverallRejected OverallStatus = "REJECTED"
)

// IsTerminal возвращает true, если статус финальный.
func (s OverallStatus) IsTerminal() bool {
	switch s {
	case OverallAccepted, OverallRejected:
		return true
	default:
		return false
	}
}

// TaskOutcome — эффективный результат задачи с учётом recovery-задач.
//
// Провал задачи сам по себе ещё не означает отказ: если среди соседей
// есть recovery-задача, указывающая на неё, результат зависит от
// состояния этой recovery-задачи.
type TaskOutcome string

const (
	// OutcomeNotCompleted — задача ещё не обрабатывалась.
	OutcomeNotCompleted TaskOutcome = "NOT_COMPLETED"

	// OutcomeComplete — задача пройдена (сразу или через recovery).
	OutcomeComplete TaskOutcome = "COMPLETE"

	// OutcomePendingRecovery — задача провалена, но recovery-задача
	// доступна и ещё не использована.
	OutcomePendingRecovery TaskOutcome = "PENDING_RECOVERY"

	// OutcomeFinalRejection — задача провалена без пути восстановления.
	OutcomeFinalRejection TaskOutcome = "FINAL_REJECTION"
)
