package flow

import "errors"

// Ошибки валидации графа.
var (
	// ErrNoSteps — граф не содержит ни одного шага.
	ErrNoSteps = errors.New("flow has no steps")

	// ErrEmptyNodeName — узел без имени.
	ErrEmptyNodeName = errors.New("node has empty name")

	// ErrDuplicateNodeID — несколько узлов с одним ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateNodeName — несколько узлов с одним именем
	// (имена сравниваются без учёта регистра).
	ErrDuplicateNodeName = errors.New("duplicate node name")

	// ErrUnknownParent — задача ссылается на несуществующий шаг.
	ErrUnknownParent = errors.New("task references unknown parent step")

	// ErrTaskParent — родитель задачи не является шагом.
	ErrTaskParent = errors.New("task parent is not a step")

	// ErrStepWithParent — у шага не может быть родителя.
	ErrStepWithParent = errors.New("step must not have a parent")

	// ErrUnknownRecoveryTarget — recovery-задача ссылается на
	// несуществующую или чужую задачу.
	ErrUnknownRecoveryTarget = errors.New("recovery task references unknown sibling task")
)

// ErrNodeNotFound — узел не найден при поиске по ID или имени.
var ErrNodeNotFound = errors.New("flow node not found")

// ValidationError — ошибка валидации с контекстом узла.
type ValidationError struct {
	NodeID  int    // ID узла, где произошла ошибка
	Message string // описание
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(nodeID int, message string, err error) *ValidationError {
	return &ValidationError{NodeID: nodeID, Message: message, Err: err}
}
