package domain

// NodeRole — роль узла в графе admission-процесса.
type NodeRole string

const (
	// RoleStep — шаг верхнего уровня (например, "Interview").
	RoleStep NodeRole = "STEP"

	// RoleTask — задача внутри шага (например, "Perform interview").
	RoleTask NodeRole = "TASK"
)

// FlowNode — узел графа: шаг или задача.
//
// Граф строго двухуровневый: шаги — корни, задачи — их дети.
// У задачи всегда есть ParentID, у шага — никогда.
type FlowNode struct {
	// ID — уникальный числовой идентификатор узла.
	ID int `json:"id"`

	// Name — человекочитаемое имя. Используется как бизнес-ключ
	// (поиск по имени регистронезависимый), уникально в пределах графа.
	Name string `json:"name"`

	// Role — шаг или задача.
	Role NodeRole `json:"role"`

	// ParentID — ссылка на родительский шаг (0 для шагов).
	ParentID int `json:"parent_id,omitempty"`

	// Order — порядок среди соседей, по возрастанию.
	Order int `json:"order"`

	// Visibility — условие видимости задачи для пользователя.
	// Вычисляется по накопленным derived facts. nil = всегда видима.
	Visibility Condition `json:"-"`

	// Pass — условие прохождения. Вычисляется по payload сабмита.
	// nil = любой сабмит засчитывается.
	Pass Condition `json:"-"`

	// PayloadIdentifiers — имена полей payload, по которым резолвер
	// понимает, что сабмит адресован именно этой задаче.
	PayloadIdentifiers []string `json:"payload_identifiers,omitempty"`

	// RequiresPreviousTaskFailedID — если не 0, задача является
	// recovery-задачей: она доступна только когда указанная задача
	// получила статус Rejected (вторая попытка).
	RequiresPreviousTaskFailedID int `json:"requires_previous_task_failed_id,omitempty"`

	// DerivedFacts — маппинги payload-поле → имя факта, сохраняемые
	// при обработке сабмита для последующих условий видимости.
	DerivedFacts []DerivedFactMapping `json:"derived_facts,omitempty"`
}

// DerivedFactMapping — правило извлечения факта из payload.
type DerivedFactMapping struct {
	// SourceField — имя поля в payload.
	SourceField string `json:"source_field"`

	// TargetFact — имя, под которым значение сохраняется в DerivedFacts.
	TargetFact string `json:"target_fact"`
}

// IsStep возвращает true для шага верхнего уровня.
func (n *FlowNode) IsStep() bool {
	return n.Role == RoleStep
}

// IsTask возвращает true для задачи.
func (n *FlowNode) IsTask() bool {
	return n.Role == RoleTask
}
