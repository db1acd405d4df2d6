package domain

// Condition — условие над payload или derived facts.
//
// Закрытый набор вариантов вместо строкового type-switch:
// неизвестный тип условия в конфигурации превращается в явный
// вариант Always на этапе загрузки, а не в молчаливый default.
//
// Варианты для pass-условий: ScoreThreshold, DecisionEquals.
// Варианты для visibility-условий: ScoreRange, FactEquals.
// Always подходит для обоих.
type Condition interface {
	isCondition()
}

// Always — условие, которое всегда истинно.
// Явная замена отсутствующего или нераспознанного условия.
type Always struct{}

// ScoreThreshold — pass-условие: payload[Field] численно И строго
// больше Threshold.
type ScoreThreshold struct {
	Field     string
	Threshold float64
}

// DecisionEquals — pass-условие: payload[Field] строково равно
// Expected без учёта регистра.
type DecisionEquals struct {
	Field    string
	Expected string
}

// ScoreRange — visibility-условие: derived fact с именем Field
// численно и лежит в [Min, Max] включительно.
type ScoreRange struct {
	Field string
	Min   float64
	Max   float64
}

// FactEquals — visibility-условие: derived fact с именем Field
// строково равен Expected без учёта регистра.
type FactEquals struct {
	Field    string
	Expected string
}

func (Always) isCondition()         {}
func (ScoreThreshold) isCondition() {}
func (DecisionEquals) isCondition() {}
func (ScoreRange) isCondition()     {}
func (FactEquals) isCondition()     {}
