package engine

import (
	"strings"

	"github.com/shaiso/Enrolla/internal/domain"
)

// EvaluatePass вычисляет pass-условие узла над payload сабмита.
//
// nil и Always дают true. Для остальных вариантов отсутствующее или
// неприводимое поле даёт false: непроверяемое условие провалено,
// а не пропущено. Visibility-варианты в роли pass-условия — ошибка
// конфигурации; они ведут себя как Always, чтобы кривой конфиг не
// блокировал процесс.
func EvaluatePass(cond domain.Condition, payload domain.Payload) bool {
	switch c := cond.(type) {
	case nil, domain.Always:
		return true
	case domain.ScoreThreshold:
		value, ok := domain.NumberValue(payload[c.Field])
		if !ok {
			return false
		}
		return value > c.Threshold
	case domain.DecisionEquals:
		value, ok := domain.StringValue(payload[c.Field])
		if !ok {
			return false
		}
		return strings.EqualFold(value, c.Expected)
	default:
		return true
	}
}

// EvaluateVisibility вычисляет visibility-условие узла над
// накопленными derived facts.
//
// Та же асимметрия, что и у EvaluatePass: нет условия — узел виден,
// нет факта — узел скрыт.
func EvaluateVisibility(cond domain.Condition, facts map[string]any) bool {
	switch c := cond.(type) {
	case nil, domain.Always:
		return true
	case domain.ScoreRange:
		raw, exists := facts[c.Field]
		if !exists {
			return false
		}
		value, ok := domain.NumberValue(raw)
		if !ok {
			return false
		}
		return value >= c.Min && value <= c.Max
	case domain.FactEquals:
		raw, exists := facts[c.Field]
		if !exists {
			return false
		}
		value, ok := domain.StringValue(raw)
		if !ok {
			return false
		}
		return strings.EqualFold(value, c.Expected)
	default:
		return true
	}
}

// IsVisible проверяет видимость узла для пользователя.
func IsVisible(node *domain.FlowNode, progress *domain.UserProgress) bool {
	return EvaluateVisibility(node.Visibility, progress.DerivedFacts)
}

// VisibleTasks отфильтровывает видимые для пользователя задачи,
// сохраняя исходный порядок.
func VisibleTasks(tasks []*domain.FlowNode, progress *domain.UserProgress) []*domain.FlowNode {
	visible := make([]*domain.FlowNode, 0, len(tasks))
	for _, t := range tasks {
		if IsVisible(t, progress) {
			visible = append(visible, t)
		}
	}
	return visible
}
