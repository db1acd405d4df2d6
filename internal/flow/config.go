package flow

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shaiso/Enrolla/internal/domain"
)

// Строковые типы условий во внешней конфигурации.
const (
	condScoreThreshold = "score_threshold"
	condDecisionEquals = "decision_equals"
	condScoreRange     = "score_range"
	condFactEquals     = "derived_fact_equals"
)

// Config — внешняя JSON-конфигурация графа: вложенный документ
// шаги → задачи.
type Config struct {
	Steps []StepConfig `json:"steps"`
}

// StepConfig — шаг в конфигурации.
type StepConfig struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Order int          `json:"order"`
	Tasks []TaskConfig `json:"tasks"`
}

// TaskConfig — задача в конфигурации.
type TaskConfig struct {
	ID                           int                 `json:"id"`
	Name                         string              `json:"name"`
	Order                        int                 `json:"order"`
	VisibilityCondition          *ConditionConfig    `json:"visibility_condition,omitempty"`
	PassCondition                *ConditionConfig    `json:"pass_condition,omitempty"`
	PayloadIdentifiers           []string            `json:"payload_identifiers,omitempty"`
	RequiresPreviousTaskFailedID int                 `json:"requires_previous_task_failed_id,omitempty"`
	DerivedFactsToStore          []DerivedFactConfig `json:"derived_facts_to_store,omitempty"`
}

// ConditionConfig — условие во внешнем формате: единая структура
// с тегом типа и необязательными полями.
type ConditionConfig struct {
	Type          string   `json:"type"`
	Field         string   `json:"field"`
	Threshold     *float64 `json:"threshold,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	ExpectedValue string   `json:"expected_value,omitempty"`
}

// DerivedFactConfig — маппинг извлечения факта.
type DerivedFactConfig struct {
	SourceField    string `json:"source_field"`
	TargetFactName string `json:"target_fact_name"`
}

// ParseConfig разбирает JSON-документ конфигурации и строит граф.
func ParseConfig(data []byte) (*Graph, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal flow config: %w", err)
	}
	if len(cfg.Steps) == 0 {
		return nil, ErrNoSteps
	}

	var nodes []domain.FlowNode
	for _, sc := range cfg.Steps {
		nodes = append(nodes, domain.FlowNode{
			ID:    sc.ID,
			Name:  sc.Name,
			Role:  domain.RoleStep,
			Order: sc.Order,
		})
		for _, tc := range sc.Tasks {
			node := domain.FlowNode{
				ID:                           tc.ID,
				Name:                         tc.Name,
				Role:                         domain.RoleTask,
				ParentID:                     sc.ID,
				Order:                        tc.Order,
				Visibility:                   parseCondition(tc.VisibilityCondition),
				Pass:                         parseCondition(tc.PassCondition),
				PayloadIdentifiers:           tc.PayloadIdentifiers,
				RequiresPreviousTaskFailedID: tc.RequiresPreviousTaskFailedID,
			}
			for _, df := range tc.DerivedFactsToStore {
				node.DerivedFacts = append(node.DerivedFacts, domain.DerivedFactMapping{
					SourceField: df.SourceField,
					TargetFact:  df.TargetFactName,
				})
			}
			nodes = append(nodes, node)
		}
	}

	return Build(nodes)
}

// LoadFile читает и разбирает конфигурацию из файла.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read flow config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// parseCondition превращает внешнее описание условия в вариант
// domain.Condition.
//
// Отсутствующее условие и нераспознанный тип дают явный Always:
// узел без проверяемого условия проходит всегда. Это сознательная
// политика fail-open для условий, парная к fail-closed при
// отсутствующем поле во время вычисления.
func parseCondition(c *ConditionConfig) domain.Condition {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Type) {
	case condScoreThreshold:
		var threshold float64
		if c.Threshold != nil {
			threshold = *c.Threshold
		}
		return domain.ScoreThreshold{Field: c.Field, Threshold: threshold}
	case condDecisionEquals:
		return domain.DecisionEquals{Field: c.Field, Expected: c.ExpectedValue}
	case condScoreRange:
		min := math.Inf(-1)
		max := math.Inf(1)
		if c.Min != nil {
			min = *c.Min
		}
		if c.Max != nil {
			max = *c.Max
		}
		return domain.ScoreRange{Field: c.Field, Min: min, Max: max}
	case condFactEquals:
		return domain.FactEquals{Field: c.Field, Expected: c.ExpectedValue}
	default:
		return domain.Always{}
	}
}
