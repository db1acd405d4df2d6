package engine

import (
	"encoding/json"
	"testing"

	"github.com/shaiso/Enrolla/internal/domain"
)

func TestEvaluatePass_ScoreThreshold(t *testing.T) {
	cond := domain.ScoreThreshold{Field: "score", Threshold: 75}

	tests := []struct {
		name    string
		payload domain.Payload
		want    bool
	}{
		{"above threshold", domain.Payload{"score": 80.0}, true},
		{"exactly threshold is a fail", domain.Payload{"score": 75.0}, false},
		{"below threshold", domain.Payload{"score": 74.9}, false},
		{"integer value", domain.Payload{"score": 80}, true},
		{"json number", domain.Payload{"score": json.Number("76")}, true},
		{"numeric string", domain.Payload{"score": "80"}, true},
		{"non-numeric string", domain.Payload{"score": "high"}, false},
		{"missing field fails closed", domain.Payload{}, false},
		{"nil value fails closed", domain.Payload{"score": nil}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluatePass(cond, tt.payload); got != tt.want {
				t.Errorf("EvaluatePass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatePass_DecisionEquals(t *testing.T) {
	cond := domain.DecisionEquals{Field: "decision", Expected: "passed_interview"}

	tests := []struct {
		name    string
		payload domain.Payload
		want    bool
	}{
		{"exact match", domain.Payload{"decision": "passed_interview"}, true},
		{"case-insensitive match", domain.Payload{"decision": "PASSED_INTERVIEW"}, true},
		{"mismatch", domain.Payload{"decision": "failed_interview"}, false},
		{"missing field fails closed", domain.Payload{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluatePass(cond, tt.payload); got != tt.want {
				t.Errorf("EvaluatePass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluatePass_AbsentConditionAlwaysPasses(t *testing.T) {
	if !EvaluatePass(nil, domain.Payload{}) {
		t.Error("nil condition should pass")
	}
	if !EvaluatePass(domain.Always{}, domain.Payload{}) {
		t.Error("Always should pass")
	}
	// Visibility вариант в роли pass-условия ведёт себя как Always.
	if !EvaluatePass(domain.ScoreRange{Field: "x", Min: 0, Max: 1}, domain.Payload{}) {
		t.Error("visibility variant as pass condition should pass")
	}
}

func TestEvaluateVisibility_ScoreRange(t *testing.T) {
	cond := domain.ScoreRange{Field: "iq_score", Min: 60, Max: 75}

	tests := []struct {
		name  string
		facts map[string]any
		want  bool
	}{
		{"inside range", map[string]any{"iq_score": 70.0}, true},
		{"lower bound inclusive", map[string]any{"iq_score": 60.0}, true},
		{"upper bound inclusive", map[string]any{"iq_score": 75.0}, true},
		{"below range", map[string]any{"iq_score": 59.9}, false},
		{"above range", map[string]any{"iq_score": 75.1}, false},
		{"missing fact hides", map[string]any{}, false},
		{"non-numeric fact hides", map[string]any{"iq_score": "n/a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateVisibility(cond, tt.facts); got != tt.want {
				t.Errorf("EvaluateVisibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateVisibility_FactEquals(t *testing.T) {
	cond := domain.FactEquals{Field: "track", Expected: "backend"}

	if !EvaluateVisibility(cond, map[string]any{"track": "Backend"}) {
		t.Error("case-insensitive match should be visible")
	}
	if EvaluateVisibility(cond, map[string]any{"track": "frontend"}) {
		t.Error("mismatch should hide")
	}
	if EvaluateVisibility(cond, map[string]any{}) {
		t.Error("missing fact should hide")
	}
}

func TestVisibleTasks_PreservesOrder(t *testing.T) {
	tasks := []*domain.FlowNode{
		{ID: 1, Name: "a", Role: domain.RoleTask, Order: 1},
		{ID: 2, Name: "b", Role: domain.RoleTask, Order: 2, Visibility: domain.ScoreRange{Field: "x", Min: 0, Max: 10}},
		{ID: 3, Name: "c", Role: domain.RoleTask, Order: 3},
	}
	progress := domain.NewUserProgress("u")

	visible := VisibleTasks(tasks, progress)
	if len(visible) != 2 || visible[0].ID != 1 || visible[1].ID != 3 {
		t.Errorf("visible = %v", visible)
	}

	progress.DerivedFacts["x"] = 5.0
	visible = VisibleTasks(tasks, progress)
	if len(visible) != 3 {
		t.Errorf("all tasks should be visible, got %d", len(visible))
	}
}
