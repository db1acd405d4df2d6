package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/shaiso/Enrolla/internal/domain"
)

const sampleConfig = `{
	"steps": [
		{
			"id": 1, "name": "Exam", "order": 1,
			"tasks": [
				{
					"id": 10, "name": "Take exam", "order": 1,
					"pass_condition": {"type": "score_threshold", "field": "score", "threshold": 75},
					"payload_identifiers": ["score"],
					"derived_facts_to_store": [{"source_field": "score", "target_fact_name": "exam_score"}]
				},
				{
					"id": 11, "name": "Retake exam", "order": 2,
					"visibility_condition": {"type": "score_range", "field": "exam_score", "min": 60, "max": 75},
					"pass_condition": {"type": "score_threshold", "field": "score", "threshold": 75},
					"requires_previous_task_failed_id": 10
				}
			]
		},
		{
			"id": 2, "name": "Decision", "order": 2,
			"tasks": [
				{
					"id": 20, "name": "Record decision", "order": 1,
					"pass_condition": {"type": "decision_equals", "field": "decision", "expected_value": "passed"}
				}
			]
		}
	]
}`

func TestParseConfig(t *testing.T) {
	g, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Size() != 5 {
		t.Errorf("Size() = %d, want 5", g.Size())
	}

	take, err := g.NodeByID(10)
	if err != nil {
		t.Fatalf("node 10: %v", err)
	}
	pass, ok := take.Pass.(domain.ScoreThreshold)
	if !ok || pass.Field != "score" || pass.Threshold != 75 {
		t.Errorf("node 10 pass condition = %#v", take.Pass)
	}
	if len(take.DerivedFacts) != 1 || take.DerivedFacts[0].TargetFact != "exam_score" {
		t.Errorf("node 10 derived facts = %v", take.DerivedFacts)
	}

	retake, _ := g.NodeByID(11)
	vis, ok := retake.Visibility.(domain.ScoreRange)
	if !ok || vis.Min != 60 || vis.Max != 75 {
		t.Errorf("node 11 visibility = %#v", retake.Visibility)
	}
	if retake.RequiresPreviousTaskFailedID != 10 {
		t.Errorf("node 11 recovery target = %d", retake.RequiresPreviousTaskFailedID)
	}

	decision, _ := g.NodeByID(20)
	deq, ok := decision.Pass.(domain.DecisionEquals)
	if !ok || deq.Expected != "passed" {
		t.Errorf("node 20 pass condition = %#v", decision.Pass)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	if _, err := ParseConfig([]byte("not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := ParseConfig([]byte(`{"steps": []}`)); !errors.Is(err, ErrNoSteps) {
		t.Errorf("expected ErrNoSteps, got %v", err)
	}
}

func TestParseCondition(t *testing.T) {
	th := 75.0
	min := 60.0

	tests := []struct {
		name string
		cfg  *ConditionConfig
		want domain.Condition
	}{
		{"nil config", nil, nil},
		{
			"score threshold",
			&ConditionConfig{Type: "score_threshold", Field: "score", Threshold: &th},
			domain.ScoreThreshold{Field: "score", Threshold: 75},
		},
		{
			"uppercase type accepted",
			&ConditionConfig{Type: "SCORE_THRESHOLD", Field: "score", Threshold: &th},
			domain.ScoreThreshold{Field: "score", Threshold: 75},
		},
		{
			"range with open max",
			&ConditionConfig{Type: "score_range", Field: "f", Min: &min},
			domain.ScoreRange{Field: "f", Min: 60, Max: math.Inf(1)},
		},
		{
			"fact equals",
			&ConditionConfig{Type: "derived_fact_equals", Field: "f", ExpectedValue: "x"},
			domain.FactEquals{Field: "f", Expected: "x"},
		},
		{
			"unknown type becomes always",
			&ConditionConfig{Type: "mystery"},
			domain.Always{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCondition(tt.cfg); got != tt.want {
				t.Errorf("parseCondition() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/flow.json"); err == nil {
		t.Error("expected error for missing file")
	}
}
