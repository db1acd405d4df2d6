package flow

import (
	"testing"

	"github.com/shaiso/Enrolla/internal/domain"
)

func TestFallback_Shape(t *testing.T) {
	g := Fallback()

	steps := g.RootSteps()
	if len(steps) != 6 {
		t.Fatalf("steps = %d, want 6", len(steps))
	}

	wantOrder := []string{
		"Personal Details Form",
		"IQ Test",
		"Interview",
		"Sign Contract",
		"Payment",
		"Join Slack",
	}
	for i, name := range wantOrder {
		if steps[i].Name != name {
			t.Errorf("step %d = %q, want %q", i, steps[i].Name, name)
		}
	}
}

func TestFallback_SecondChanceWiring(t *testing.T) {
	g := Fallback()

	second, err := g.NodeByID(TaskSecondChanceIQTest)
	if err != nil {
		t.Fatalf("second chance task: %v", err)
	}

	if second.RequiresPreviousTaskFailedID != TaskTakeIQTest {
		t.Errorf("recovery target = %d, want %d", second.RequiresPreviousTaskFailedID, TaskTakeIQTest)
	}

	vis, ok := second.Visibility.(domain.ScoreRange)
	if !ok {
		t.Fatalf("visibility = %#v, want ScoreRange", second.Visibility)
	}
	if vis.Field != "iq_score" || vis.Min != 60 || vis.Max != 75 {
		t.Errorf("visibility range = %+v", vis)
	}

	if g.RecoveryTaskFor(StepIQTest, TaskTakeIQTest) != second {
		t.Error("RecoveryTaskFor should return the second chance task")
	}
}

func TestFallback_InterviewPassCondition(t *testing.T) {
	g := Fallback()

	perform, err := g.NodeByID(TaskPerformInterview)
	if err != nil {
		t.Fatalf("perform interview task: %v", err)
	}

	pass, ok := perform.Pass.(domain.DecisionEquals)
	if !ok {
		t.Fatalf("pass = %#v, want DecisionEquals", perform.Pass)
	}
	if pass.Field != "decision" || pass.Expected != "passed_interview" {
		t.Errorf("pass condition = %+v", pass)
	}
}
