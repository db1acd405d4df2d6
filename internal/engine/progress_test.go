package engine

import (
	"testing"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/flow"
)

func TestApplyOutcome_StoresFactsBeforeStatus(t *testing.T) {
	g := flow.Fallback()
	step, _ := g.NodeByID(flow.StepIQTest)
	tasks := g.Children(step.ID)
	take, _ := g.NodeByID(flow.TaskTakeIQTest)

	progress := domain.NewUserProgress("u")
	ApplyOutcome(tasks, step, take, domain.Payload{"score": 70}, progress, time.Now())

	if progress.DerivedFacts["iq_score"] != 70 {
		t.Errorf("iq_score = %v, want 70", progress.DerivedFacts["iq_score"])
	}
	if progress.StatusOf(take.ID) != domain.StatusRejected {
		t.Errorf("task status = %v, want REJECTED", progress.StatusOf(take.ID))
	}

	// Шаг не закрыт: после провала стала видимой вторая попытка.
	if progress.HasStatus(step.ID) {
		t.Errorf("step should have no status, got %v", progress.StatusOf(step.ID))
	}
}

func TestApplyOutcome_ClosesStepWhenAllVisibleTasksDone(t *testing.T) {
	g := flow.Fallback()
	step, _ := g.NodeByID(flow.StepIQTest)
	tasks := g.Children(step.ID)
	take, _ := g.NodeByID(flow.TaskTakeIQTest)

	progress := domain.NewUserProgress("u")
	ApplyOutcome(tasks, step, take, domain.Payload{"score": 90}, progress, time.Now())

	// 90 > 75: вторая попытка невидима, единственная видимая задача
	// принята — шаг закрыт как Accepted.
	if progress.StatusOf(step.ID) != domain.StatusAccepted {
		t.Errorf("step status = %v, want ACCEPTED", progress.StatusOf(step.ID))
	}
}

func TestApplyOutcome_LowScoreHidesRecoveryAndRejectsStep(t *testing.T) {
	g := flow.Fallback()
	step, _ := g.NodeByID(flow.StepIQTest)
	tasks := g.Children(step.ID)
	take, _ := g.NodeByID(flow.TaskTakeIQTest)

	progress := domain.NewUserProgress("u")
	ApplyOutcome(tasks, step, take, domain.Payload{"score": 40}, progress, time.Now())

	// 40 вне диапазона 60..75: второй попытки нет, шаг провален.
	if progress.StatusOf(step.ID) != domain.StatusRejected {
		t.Errorf("step status = %v, want REJECTED", progress.StatusOf(step.ID))
	}
}

func TestApplyOutcome_SecondChanceClosesStep(t *testing.T) {
	g := flow.Fallback()
	step, _ := g.NodeByID(flow.StepIQTest)
	tasks := g.Children(step.ID)
	take, _ := g.NodeByID(flow.TaskTakeIQTest)
	second, _ := g.NodeByID(flow.TaskSecondChanceIQTest)
	now := time.Now()

	progress := domain.NewUserProgress("u")
	ApplyOutcome(tasks, step, take, domain.Payload{"score": 70}, progress, now)
	ApplyOutcome(tasks, step, second, domain.Payload{"score": 82}, progress, now)

	if progress.StatusOf(second.ID) != domain.StatusAccepted {
		t.Errorf("second chance status = %v, want ACCEPTED", progress.StatusOf(second.ID))
	}
	// Первая попытка осталась Rejected, поэтому запись шага Rejected;
	// итоговый статус считает проектор по recovery-семантике.
	if progress.StatusOf(step.ID) != domain.StatusRejected {
		t.Errorf("step status = %v, want REJECTED", progress.StatusOf(step.ID))
	}
}

func TestApplyOutcome_StepWithoutTasks(t *testing.T) {
	step := &domain.FlowNode{ID: 1, Name: "Orientation", Role: domain.RoleStep, Order: 1}
	progress := domain.NewUserProgress("u")

	ApplyOutcome(nil, step, step, domain.Payload{}, progress, time.Now())

	if progress.StatusOf(step.ID) != domain.StatusAccepted {
		t.Errorf("step status = %v, want ACCEPTED", progress.StatusOf(step.ID))
	}
}

func TestApplyOutcome_PartialStepStaysOpen(t *testing.T) {
	g := flow.Fallback()
	step, _ := g.NodeByID(flow.StepSignContract)
	tasks := g.Children(step.ID)
	upload, _ := g.NodeByID(flow.TaskUploadIdentification)

	progress := domain.NewUserProgress("u")
	ApplyOutcome(tasks, step, upload, domain.Payload{"passport_number": "X1"}, progress, time.Now())

	if progress.StatusOf(upload.ID) != domain.StatusAccepted {
		t.Errorf("upload status = %v, want ACCEPTED", progress.StatusOf(upload.ID))
	}
	if progress.HasStatus(step.ID) {
		t.Error("step should stay open until all tasks are recorded")
	}
}
