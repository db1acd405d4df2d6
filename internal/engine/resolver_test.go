package engine

import (
	"testing"
	"time"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/flow"
)

func iqTasks(t *testing.T) []*domain.FlowNode {
	t.Helper()
	return flow.Fallback().Children(flow.StepIQTest)
}

func TestResolveTask_SingleTaskTakesAnyPayload(t *testing.T) {
	g := flow.Fallback()
	tasks := g.Children(flow.StepPayment)
	progress := domain.NewUserProgress("u")

	task := ResolveTask(tasks, domain.Payload{"unrelated": true}, progress)
	if task == nil || task.ID != flow.TaskCompletePayment {
		t.Errorf("ResolveTask = %v, want payment task", task)
	}
}

func TestResolveTask_MatchingUnrecordedTask(t *testing.T) {
	tasks := iqTasks(t)
	progress := domain.NewUserProgress("u")

	task := ResolveTask(tasks, domain.Payload{"test_id": "t1", "score": 80}, progress)
	if task == nil || task.ID != flow.TaskTakeIQTest {
		t.Errorf("ResolveTask = %v, want take IQ test", task)
	}
}

func TestResolveTask_RecoveryEligibleOnlyAfterFailure(t *testing.T) {
	tasks := iqTasks(t)
	now := time.Now()

	// Первая задача ещё не провалена: payload со score достаётся ей.
	progress := domain.NewUserProgress("u")
	task := ResolveTask(tasks, domain.Payload{"score": 70}, progress)
	if task == nil || task.ID != flow.TaskTakeIQTest {
		t.Errorf("ResolveTask = %v, want take IQ test", task)
	}

	// После провала первой сабмит со score уходит в recovery.
	progress.SetStatus(flow.TaskTakeIQTest, domain.StatusRejected, now)
	task = ResolveTask(tasks, domain.Payload{"score": 80}, progress)
	if task == nil || task.ID != flow.TaskSecondChanceIQTest {
		t.Errorf("ResolveTask = %v, want second chance", task)
	}
}

func TestResolveTask_FallsBackToFirstUnrecorded(t *testing.T) {
	g := flow.Fallback()
	tasks := g.Children(flow.StepSignContract)
	progress := domain.NewUserProgress("u")

	// Payload не совпадает ни с одной задачей.
	task := ResolveTask(tasks, domain.Payload{"something_else": 1}, progress)
	if task == nil || task.ID != flow.TaskUploadIdentification {
		t.Errorf("ResolveTask = %v, want first unrecorded task", task)
	}
}

func TestResolveTask_AllRecordedIsNoop(t *testing.T) {
	tasks := iqTasks(t)
	now := time.Now()

	progress := domain.NewUserProgress("u")
	progress.SetStatus(flow.TaskTakeIQTest, domain.StatusAccepted, now)
	progress.SetStatus(flow.TaskSecondChanceIQTest, domain.StatusAccepted, now)

	if task := ResolveTask(tasks, domain.Payload{"score": 90}, progress); task != nil {
		t.Errorf("ResolveTask = %v, want nil", task)
	}
}
