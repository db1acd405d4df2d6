package flow

import "github.com/shaiso/Enrolla/internal/domain"

// Идентификаторы узлов встроенного графа.
// Шаги — однозначные числа, их задачи — десятки.
const (
	StepPersonalDetails = 1
	StepIQTest          = 2
	StepInterview       = 3
	StepSignContract    = 4
	StepPayment         = 5
	StepJoinSlack       = 6

	TaskCompletePersonalDetails = 10
	TaskTakeIQTest              = 20
	TaskSecondChanceIQTest      = 21
	TaskScheduleInterview       = 30
	TaskPerformInterview        = 31
	TaskUploadIdentification    = 40
	TaskSignContract            = 41
	TaskCompletePayment         = 50
	TaskJoinSlackWorkspace      = 60
)

// Fallback возвращает встроенный граф из шести шагов.
//
// Используется, когда внешняя конфигурация отсутствует или не
// разбирается: сервис остаётся рабочим на дефолтном процессе
// Personal Details → IQ Test → Interview → Sign Contract →
// Payment → Join Slack.
func Fallback() *Graph {
	nodes := []domain.FlowNode{
		{ID: StepPersonalDetails, Name: "Personal Details Form", Role: domain.RoleStep, Order: 1},
		{
			ID: TaskCompletePersonalDetails, Name: "Complete personal details", Role: domain.RoleTask,
			ParentID: StepPersonalDetails, Order: 1,
			PayloadIdentifiers: []string{"first_name", "last_name", "email", "timestamp"},
		},

		{ID: StepIQTest, Name: "IQ Test", Role: domain.RoleStep, Order: 2},
		{
			ID: TaskTakeIQTest, Name: "Take IQ test", Role: domain.RoleTask,
			ParentID: StepIQTest, Order: 1,
			Pass:               domain.ScoreThreshold{Field: "score", Threshold: 75},
			PayloadIdentifiers: []string{"test_id", "score", "timestamp"},
			DerivedFacts:       []domain.DerivedFactMapping{{SourceField: "score", TargetFact: "iq_score"}},
		},
		{
			ID: TaskSecondChanceIQTest, Name: "Take second chance IQ test", Role: domain.RoleTask,
			ParentID: StepIQTest, Order: 2,
			Visibility:                   domain.ScoreRange{Field: "iq_score", Min: 60, Max: 75},
			Pass:                         domain.ScoreThreshold{Field: "score", Threshold: 75},
			PayloadIdentifiers:           []string{"score", "timestamp"},
			RequiresPreviousTaskFailedID: TaskTakeIQTest,
			DerivedFacts:                 []domain.DerivedFactMapping{{SourceField: "score", TargetFact: "iq_score"}},
		},

		{ID: StepInterview, Name: "Interview", Role: domain.RoleStep, Order: 3},
		{
			ID: TaskScheduleInterview, Name: "Schedule interview", Role: domain.RoleTask,
			ParentID: StepInterview, Order: 1,
			PayloadIdentifiers: []string{"interview_date"},
		},
		{
			ID: TaskPerformInterview, Name: "Perform interview", Role: domain.RoleTask,
			ParentID: StepInterview, Order: 2,
			Pass:               domain.DecisionEquals{Field: "decision", Expected: "passed_interview"},
			PayloadIdentifiers: []string{"interview_date", "interviewer_id", "decision"},
		},

		{ID: StepSignContract, Name: "Sign Contract", Role: domain.RoleStep, Order: 4},
		{
			ID: TaskUploadIdentification, Name: "Upload identification document", Role: domain.RoleTask,
			ParentID: StepSignContract, Order: 1,
			PayloadIdentifiers: []string{"passport_number", "timestamp"},
		},
		{
			ID: TaskSignContract, Name: "Sign employment contract", Role: domain.RoleTask,
			ParentID: StepSignContract, Order: 2,
			PayloadIdentifiers: []string{"timestamp"},
		},

		{ID: StepPayment, Name: "Payment", Role: domain.RoleStep, Order: 5},
		{
			ID: TaskCompletePayment, Name: "Complete payment", Role: domain.RoleTask,
			ParentID: StepPayment, Order: 1,
			PayloadIdentifiers: []string{"payment_id", "timestamp"},
		},

		{ID: StepJoinSlack, Name: "Join Slack", Role: domain.RoleStep, Order: 6},
		{
			ID: TaskJoinSlackWorkspace, Name: "Join Slack workspace", Role: domain.RoleTask,
			ParentID: StepJoinSlack, Order: 1,
			PayloadIdentifiers: []string{"email", "timestamp"},
		},
	}

	g, err := Build(nodes)
	if err != nil {
		// Встроенный граф статичен и валиден; ошибка здесь —
		// программная, не конфигурационная.
		panic("flow: invalid fallback graph: " + err.Error())
	}
	return g
}
