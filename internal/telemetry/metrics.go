package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики admission-процесса. Регистрируются в глобальном
// реестре при импорте пакета; экспортируются на /metrics.
var (
	// SubmissionsTotal — обработанные сабмиты шагов по результату задачи.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrolla_submissions_total",
		Help: "Processed step submissions by outcome.",
	}, []string{"step", "result"})

	// DecisionsTotal — достигнутые терминальные статусы.
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrolla_decisions_total",
		Help: "Applicants reaching a terminal status.",
	}, []string{"status"})

	// RegistrationsTotal — зарегистрированные абитуриенты.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrolla_registrations_total",
		Help: "Registered applicants.",
	})

	// RemindersTotal — отправленные планировщиком напоминания.
	RemindersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enrolla_reminders_total",
		Help: "Reminder events published by the scheduler.",
	})

	// MailsTotal — письма, отправленные notifier, по типу.
	MailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrolla_mails_total",
		Help: "Mails sent by the notifier, by message type.",
	}, []string{"type"})
)
