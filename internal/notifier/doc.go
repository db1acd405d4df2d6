// Package notifier отправляет письма абитуриентам по событиям
// из RabbitMQ.
//
// Структура:
//   - notifier.go — жизненный цикл, consumers очередей mail.*
//   - handlers.go — обработчики по типам сообщений
//   - mailer.go   — интерфейс отправки писем и log-реализация
//
// Типы писем:
//   - приветственное         — по user.registered
//   - о продвижении          — по step.completed
//   - о зачислении / отказе  — по applicant.decided
//   - напоминание            — по reminder.due
package notifier
