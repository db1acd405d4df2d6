// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий admission-процесса
//   - consumer.go   — потребление сообщений из очередей
//
// Типы сообщений:
//   - user.registered   — зарегистрирован новый абитуриент
//   - step.completed    — обработан сабмит шага
//   - applicant.decided — процесс достиг терминального статуса
//   - reminder.due      — абитуриент давно не продвигался
//
// Exchanges:
//   - enrolla.users    — события пользователей
//   - enrolla.progress — события прогресса
//   - enrolla.dlq      — dead letter queue
package mq
