// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go          — Handler с DI (сервисы, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - user_handler.go     — обработчики для /users
//   - flow_handler.go     — обработчики для /flow
//   - progress_handler.go — обработчики для прогресса и сабмитов
//
// API предоставляет REST endpoints для регистрации абитуриентов,
// просмотра процесса и отправки сабмитов.
package api
