// Package service содержит прикладную логику поверх движка.
//
// Структура:
//   - progress.go — обработка сабмитов и проекции статуса
//   - users.go    — регистрация и выборка пользователей
//   - keylock.go  — взаимное исключение по ключу (user id)
//
// Сервисы связывают граф процесса, движок, хранилища и publisher;
// HTTP-слой и CLI работают только через них.
package service
