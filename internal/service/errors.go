package service

import "errors"

// Ошибки сервисного слоя.
var (
	// ErrStepNotFound — имя шага не найдено в графе процесса
	// либо указывает на задачу.
	ErrStepNotFound = errors.New("step not found")

	// ErrInvalidEmail — email пустой или заведомо некорректный.
	ErrInvalidEmail = errors.New("invalid email")
)
