package domain

import (
	"time"

	"github.com/google/uuid"
)

// User — зарегистрированный абитуриент.
type User struct {
	// ID — уникальный идентификатор (uuid в строковом виде).
	ID string `json:"id"`

	// Email — уникален среди всех пользователей.
	Email string `json:"email"`

	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser создаёт пользователя со свежим идентификатором.
func NewUser(email string) *User {
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}
