package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Enrolla/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeUserRegistered   MessageType = "user.registered"
	MessageTypeStepCompleted    MessageType = "step.completed"
	MessageTypeApplicantDecided MessageType = "applicant.decided"
	MessageTypeReminderDue      MessageType = "reminder.due"
)

// Publisher публикует события admission-процесса в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// UserRegisteredPayload — payload события о регистрации.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// StepCompletedPayload — payload события об обработанном сабмите.
type StepCompletedPayload struct {
	UserID        string               `json:"user_id"`
	StepName      string               `json:"step_name"`
	TaskName      string               `json:"task_name,omitempty"`
	Accepted      bool                 `json:"accepted"`
	OverallStatus domain.OverallStatus `json:"overall_status"`
}

// ApplicantDecidedPayload — payload события о терминальном статусе.
type ApplicantDecidedPayload struct {
	UserID string               `json:"user_id"`
	Status domain.OverallStatus `json:"status"` // ACCEPTED или REJECTED
}

// ReminderDuePayload — payload напоминания о застрявшем абитуриенте.
type ReminderDuePayload struct {
	UserID       string    `json:"user_id"`
	StepName     string    `json:"step_name"`
	TaskName     string    `json:"task_name,omitempty"`
	LastActivity time.Time `json:"last_activity"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishUserRegistered публикует событие о регистрации абитуриента.
// Потребитель: Notifier (приветственное письмо).
func (p *Publisher) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeUserRegistered,
		Payload:   UserRegisteredPayload{UserID: user.ID, Email: user.Email},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeUsers, RoutingKeyRegistered, msg)
}

// PublishStepCompleted публикует событие об обработанном сабмите.
// Потребитель: Notifier.
func (p *Publisher) PublishStepCompleted(ctx context.Context, payload StepCompletedPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeStepCompleted,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeProgress, RoutingKeyCompleted, msg)
}

// PublishApplicantDecided публикует событие о терминальном статусе.
// Потребитель: Notifier (письмо о зачислении или отказе).
func (p *Publisher) PublishApplicantDecided(ctx context.Context, userID string, status domain.OverallStatus) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeApplicantDecided,
		Payload:   ApplicantDecidedPayload{UserID: userID, Status: status},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeProgress, RoutingKeyDecided, msg)
}

// PublishReminderDue публикует напоминание о застрявшем абитуриенте.
// Потребитель: Notifier.
func (p *Publisher) PublishReminderDue(ctx context.Context, payload ReminderDuePayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeReminderDue,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeProgress, RoutingKeyReminder, msg)
}
