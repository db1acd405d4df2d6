package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Enrolla/internal/domain"
	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/repo"
	"github.com/shaiso/Enrolla/internal/telemetry"
)

// handleMessage направляет сообщение обработчику по его типу.
// Неизвестный тип — ack без письма: очередь не должна копить
// сообщения, которые этот компонент не умеет обрабатывать.
func (n *Notifier) handleMessage(ctx context.Context, delivery *mq.Delivery) error {
	msg := &delivery.Message

	var err error
	switch msg.Type {
	case mq.MessageTypeUserRegistered:
		err = n.handleUserRegistered(ctx, msg)
	case mq.MessageTypeStepCompleted:
		err = n.handleStepCompleted(ctx, msg)
	case mq.MessageTypeApplicantDecided:
		err = n.handleApplicantDecided(ctx, msg)
	case mq.MessageTypeReminderDue:
		err = n.handleReminderDue(ctx, msg)
	default:
		n.logger.Warn("unknown message type", "type", msg.Type, "message_id", msg.ID)
		return nil
	}

	// Пользователь мог быть удалён между событием и доставкой —
	// письмо отправлять некому, retry не поможет.
	if errors.Is(err, repo.ErrNotFound) {
		n.logger.Warn("mail recipient not found", "type", msg.Type, "message_id", msg.ID)
		return nil
	}
	return err
}

func (n *Notifier) handleUserRegistered(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.UserRegisteredPayload](msg)
	if err != nil {
		return fmt.Errorf("parse user.registered payload: %w", err)
	}

	body := "Welcome! Your admission process has started. " +
		"Complete the personal details form to begin."
	if err := n.mailer.Send(ctx, payload.Email, "Welcome to the admission process", body); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}

	telemetry.MailsTotal.WithLabelValues(string(msg.Type)).Inc()
	return nil
}

func (n *Notifier) handleStepCompleted(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.StepCompletedPayload](msg)
	if err != nil {
		return fmt.Errorf("parse step.completed payload: %w", err)
	}

	// Терминальные исходы закрывает письмо applicant.decided.
	if payload.OverallStatus.IsTerminal() {
		return nil
	}

	user, err := n.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	subject := fmt.Sprintf("Progress update: %s", payload.StepName)
	body := fmt.Sprintf("Your submission for %q was received.", payload.StepName)
	if !payload.Accepted {
		body = fmt.Sprintf("Your submission for %q did not pass. Check your options for a retry.", payload.StepName)
	}

	if err := n.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send progress mail: %w", err)
	}

	telemetry.MailsTotal.WithLabelValues(string(msg.Type)).Inc()
	return nil
}

func (n *Notifier) handleApplicantDecided(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.ApplicantDecidedPayload](msg)
	if err != nil {
		return fmt.Errorf("parse applicant.decided payload: %w", err)
	}

	user, err := n.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	subject := "Admission decision"
	body := "Unfortunately, your application was not successful."
	if payload.Status == domain.OverallAccepted {
		body = "Congratulations! You have been accepted."
	}

	if err := n.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send decision mail: %w", err)
	}

	telemetry.MailsTotal.WithLabelValues(string(msg.Type)).Inc()
	return nil
}

func (n *Notifier) handleReminderDue(ctx context.Context, msg *mq.Message) error {
	payload, err := mq.ParsePayload[mq.ReminderDuePayload](msg)
	if err != nil {
		return fmt.Errorf("parse reminder.due payload: %w", err)
	}

	user, err := n.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	subject := "Your admission process is waiting"
	body := fmt.Sprintf("You stopped at %q. Pick up where you left off!", payload.StepName)

	if err := n.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("send reminder mail: %w", err)
	}

	telemetry.MailsTotal.WithLabelValues(string(msg.Type)).Inc()
	return nil
}
