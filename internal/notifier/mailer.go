package notifier

import (
	"context"
	"log/slog"
)

// Mailer отправляет письмо получателю.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer пишет письма в лог вместо реальной отправки.
// Используется в разработке и тестах; production-реализация
// подключается той же сигнатурой.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer создаёт LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send логирует письмо.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("mail sent",
		"to", to,
		"subject", subject,
		"body", body,
	)
	return nil
}
