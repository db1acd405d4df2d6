package notifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Enrolla/internal/mq"
	"github.com/shaiso/Enrolla/internal/repo"
)

const defaultPrefetch = 5

// Notifier — потребитель событий admission-процесса.
//
// Notifier — stateless компонент системы, который:
//   - Получает события из очередей mail.users и mail.progress
//   - Резолвит email получателя через хранилище пользователей
//   - Формирует письмо по типу события и отправляет через Mailer
//
// Несколько экземпляров могут потреблять из одних очередей.
type Notifier struct {
	users  repo.UserStore
	mailer Mailer
	conn   *mq.Connection

	usersConsumer    *mq.Consumer
	progressConsumer *mq.Consumer

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Notifier.
type Config struct {
	Users  repo.UserStore
	Mailer Mailer
	Conn   *mq.Connection
	Logger *slog.Logger
}

// New создаёт новый Notifier.
func New(cfg Config) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mailer := cfg.Mailer
	if mailer == nil {
		mailer = NewLogMailer(logger)
	}

	return &Notifier{
		users:  cfg.Users,
		mailer: mailer,
		conn:   cfg.Conn,
		logger: logger,
	}
}

// Start запускает consumers обеих очередей.
func (n *Notifier) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	n.cancelFunc = cancel

	n.usersConsumer = mq.NewConsumer(n.conn, n.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueMailUsers),
		Handler:  n.handleMessage,
		Prefetch: defaultPrefetch,
	})
	n.progressConsumer = mq.NewConsumer(n.conn, n.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueMailProgress),
		Handler:  n.handleMessage,
		Prefetch: defaultPrefetch,
	})

	for _, c := range []*mq.Consumer{n.usersConsumer, n.progressConsumer} {
		consumer := c
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				n.logger.Error("mail consumer error", "error", err)
			}
		}()
	}

	n.logger.Info("notifier started")
	return nil
}

// Stop останавливает Notifier.
func (n *Notifier) Stop() {
	n.logger.Info("stopping notifier...")

	if n.cancelFunc != nil {
		n.cancelFunc()
	}
	if n.usersConsumer != nil {
		n.usersConsumer.Stop()
	}
	if n.progressConsumer != nil {
		n.progressConsumer.Stop()
	}

	n.wg.Wait()

	n.logger.Info("notifier stopped")
}
