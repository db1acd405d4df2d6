package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeUsers    Exchange = "enrolla.users"
	ExchangeProgress Exchange = "enrolla.progress"
	ExchangeDLQ      Exchange = "enrolla.dlq"
)

// Queues — имена очередей.
const (
	QueueMailUsers    Queue = "mail.users"
	QueueMailProgress Queue = "mail.progress"
	QueueDLQMail      Queue = "dlq.mail"
)

// Routing keys.
const (
	RoutingKeyRegistered RoutingKey = "registered"
	RoutingKeyCompleted  RoutingKey = "completed"
	RoutingKeyDecided    RoutingKey = "decided"
	RoutingKeyReminder   RoutingKey = "reminder"
	RoutingKeyDLQMail    RoutingKey = "mail"
)

func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name Exchange
		kind string
	}{
		{ExchangeUsers, "direct"},
		{ExchangeProgress, "direct"},
		{ExchangeDLQ, "direct"},
	}

	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex.name), // name
			ex.kind,         // type
			true,            // durable
			false,           // auto-deleted
			false,           // internal
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex.name, err)
		}
	}

	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Аргументы для очередей с DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQMail),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		// mail.users — приветственные письма, с DLQ
		{QueueMailUsers, dlqArgs},

		// mail.progress — письма о продвижении и напоминания, с DLQ
		{QueueMailProgress, dlqArgs},

		// dlq.mail — сама DLQ очередь
		{QueueDLQMail, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}

	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueMailUsers, RoutingKeyRegistered, ExchangeUsers},
		{QueueMailProgress, RoutingKeyCompleted, ExchangeProgress},
		{QueueMailProgress, RoutingKeyDecided, ExchangeProgress},
		{QueueMailProgress, RoutingKeyReminder, ExchangeProgress},
		{QueueDLQMail, RoutingKeyDLQMail, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Enrolla RabbitMQ Topology:

    enrolla.users (direct)
    └── mail.users [routing: registered]
            Consumer: Notifier
            DLQ: dlq.mail

    enrolla.progress (direct)
    └── mail.progress [routing: completed, decided, reminder]
            Consumer: Notifier
            DLQ: dlq.mail

    enrolla.dlq (direct)
    └── dlq.mail [routing: mail]
            Manual processing
  `
}
