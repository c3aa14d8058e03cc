package mq

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"RunCrew/config"
)

var (
	conn    *amqp.Connection
	mqOnce  sync.Once
	initErr error
)

// 交换机与队列拓扑
// scheduler.delayed 依赖 rabbitmq_delayed_message_exchange 插件
const (
	ExchangeDelayed = "scheduler.delayed"
	ExchangeEvents  = "events.topic"

	QueuePenaltyNotice  = "scheduler.penalty.notice"
	QueueRecordAccepted = "events.record.accepted"

	RoutingPenaltyNotice  = "scheduler.penalty.notice"
	RoutingRecordAccepted = "record.accepted"
)

func Init() error {
	mqOnce.Do(func() {
		url := config.Cfg.GetRabbitMQURL()

		conn, initErr = amqp.Dial(url)
		if initErr != nil {
			return
		}

		ch, err := conn.Channel()
		if err != nil {
			initErr = err
			return
		}
		defer ch.Close()

		initErr = declareTopology(ch)
	})

	return initErr
}

func Connection() *amqp.Connection {
	return conn
}

func declareTopology(ch *amqp.Channel) error {
	// 延迟交换机，内部类型 topic
	if err := ch.ExchangeDeclare(
		ExchangeDelayed,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "topic"},
	); err != nil {
		return err
	}

	if err := ch.ExchangeDeclare(
		ExchangeEvents,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return err
	}

	queues := []struct {
		name     string
		exchange string
		routing  string
	}{
		{QueuePenaltyNotice, ExchangeDelayed, RoutingPenaltyNotice},
		{QueueRecordAccepted, ExchangeEvents, RoutingRecordAccepted},
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(q.name, q.routing, q.exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

func Close(ctx context.Context) error {
	if conn == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
