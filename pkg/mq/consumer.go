package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

type RelationEventHandler interface {
	HandleRelationEvent(ctx context.Context, event *RelationEvent) error
}

type ContentEventHandler interface {
	HandleContentEvent(ctx context.Context, event *ContentEvent) error
}

func NewConsumer(rabbitmqURL string) (*Consumer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// 设置QoS，限制未确认消息数量
	err = ch.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	if err := setupTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return &Consumer{conn: conn, channel: ch}, nil
}

func (c *Consumer) ConsumeRelationEvents(ctx context.Context, handler RelationEventHandler) error {
	return c.consume(ctx, RelationEventQueue, func(ctx context.Context, body []byte) outcome {
		var event RelationEvent
		return handle(ctx, body, &event, func() error { return handler.HandleRelationEvent(ctx, &event) })
	})
}

func (c *Consumer) ConsumeContentEvents(ctx context.Context, handler ContentEventHandler) error {
	return c.consume(ctx, ContentEventQueue, func(ctx context.Context, body []byte) outcome {
		var event ContentEvent
		return handle(ctx, body, &event, func() error { return handler.HandleContentEvent(ctx, &event) })
	})
}

type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

// handle decodes body into event and runs fn. Undecodable messages are
// dropped, handler failures are requeued.
func handle(ctx context.Context, body []byte, event interface{}, fn func() error) outcome {
	if err := json.Unmarshal(body, event); err != nil {
		hlog.CtxErrorf(ctx, "Failed to unmarshal event: %v", err)
		return drop
	}
	if err := fn(); err != nil {
		hlog.CtxErrorf(ctx, "Failed to handle event: %v", err)
		return requeue
	}
	return ack
}

func (c *Consumer) consume(ctx context.Context, queue string, process func(context.Context, []byte) outcome) error {
	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer
		false, // auto-ack (设置为false，手动确认)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				hlog.Infof("%s consumer context cancelled", queue)
				return
			case d, ok := <-msgs:
				if !ok {
					hlog.Infof("%s consumer channel closed", queue)
					return
				}
				switch process(ctx, d.Body) {
				case ack:
					d.Ack(false) // 确认消息
				case drop:
					d.Nack(false, false) // 拒绝消息，不重新入队
				case requeue:
					d.Nack(false, true) // 拒绝消息，重新入队
				}
			}
		}
	}()

	return nil
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
