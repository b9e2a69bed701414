package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rabbitmq/amqp091-go"
)

type Producer struct {
	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewProducer(rabbitmqURL string) (*Producer, error) {
	conn, err := amqp091.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	producer := &Producer{
		conn:    conn,
		channel: ch,
	}

	// 声明exchanges和queues
	if err := setupTopology(ch); err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to setup topology: %w", err)
	}

	return producer, nil
}

// URL builds the amqp url from broker address and credentials.
func URL(addr, username, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s/", username, password, addr)
}

func setupTopology(ch *amqp091.Channel) error {
	bindings := []struct{ exchange, queue string }{
		{RelationEventExchange, RelationEventQueue},
		{ContentEventExchange, ContentEventQueue},
	}
	for _, b := range bindings {
		// 声明交换机
		if err := ch.ExchangeDeclare(
			b.exchange,
			"direct",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", b.exchange, err)
		}
		// 声明队列
		if _, err := ch.QueueDeclare(
			b.queue,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		// 绑定队列到交换机
		if err := ch.QueueBind(b.queue, "", b.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}

func (p *Producer) publish(ctx context.Context, exchange string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(
		ctx,
		exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", exchange, err)
	}
	return nil
}

func (p *Producer) PublishRelationEvent(ctx context.Context, event *RelationEvent) error {
	if err := p.publish(ctx, RelationEventExchange, event); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "Published relation event: %+v", event)
	return nil
}

func (p *Producer) PublishContentEvent(ctx context.Context, event *ContentEvent) error {
	if err := p.publish(ctx, ContentEventExchange, event); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "Published content event: %+v", event)
	return nil
}

func (p *Producer) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
