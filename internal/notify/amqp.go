package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HiredMessage is the domain event written to the broker after a hire commits.
type HiredMessage struct {
	FreelancerId string `json:"freelancerId"`
	GigId        string `json:"gigId"`
	GigTitle     string `json:"gigTitle"`
	HiredAt      string `json:"hiredAt"`
}

// AmqpPublisher publishes HiredMessage to a durable queue. The connection is
// dialed lazily and redialed after the broker drops it.
type AmqpPublisher struct {
	url   string
	queue string
	now   func() time.Time

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAmqpPublisher(url string, queue string) *AmqpPublisher {
	return &AmqpPublisher{url: url, queue: queue, now: time.Now}
}

func (p *AmqpPublisher) NotifyHired(ctx context.Context, userId string, gigId string, gigTitle string) error {
	body, err := p.encode(userId, gigId, gigTitle)
	if err != nil {
		return err
	}

	ch, err := p.channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp queue declare %s: %w", p.queue, err)
	}

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish %s: %w", p.queue, err)
	}

	return nil
}

func (p *AmqpPublisher) encode(userId string, gigId string, gigTitle string) ([]byte, error) {
	body, err := json.Marshal(HiredMessage{
		FreelancerId: userId,
		GigId:        gigId,
		GigTitle:     gigTitle,
		HiredAt:      p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("encode hired message: %w", err)
	}

	return body, nil
}

func (p *AmqpPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	return ch, nil
}

func (p *AmqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	return p.conn.Close()
}
