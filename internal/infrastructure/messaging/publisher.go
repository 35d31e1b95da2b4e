// Package messaging publishes purchase state changes to RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
	"checkout_service/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp091.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher sends purchase events to a durable topic exchange.
type Publisher struct {
	conn     *amqp091.Connection
	exchange string
	log      *logger.Logger

	mu sync.Mutex
	ch channel
}

var _ interfaces.IEventPublisher = (*Publisher)(nil)

func NewPublisher(amqpURL, exchange string, log *logger.Logger) (*Publisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	p := &Publisher{conn: conn, exchange: exchange, log: log, ch: ch}
	if err := p.declare(ch); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) declare(ch channel) error {
	return ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil)
}

func (p *Publisher) PublishPurchaseEvent(ctx context.Context, event entities.PurchaseEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    event.EventID,
		Timestamp:    event.OccurredAt,
		Type:         event.RoutingKey(),
		Body:         body,
	}
	ctx = p.log.WithFields(ctx, map[string]any{"component": "messaging.publisher", "order_id": event.OrderID, "routing_key": event.RoutingKey()})

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg)
	if err == nil {
		return nil
	}
	p.log.Warn(p.log.WithField(ctx, "error", err.Error()), "publish failed; reopening channel")
	if rerr := p.reopen(); rerr != nil {
		return errors.Join(err, rerr)
	}
	return p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg)
}

func (p *Publisher) reopen() error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp091.ErrClosed
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	if err := p.declare(ch); err != nil {
		ch.Close()
		return err
	}
	_ = p.ch.Close()
	p.ch = ch
	return nil
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Fallback is used when the broker is unavailable at startup; events are
// logged and dropped.
type Fallback struct {
	Log *logger.Logger
}

var _ interfaces.IEventPublisher = Fallback{}

func (f Fallback) PublishPurchaseEvent(ctx context.Context, event entities.PurchaseEvent) error {
	log := f.Log
	if log == nil {
		log = logger.Nop()
	}
	log.Warn(log.WithFields(ctx, map[string]any{
		"component":   "messaging.publisher",
		"mode":        "fallback",
		"order_id":    event.OrderID,
		"routing_key": event.RoutingKey(),
	}), "publish skipped")
	return nil
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if idx := strings.Index(strings.ToLower(clean), "amqp"); idx > 0 {
		clean = clean[idx:]
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}
