package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/farmassist/auth-service/internal/application/auth"
	pkgctx "github.com/farmassist/auth-service/internal/pkg/context"
)

const (
	DefaultExchange = "farm.events"

	RoutingKeyUserRegistered = "auth.user.registered"

	confirmWait = 2 * time.Second
)

// Publisher sends domain events to a durable topic exchange in confirm mode.
// One channel is shared and guarded by mu; a broken connection is redialed
// on the next publish.
type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetConn()
	return nil
}

// ---- auth.EventPublisher ----

func (p *Publisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return p.publishJSON(ctx, RoutingKeyUserRegistered, evt)
}

// ---- internal ----

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode: %w", err)
	}

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) ensureConnected() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.resetConn()
	return p.connect()
}

func buildPublishing(ctx context.Context, routingKey string, payload any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal payload: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         routingKey,
		Timestamp:    now.UTC(),
		AppId:        "farm-auth",
		Body:         body,
	}
	if rid := pkgctx.GetRequestID(ctx); rid != "" {
		pub.CorrelationId = rid
	}
	return pub, nil
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, payload any) error {
	msg, err := buildPublishing(ctx, routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureConnected(); err != nil {
		return err
	}

	// drop confirmations left over from a timed-out publish
drain:
	for {
		select {
		case <-p.confirmCh:
		default:
			break drain
		}
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		p.resetConn()
		return fmt.Errorf("publish failed: %w", err)
	}

	select {
	case conf, ok := <-p.confirmCh:
		if !ok {
			p.resetConn()
			return fmt.Errorf("rabbitmq channel closed before confirm: key=%s", routingKey)
		}
		if !conf.Ack {
			return fmt.Errorf("rabbitmq nack: key=%s deliveryTag=%d", routingKey, conf.DeliveryTag)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("rabbitmq confirm: key=%s: %w", routingKey, ctx.Err())
	}
}

func (p *Publisher) resetConn() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.confirmCh = nil
}
