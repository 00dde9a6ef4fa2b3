package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/vacation-portal/internal/metrics"
)

// Publisher sends session events to RabbitMQ.  Each publish opens its own
// connection.
type Publisher struct {
	url string
	log *slog.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, log: logger.With("component", "session-publisher")}
}

// defaultDialTimeout bounds the dial and handshake when ctx has no deadline.
const defaultDialTimeout = 5 * time.Second

// Publish sends ev to the session.events queue as a persistent message.
// Errors are logged and returned; callers are free to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev SessionEvent) error {
	err := p.publish(ctx, ev)
	status := "ok"
	if err != nil {
		status = "error"
		p.log.WarnContext(ctx, "session event publish failed", "type", ev.Type, "error", err)
	}
	metrics.SessionEventsPublished.WithLabelValues(string(ev.Type), status).Inc()
	return err
}

func (p *Publisher) publish(ctx context.Context, ev SessionEvent) error {
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(SessionQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",               // default exchange
		SessionQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         string(ev.Type),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// dialTimeout is what remains of ctx's deadline, so a broker that is down
// or hangs during the handshake cannot hold up the caller.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}
