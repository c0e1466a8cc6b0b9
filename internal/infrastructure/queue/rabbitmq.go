package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hszk-dev/gotube/internal/domain/repository"
)

// RetryHeader mirrors MediaTask.RetryCount so operators can read it in the
// management UI without decoding the body.
const RetryHeader = "x-retry-count"

// ClientConfig holds configuration for the RabbitMQ client.
type ClientConfig struct {
	URL             string
	Queue           string
	DeadLetterQueue string // receives malformed tasks and tasks that could not be retried
	Prefetch        int
	ConsumerTag     string
}

// NewClientConfig names both queues after the media task queue.
// Prefetch=1 keeps one download per worker in flight.
func NewClientConfig(url string) ClientConfig {
	return ClientConfig{
		URL:             url,
		Queue:           "media_tasks",
		DeadLetterQueue: "media_tasks.dead",
		Prefetch:        1,
	}
}

type amqpConnection interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Close() error
}

// Client implements repository.MessageQueue over the default exchange.
type Client struct {
	conn    amqpConnection
	channel amqpChannel
	config  ClientConfig
}

var _ repository.MessageQueue = (*Client)(nil)

// NewClient dials the broker and declares both queues.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Client{conn: conn, channel: ch, config: cfg}
	if err := c.setup(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// setup applies QoS and declares the dead-letter queue before the work queue
// that points at it.
func (c *Client) setup() error {
	if err := c.channel.Qos(c.config.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if c.config.DeadLetterQueue != "" {
		if _, err := c.channel.QueueDeclare(c.config.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead-letter queue: %w", err)
		}
	}

	var args amqp.Table
	if c.config.DeadLetterQueue != "" {
		args = amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": c.config.DeadLetterQueue,
		}
	}
	if _, err := c.channel.QueueDeclare(c.config.Queue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	return nil
}

// PublishMediaTask sends task as a persistent JSON message.
func (c *Client) PublishMediaTask(ctx context.Context, task repository.MediaTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	err = c.channel.PublishWithContext(ctx, "", c.config.Queue, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         string(task.Kind),
		Headers:      amqp.Table{RetryHeader: int32(task.RetryCount)},
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s task: %w", task.Kind, err)
	}
	return nil
}

// ConsumeMediaTasks hands each delivery to handler until ctx is done.
//
// A task the handler fails is republished with RetryCount+1 and the original
// is acked; Nack(requeue=true) would redeliver it with the old count forever.
// Malformed deliveries, unknown kinds and failed republishes are nacked
// without requeue, which routes them to the dead-letter queue. A task that
// fails after ctx is done is left unacked.
func (c *Client) ConsumeMediaTasks(ctx context.Context, handler repository.MediaTaskHandler) error {
	msgs, err := c.channel.Consume(c.config.Queue, c.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, msg amqp.Delivery, handler repository.MediaTaskHandler) {
	var task repository.MediaTask
	if err := json.Unmarshal(msg.Body, &task); err != nil || !task.Kind.IsValid() {
		slog.Warn("dead-lettering malformed media task",
			slog.String("message_id", msg.MessageId),
			slog.Int("body_size", len(msg.Body)),
			slog.Any("error", err),
		)
		_ = msg.Nack(false, false)
		return
	}

	if err := handler(ctx, task); err == nil {
		_ = msg.Ack(false)
		return
	}
	if ctx.Err() != nil {
		// Shutting down: leave it unacked so the broker redelivers it as is.
		return
	}

	task.RetryCount++
	if err := c.PublishMediaTask(ctx, task); err != nil {
		slog.Error("failed to republish media task",
			slog.String("kind", string(task.Kind)),
			slog.String("video_id", task.VideoID.String()),
			slog.Int("retry_count", task.RetryCount),
			slog.Any("error", err),
		)
		_ = msg.Nack(false, false)
		return
	}
	_ = msg.Ack(false)
}

// Close closes the channel, then the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
