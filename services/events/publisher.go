package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/chatmesh/mailstack/interfaces"
	"github.com/chatmesh/mailstack/internal/logger"
	"github.com/chatmesh/mailstack/internal/tracing"
)

const (
	ExchangeMailstackDirect = "mailstack-direct"
	QueueReceiveMessage     = "receive-message"
	RoutingKeyReceiveMsg    = "mailstack-receive-message"

	DefaultPublishTimeout = 5 * time.Second
)

type RabbitMQPublisher struct {
	connection     *amqp091.Connection
	publishChannel *amqp091.Channel
	publishMutex   sync.Mutex
	url            string
	logger         logger.Logger
}

func NewRabbitMQPublisher(rabbitmqURL string, logger logger.Logger) (*RabbitMQPublisher, error) {
	publisher := &RabbitMQPublisher{
		url:    rabbitmqURL,
		logger: logger,
	}

	if err := publisher.connect(); err != nil {
		return nil, err
	}

	return publisher, nil
}

func (p *RabbitMQPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to open publish channel")
	}

	if err := channel.ExchangeDeclare(ExchangeMailstackDirect, "direct", true, false, false, false, nil); err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to declare exchange")
	}

	queue, err := channel.QueueDeclare(QueueReceiveMessage, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to declare queue")
	}

	if err := channel.QueueBind(queue.Name, RoutingKeyReceiveMsg, ExchangeMailstackDirect, false, nil); err != nil {
		conn.Close()
		return errors.Wrap(err, "failed to bind queue")
	}

	p.connection = conn
	p.publishChannel = channel
	return nil
}

// PublishMailEvent publishes a fetched-message event for downstream
// processing.
func (p *RabbitMQPublisher) PublishMailEvent(ctx context.Context, event interfaces.MailEvent) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "RabbitMQPublisher.PublishMailEvent")
	defer span.Finish()
	span.SetTag("event.folder", event.Folder)
	span.SetTag("event.type", event.EventType)

	body, err := json.Marshal(event)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to marshal mail event")
	}

	p.publishMutex.Lock()
	defer p.publishMutex.Unlock()

	publishCtx, cancel := context.WithTimeout(ctx, DefaultPublishTimeout)
	defer cancel()

	err = p.publishChannel.PublishWithContext(
		publishCtx,
		ExchangeMailstackDirect,
		RoutingKeyReceiveMsg,
		false,
		false,
		amqp091.Publishing{
			MessageId:    uuid.New().String(),
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "failed to publish mail event")
	}

	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.publishMutex.Lock()
	defer p.publishMutex.Unlock()

	if p.publishChannel != nil {
		if err := p.publishChannel.Close(); err != nil {
			p.logger.Warnf("Error closing publish channel: %v", err)
		}
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}
