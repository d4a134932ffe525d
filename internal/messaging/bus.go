// internal/messaging/bus.go
package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type ChangeHandler func(CatalogChange)

type Publisher interface {
	PublishCatalogChange(ctx context.Context, change CatalogChange) error
}

// Bus carries catalog changes between the admin API and every catalog
// instance, including the one that published.
type Bus interface {
	Publisher
	Subscribe(handler ChangeHandler) error
	Close() error
}

type RabbitBus struct {
	conn   *amqp.Connection
	prefix string
}

func NewRabbitBus(url, prefix string) (*RabbitBus, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	defer ch.Close()

	if err := DefineTopic(ch, prefix, CatalogChanged); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", CatalogChanged, err)
	}

	return &RabbitBus{conn: conn, prefix: prefix}, nil
}

func (b *RabbitBus) PublishCatalogChange(ctx context.Context, change CatalogChange) error {
	return SendChange(ctx, b.conn, b.prefix, CatalogChanged, change)
}

func (b *RabbitBus) Subscribe(handler ChangeHandler) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ListenToTopic(ch, b.prefix, CatalogChanged, func(d amqp.Delivery) error {
		var change CatalogChange
		if err := sonic.Unmarshal(d.Body, &change); err != nil {
			return fmt.Errorf("failed to decode catalog change: %w", err)
		}
		handler(change)
		return nil
	})
	if err != nil {
		ch.Close()
		return err
	}

	logrus.WithField("topic", getName(b.prefix, CatalogChanged)).Info("Listening for catalog changes")
	return nil
}

func (b *RabbitBus) Close() error {
	return b.conn.Close()
}

// LocalBus delivers changes to in-process subscribers synchronously. Used
// when no broker is configured.
type LocalBus struct {
	mu       sync.RWMutex
	handlers []ChangeHandler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

func (b *LocalBus) PublishCatalogChange(_ context.Context, change CatalogChange) error {
	b.mu.RLock()
	handlers := append([]ChangeHandler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(change)
	}
	return nil
}

func (b *LocalBus) Subscribe(handler ChangeHandler) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
	return nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
	return nil
}
