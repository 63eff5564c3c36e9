// Package events publishes order lifecycle notifications for downstream
// consumers such as kitchen displays and social posting workers.
package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

type Event struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurantId"`
	OrderNumber  string    `json:"orderNumber"`
	Status       string    `json:"status"`
	Total        float64   `json:"total,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// New stamps an event with a fresh id.
func New(eventType, restaurantID, orderNumber, status string, occurredAt time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		RestaurantID: restaurantID,
		OrderNumber:  orderNumber,
		Status:       status,
		OccurredAt:   occurredAt.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

// NewKafkaWriter builds an async writer for a comma separated broker list.
// Delivery failures are reported through Completion, so request handlers
// never block on an unreachable broker.
func NewKafkaWriter(brokers, topic string) *kafka.Writer {
	addrs := []string{}
	for _, broker := range strings.Split(brokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			addrs = append(addrs, broker)
		}
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(addrs...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion:             logDeliveryFailure,
	}
}

func logDeliveryFailure(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	log.Printf("[EVENTS] [WARN] delivery of %d message(s) failed: %v", len(messages), err)
}

// Publish keys messages by restaurant so one restaurant's events stay in
// order on a single partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RestaurantID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// PublishBestEffort logs instead of failing; an order is never rolled back
// because a notification could not be sent.
func PublishBestEffort(ctx context.Context, publisher Publisher, event Event) {
	if publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, event); err != nil {
		log.Printf("[EVENTS] [WARN] publish %s for order %s failed: %v", event.Type, event.OrderNumber, err)
	}
}
