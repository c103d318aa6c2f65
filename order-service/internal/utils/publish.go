package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const OrderEventsChannel = "order_events"

// OrderEvent is what the notification service consumes from OrderEventsChannel.
type OrderEvent struct {
	Type       string    `json:"type"`
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	StaffID    string    `json:"staff_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, OrderEventsChannel, data).Err()
}

type NopPublisher struct{}

func (NopPublisher) Publish(_ context.Context, event OrderEvent) error {
	log.Printf("[EVENTS] (no broker) %s order=%s", event.EventType, event.OrderID)
	return nil
}
