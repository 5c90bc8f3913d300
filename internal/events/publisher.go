package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	BetPlaced           EventType = "bet.placed"
	BetCancelled        EventType = "bet.cancelled"
	BetSettled          EventType = "bet.settled"
	DepositCompleted    EventType = "deposit.completed"
	WithdrawalRequested EventType = "withdrawal.requested"
	WithdrawalApproved  EventType = "withdrawal.approved"
	WithdrawalRejected  EventType = "withdrawal.rejected"
	WalletAdjusted      EventType = "wallet.adjusted"
)

// LedgerEvent describes a committed wallet change.
type LedgerEvent struct {
	Type          EventType       `json:"type"`
	UserID        uint            `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	Reference     string          `json:"reference,omitempty"`
	TransactionID uint            `json:"transactionId,omitempty"`
	BetID         uint            `json:"betId,omitempty"`
	Status        string          `json:"status,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Publisher ships ledger events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}

// StreamPublisher publishes ledger events to a Redis Stream
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		stream: stream,
	}
}

// NewStreamPublisherFromURL connects to Redis at url and verifies the connection
func NewStreamPublisherFromURL(ctx context.Context, url, stream string) (*StreamPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewStreamPublisher(client, stream), nil
}

// Publish appends the event to the stream
func (p *StreamPublisher) Publish(ctx context.Context, event LedgerEvent) error {
	values, err := streamValues(event)
	if err != nil {
		return err
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}

// Close releases the Redis connection
func (p *StreamPublisher) Close() error {
	return p.client.Close()
}

func streamValues(event LedgerEvent) (map[string]interface{}, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger event: %w", err)
	}
	return map[string]interface{}{
		"type":    string(event.Type),
		"user_id": event.UserID,
		"event":   string(payload),
	}, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LedgerEvent) error { return nil }

// MemoryPublisher keeps events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []LedgerEvent
	Err    error
}

func (m *MemoryPublisher) Publish(_ context.Context, event LedgerEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (m *MemoryPublisher) Events() []LedgerEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LedgerEvent(nil), m.events...)
}
