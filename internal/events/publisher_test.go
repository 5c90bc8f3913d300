package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamValues(t *testing.T) {
	event := LedgerEvent{
		Type:       BetSettled,
		UserID:     7,
		Amount:     decimal.RequireFromString("350"),
		Balance:    decimal.RequireFromString("1250.50"),
		BetID:      3,
		Status:     "won",
		OccurredAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}

	values, err := streamValues(event)
	require.NoError(t, err)
	assert.Equal(t, "bet.settled", values["type"])
	assert.EqualValues(t, 7, values["user_id"])

	var decoded LedgerEvent
	require.NoError(t, json.Unmarshal([]byte(values["event"].(string)), &decoded))
	assert.True(t, decoded.Balance.Equal(event.Balance))
	assert.Equal(t, event.BetID, decoded.BetID)
	assert.True(t, decoded.OccurredAt.Equal(event.OccurredAt))
}

func TestNewStreamPublisherFromURLRejectsBadURL(t *testing.T) {
	_, err := NewStreamPublisherFromURL(context.Background(), "not-a-url", "ledger.events")
	assert.Error(t, err)
}

func TestMemoryPublisher(t *testing.T) {
	pub := &MemoryPublisher{}
	require.NoError(t, pub.Publish(context.Background(), LedgerEvent{Type: BetPlaced}))
	require.NoError(t, pub.Publish(context.Background(), LedgerEvent{Type: BetCancelled}))

	got := pub.Events()
	require.Len(t, got, 2)
	assert.Equal(t, BetCancelled, got[1].Type)

	pub.Err = errors.New("down")
	assert.Error(t, pub.Publish(context.Background(), LedgerEvent{}))
	assert.Len(t, pub.Events(), 2)

	assert.NoError(t, NopPublisher{}.Publish(context.Background(), LedgerEvent{}))
}
