package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEnvelope(t *testing.T) {
	sentAt := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	data, err := encodeEnvelope("user-1", "payout.completed", map[string]string{"payoutID": "p-1"}, sentAt)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, "payout.completed", env.Event)
	assert.Equal(t, "user-1", env.UserID)
	assert.True(t, sentAt.Equal(env.SentAt))
	assert.JSONEq(t, `{"payoutID":"p-1"}`, string(env.Payload))
}

func TestEncodeEnvelope_UnencodablePayload(t *testing.T) {
	_, err := encodeEnvelope("user-1", "payout.completed", make(chan int), time.Now())
	assert.Error(t, err)
}

func TestRedisNotifier_Channels(t *testing.T) {
	n := NewRedisNotifier(nil, "farmer-events")
	assert.Equal(t, "farmer-events:user-1", n.ChannelFor("user-1"))
	assert.Equal(t, "farmer-events:inbox:user-1", n.inboxFor("user-1"))
}

func TestRedisNotifier_EmitFailsWhenRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	err := NewRedisNotifier(client, "farmer-events").EmitToUser(context.Background(), "user-1", "payout.completed", nil)
	assert.Error(t, err)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}
