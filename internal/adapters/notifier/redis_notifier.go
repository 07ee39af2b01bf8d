package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/farm_payouts/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

// inboxSize bounds the per-user backlog kept for clients that were offline.
const inboxSize = 100

// Connect parses a redis:// URL and returns a pinged client.
func Connect(ctx context.Context, uri string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// Envelope is the message delivered to a user's channel.
type Envelope struct {
	Event   string          `json:"event"`
	UserID  string          `json:"userID"`
	SentAt  time.Time       `json:"sentAt"`
	Payload json.RawMessage `json:"payload"`
}

// RedisNotifier publishes events on a per-user channel and keeps a short inbox list.
type RedisNotifier struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisNotifier creates a notifier publishing to "<prefix>:<userID>".
func NewRedisNotifier(client *redis.Client, prefix string) *RedisNotifier {
	return &RedisNotifier{client: client, prefix: prefix, now: func() time.Time { return time.Now().UTC() }}
}

// Ensure RedisNotifier implements gateways.Notifier
var _ gateways.Notifier = (*RedisNotifier)(nil)

// ChannelFor returns the pub/sub channel for a user.
func (n *RedisNotifier) ChannelFor(userID string) string {
	return n.prefix + ":" + userID
}

func (n *RedisNotifier) inboxFor(userID string) string {
	return n.prefix + ":inbox:" + userID
}

// EmitToUser implements gateways.Notifier.
func (n *RedisNotifier) EmitToUser(ctx context.Context, userID string, event string, payload any) error {
	data, err := encodeEnvelope(userID, event, payload, n.now())
	if err != nil {
		return err
	}

	_, err = n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, n.ChannelFor(userID), data)
		pipe.LPush(ctx, n.inboxFor(userID), data)
		pipe.LTrim(ctx, n.inboxFor(userID), 0, inboxSize-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s to user %s: %w", event, userID, err)
	}
	return nil
}

func encodeEnvelope(userID, event string, payload any, sentAt time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	data, err := json.Marshal(Envelope{Event: event, UserID: userID, SentAt: sentAt, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s envelope: %w", event, err)
	}
	return data, nil
}
