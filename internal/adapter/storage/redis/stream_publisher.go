package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Stream entry field names read by consumers.
const (
	FieldKey     = "key"
	FieldPayload = "payload"
)

// StreamPublisher implements ports.EventPublisher on Redis Streams. Each
// topic is a stream; entries carry the message key and the JSON payload.
type StreamPublisher struct {
	client goredis.UniversalClient
	maxLen int64
}

// NewStreamPublisher creates a publisher. maxLen > 0 caps every stream
// approximately at that many entries.
func NewStreamPublisher(client goredis.UniversalClient, maxLen int64) *StreamPublisher {
	return &StreamPublisher{client: client, maxLen: maxLen}
}

// Publish appends one entry to the topic stream. The call returns once
// Redis acknowledged the XADD.
func (p *StreamPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := &goredis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			FieldKey:     key,
			FieldPayload: payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", topic, err)
	}
	return nil
}
