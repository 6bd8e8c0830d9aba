package broker

import (
	"context"

	"banking-core/pkg/logger"

	"github.com/rs/zerolog"
)

// LogPublisher writes every event to the log instead of a bus. Local runs only.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: logger.Component(log, "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.log.Info().
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("event published")
	return nil
}
