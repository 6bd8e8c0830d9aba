package ports

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import "context"

// EventPublisher delivers one message to the bus. A returned error, including
// a context deadline, counts as a failed attempt.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}
