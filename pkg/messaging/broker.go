package messaging

import "context"

// Broker carries change notifications between the API, the outbox
// worker and feed subscribers.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}
