package events

import "context"

// Publisher emits engine events to an external broker. The engine itself
// never blocks on delivery semantics beyond the returned error.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// NoopPublisher drops events. Used when no broker is configured and in tests.
type NoopPublisher struct{}

// Publish discards the event
func (NoopPublisher) Publish(_ context.Context, _ any) error {
	return nil
}

var _ Publisher = NoopPublisher{}
