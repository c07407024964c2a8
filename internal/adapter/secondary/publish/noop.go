package publish

import "namaz-cli/internal/domain"

// NoopPublisher implements domain.Publisher with no-op behavior.
// Used when MQTT is disabled.
type NoopPublisher struct{}

// NewNoopPublisher creates a new no-op publisher.
func NewNoopPublisher() domain.Publisher {
	return &NoopPublisher{}
}

// PublishNext does nothing and always succeeds.
func (n *NoopPublisher) PublishNext(event domain.NextPrayerEvent) error {
	return nil
}

func (n *NoopPublisher) Close() {}
