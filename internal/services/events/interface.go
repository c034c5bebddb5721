package events

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/KirkDiggler/minority/internal/services/events Publisher

import "context"

// Publisher is the interface for emitting audit notifications
type Publisher interface {
	// Publish emits one event to every subscribed observer
	Publish(ctx context.Context, input *PublishInput) error
}
