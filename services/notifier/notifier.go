package notifier

import "context"

// Notifier represents a service for sending short text messages to a
// single preconfigured recipient
type Notifier interface {
	// Send transmits text to the configured recipient
	Send(ctx context.Context, text string) error

	// Close releases the notifier's resources
	Close() error
}
