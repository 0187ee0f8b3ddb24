package publisher

// Publisher represents a service for publishing observations to a
// stream for downstream consumers
type Publisher interface {
	// Publish publishes a message to the stream
	Publish(message []byte) error

	// Close closes the publisher connection
	Close() error
}
