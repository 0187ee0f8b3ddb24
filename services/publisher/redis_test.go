package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// This test requires a running Redis instance
// If Redis is not available, the test will be skipped
func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	const stream = "test_price_observations"
	client.Del(ctx, stream)

	pub := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 10)
	defer pub.Close()

	err := pub.Publish([]byte("test_message"))
	assert.NoError(t, err)

	// Read the entry back and verify the base64 payload
	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "dGVzdF9tZXNzYWdl", entries[0].Values[messageField])

	// The stream stays trimmed around the configured maximum
	for i := 0; i < 50; i++ {
		assert.NoError(t, pub.Publish([]byte("filler")))
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		length, err := client.XLen(ctx, stream).Result()
		assert.NoError(t, err)
		if length <= 20 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	client.Del(ctx, stream)
}
