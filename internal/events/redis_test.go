package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisPublisher_BadURL(t *testing.T) {
	_, err := NewRedisPublisher("not a url", "")
	assert.Error(t, err)
}

// Requires a running Redis, e.g. TEST_REDIS_URL=redis://localhost:6379/0
func TestRedisPublisher_Publish(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channel := "taskengine.test." + New(GoalCompleted, "x", time.Now()).ID

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	subscriber := redis.NewClient(opts)
	defer subscriber.Close()

	sub := subscriber.Subscribe(ctx, channel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	pub, err := NewRedisPublisher(url, channel)
	require.NoError(t, err)
	defer pub.Close()

	e := New(GoalCompleted, "user-1", time.Now())
	e.GoalID = 7
	require.NoError(t, pub.Publish(ctx, e))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, GoalCompleted, got.Type)
	assert.Equal(t, int64(7), got.GoalID)
}
