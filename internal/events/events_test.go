package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Envelope(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	e := New(ObjectiveCompleted, "user-1", at)
	e.GoalID = 3
	e.ObjectiveID = 301
	e.Points = 15

	payload, err := Encode(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "objective.completed", decoded["type"])
	assert.Equal(t, "user-1", decoded["user_id"])
	assert.EqualValues(t, 3, decoded["goal_id"])
	assert.EqualValues(t, 301, decoded["objective_id"])
	assert.EqualValues(t, 15, decoded["points"])
	assert.Equal(t, "2025-03-01T11:00:00Z", decoded["occurred_at"])
	assert.NotEmpty(t, decoded["id"])
	assert.NotContains(t, decoded, "snoozed_until")
	assert.NotContains(t, decoded, "next_goal_id")
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New(GoalCompleted, "u", time.Now())
	b := New(GoalCompleted, "u", time.Now())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, New(ObjectiveSnoozed, "u", time.Now())))
	require.NoError(t, r.Publish(ctx, New(GoalCompleted, "u", time.Now())))
	require.NoError(t, r.Publish(ctx, New(ObjectiveSnoozed, "u", time.Now())))

	assert.Len(t, r.Events(), 3)
	assert.Len(t, r.OfType(ObjectiveSnoozed), 2)
	assert.Empty(t, r.OfType(GoalChainAdvanced))

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(ctx, New(GoalCompleted, "u", time.Now())))
	assert.Len(t, r.Events(), 3)
}

func TestLogPublisher_NeverFails(t *testing.T) {
	p := NewLogPublisher()
	assert.NoError(t, p.Publish(context.Background(), New(GoalChainAdvanced, "u", time.Now())))
}
