// Package events carries engine notifications (completions, snoozes, chain
// advances) to whatever listens for them: logs in development, a Redis
// pub/sub channel in production.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ObjectiveCompleted = "objective.completed"
	ObjectiveSnoozed   = "objective.snoozed"
	GoalCompleted      = "goal.completed"
	GoalChainAdvanced  = "goal.chain_advanced"
)

type Event struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	UserID       string     `json:"user_id"`
	GoalID       int64      `json:"goal_id,omitempty"`
	ObjectiveID  int64      `json:"objective_id,omitempty"`
	NextGoalID   int64      `json:"next_goal_id,omitempty"`
	Points       int        `json:"points,omitempty"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

func New(eventType, userID string, at time.Time) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: at.UTC(),
	}
}

// Publisher delivers events. Callers treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
