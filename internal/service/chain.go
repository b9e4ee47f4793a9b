package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/toucann/taskengine/internal/events"
	"github.com/toucann/taskengine/internal/model"
	"github.com/toucann/taskengine/internal/repository"
)

const (
	ChainModePreactivated = "preactivated"
	ChainModeGated        = "gated"
)

// ChainAdvancer runs once a user's goal is derived complete. Every step is
// idempotent, so calling it again for the same (user, goal) only repeats reads.
type ChainAdvancer struct {
	state     repository.GoalStateRepository
	publisher events.Publisher
	gated     bool
}

func NewChainAdvancer(state repository.GoalStateRepository, publisher events.Publisher, chainMode string) *ChainAdvancer {
	return &ChainAdvancer{
		state:     state,
		publisher: publisher,
		gated:     chainMode == ChainModeGated,
	}
}

func (c *ChainAdvancer) Gated() bool {
	return c.gated
}

// OnGoalComplete records the completion and advances the chain to goal.NextGoalID.
// Only the call that first records the completion emits goal.completed; in
// gated mode the unlock write decides who emits goal.chain_advanced.
func (c *ChainAdvancer) OnGoalComplete(ctx context.Context, userID string, goal *model.Goal, at time.Time) error {
	first, err := c.state.RecordCompletion(ctx, userID, goal.ID, at)
	if err != nil {
		return fmt.Errorf("failed to record goal completion: %w", err)
	}

	if first {
		e := events.New(events.GoalCompleted, userID, at)
		e.GoalID = goal.ID
		c.publish(ctx, e)
	}

	if !goal.HasNext() {
		return nil
	}

	advanced := first
	if c.gated {
		advanced, err = c.state.Unlock(ctx, userID, *goal.NextGoalID, at)
		if err != nil {
			return fmt.Errorf("failed to unlock goal %d: %w", *goal.NextGoalID, err)
		}
	}

	if advanced {
		slog.Info("goal chain advanced", "user_id", userID, "goal_id", goal.ID, "next_goal_id", *goal.NextGoalID)

		e := events.New(events.GoalChainAdvanced, userID, at)
		e.GoalID = goal.ID
		e.NextGoalID = *goal.NextGoalID
		c.publish(ctx, e)
	}

	return nil
}

func (c *ChainAdvancer) publish(ctx context.Context, e events.Event) {
	err := c.publisher.Publish(ctx, e)
	if err != nil {
		slog.Error("failed to publish event", "error", err, "type", e.Type, "user_id", e.UserID)
	}
}
