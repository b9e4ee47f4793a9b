package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/model"
)

// GoalStateRepository records per-user goal milestones: first completion and chain unlocks.
type GoalStateRepository interface {
	RecordCompletion(ctx context.Context, userID string, goalID int64, completedAt time.Time) (bool, error)
	Completions(ctx context.Context, userID string) ([]*model.GoalCompletion, error)
	Unlock(ctx context.Context, userID string, goalID int64, unlockedAt time.Time) (bool, error)
	Unlocks(ctx context.Context, userID string) ([]*model.GoalUnlock, error)
}

type goalStateRepository struct {
	db *sqlx.DB
}

func NewGoalStateRepository(db *sqlx.DB) GoalStateRepository {
	return &goalStateRepository{db: db}
}

// RecordCompletion returns true only for the first record of (user, goal).
func (r *goalStateRepository) RecordCompletion(ctx context.Context, userID string, goalID int64, completedAt time.Time) (bool, error) {
	query := `INSERT INTO goal_completions (user_id, goal_id, completed_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, goal_id) DO NOTHING`

	return r.insertOnce(ctx, query, userID, goalID, completedAt)
}

func (r *goalStateRepository) Completions(ctx context.Context, userID string) ([]*model.GoalCompletion, error) {
	var completions []*model.GoalCompletion
	query := `SELECT * FROM goal_completions WHERE user_id = $1 ORDER BY goal_id ASC`

	err := r.db.SelectContext(ctx, &completions, query, userID)
	if err != nil {
		return nil, err
	}

	return completions, nil
}

// Unlock returns true only when the goal was not already unlocked for the user.
func (r *goalStateRepository) Unlock(ctx context.Context, userID string, goalID int64, unlockedAt time.Time) (bool, error) {
	query := `INSERT INTO goal_unlocks (user_id, goal_id, unlocked_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, goal_id) DO NOTHING`

	return r.insertOnce(ctx, query, userID, goalID, unlockedAt)
}

func (r *goalStateRepository) Unlocks(ctx context.Context, userID string) ([]*model.GoalUnlock, error) {
	var unlocks []*model.GoalUnlock
	query := `SELECT * FROM goal_unlocks WHERE user_id = $1 ORDER BY goal_id ASC`

	err := r.db.SelectContext(ctx, &unlocks, query, userID)
	if err != nil {
		return nil, err
	}

	return unlocks, nil
}

func (r *goalStateRepository) insertOnce(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}
