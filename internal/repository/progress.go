package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/model"
)

// ProgressRepository holds per-user completion and snooze state.
type ProgressRepository interface {
	Progress(ctx context.Context, userID string) ([]*model.ObjectiveProgress, error)
	ObjectiveProgress(ctx context.Context, userID string, objectiveID int64) (*model.ObjectiveProgress, error)
	CompleteObjective(ctx context.Context, userID string, objectiveID int64, completedAt time.Time) (bool, error)
	Snoozes(ctx context.Context, userID string) ([]*model.SnoozeRecord, error)
	UpsertSnooze(ctx context.Context, snooze *model.SnoozeRecord) error
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Progress(ctx context.Context, userID string) ([]*model.ObjectiveProgress, error) {
	var progress []*model.ObjectiveProgress
	query := `SELECT * FROM objective_progress WHERE user_id = $1 ORDER BY objective_id ASC`

	err := r.db.SelectContext(ctx, &progress, query, userID)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// ObjectiveProgress returns nil without error when the user never completed the objective.
func (r *progressRepository) ObjectiveProgress(ctx context.Context, userID string, objectiveID int64) (*model.ObjectiveProgress, error) {
	var progress []*model.ObjectiveProgress
	query := `SELECT * FROM objective_progress WHERE user_id = $1 AND objective_id = $2`

	err := r.db.SelectContext(ctx, &progress, query, userID, objectiveID)
	if err != nil {
		return nil, err
	}
	if len(progress) == 0 {
		return nil, nil
	}

	return progress[0], nil
}

// CompleteObjective moves (user, objective) to complete with a single guarded
// statement. It returns true only for the call that performed the transition;
// a row that is already complete is left untouched and yields false.
func (r *progressRepository) CompleteObjective(ctx context.Context, userID string, objectiveID int64, completedAt time.Time) (bool, error) {
	query := `INSERT INTO objective_progress (id, user_id, objective_id, status, completed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id, objective_id) DO UPDATE
	          SET status = excluded.status, completed_at = excluded.completed_at
	          WHERE objective_progress.status <> excluded.status`

	result, err := r.db.ExecContext(ctx, query,
		uuid.New().String(),
		userID,
		objectiveID,
		model.ObjectiveStatusComplete,
		completedAt,
		completedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete objective %d: %w", objectiveID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// Snoozes returns every snooze the user ever set, expired ones included.
func (r *progressRepository) Snoozes(ctx context.Context, userID string) ([]*model.SnoozeRecord, error) {
	var snoozes []*model.SnoozeRecord
	query := `SELECT * FROM snoozes WHERE user_id = $1`

	err := r.db.SelectContext(ctx, &snoozes, query, userID)
	if err != nil {
		return nil, err
	}

	return snoozes, nil
}

// UpsertSnooze overwrites any previous snooze for the same objective.
func (r *progressRepository) UpsertSnooze(ctx context.Context, snooze *model.SnoozeRecord) error {
	query := `INSERT INTO snoozes (user_id, objective_id, snoozed_at, snoozed_until)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, objective_id) DO UPDATE
	          SET snoozed_at = excluded.snoozed_at, snoozed_until = excluded.snoozed_until`

	_, err := r.db.ExecContext(ctx, query,
		snooze.UserID,
		snooze.ObjectiveID,
		snooze.SnoozedAt,
		snooze.SnoozedUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to snooze objective %d: %w", snooze.ObjectiveID, err)
	}

	return nil
}
