package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/model"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrObjectiveNotFound = errors.New("objective not found")
)

// GoalRepository reads the authored goal catalog. Upsert exists only for imports.
type GoalRepository interface {
	Goals(ctx context.Context) ([]*model.Goal, error)
	ByID(ctx context.Context, goalID int64) (*model.Goal, error)
	Objective(ctx context.Context, objectiveID int64) (*model.Objective, error)
	Upsert(ctx context.Context, goal *model.Goal) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

// Goals returns every goal with its objectives, goals by id and objectives by sort_order.
func (r *goalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	err := r.db.SelectContext(ctx, &goals, `SELECT * FROM goals ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	var objectives []*model.Objective
	err = r.db.SelectContext(ctx, &objectives, `SELECT * FROM objectives WHERE retired = FALSE ORDER BY goal_id ASC, sort_order ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}

	byID := make(map[int64]*model.Goal, len(goals))
	for _, g := range goals {
		byID[g.ID] = g
	}
	for _, o := range objectives {
		if g, ok := byID[o.GoalID]; ok {
			g.Objectives = append(g.Objectives, o)
		}
	}

	return goals, nil
}

func (r *goalRepository) ByID(ctx context.Context, goalID int64) (*model.Goal, error) {
	goal := &model.Goal{}
	err := r.db.GetContext(ctx, goal, `SELECT * FROM goals WHERE id = $1`, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM objectives WHERE goal_id = $1 AND retired = FALSE ORDER BY sort_order ASC`
	err = r.db.SelectContext(ctx, &goal.Objectives, query, goalID)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Objective(ctx context.Context, objectiveID int64) (*model.Objective, error) {
	objective := &model.Objective{}
	err := r.db.GetContext(ctx, objective, `SELECT * FROM objectives WHERE id = $1 AND retired = FALSE`, objectiveID)
	if err == sql.ErrNoRows {
		return nil, ErrObjectiveNotFound
	}

	return objective, err
}

// Upsert writes a goal and its objectives in one transaction. goal.Objectives
// is the complete list: objectives of the goal missing from it are retired
// rather than deleted so existing progress survives.
func (r *goalRepository) Upsert(ctx context.Context, goal *model.Goal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	if goal.ActivationCondition == "" {
		goal.ActivationCondition = model.ActivationOnComplete
	}

	goalQuery := `INSERT INTO goals (id, title, description, active, next_goal_id, activation_condition, starts_at, expires_at, created_at, updated_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	              ON CONFLICT (id) DO UPDATE
	              SET title = excluded.title, description = excluded.description, active = excluded.active,
	                  next_goal_id = excluded.next_goal_id, activation_condition = excluded.activation_condition,
	                  starts_at = excluded.starts_at, expires_at = excluded.expires_at, updated_at = excluded.updated_at`

	_, err = tx.ExecContext(ctx, goalQuery,
		goal.ID,
		goal.Title,
		goal.Description,
		goal.Active,
		goal.NextGoalID,
		goal.ActivationCondition,
		goal.StartsAt,
		goal.ExpiresAt,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert goal %d: %w", goal.ID, err)
	}

	// Retire everything first and park sort orders at -id (unique, never a
	// valid sort_order) so reordering cannot trip UNIQUE(goal_id, sort_order).
	_, err = tx.ExecContext(ctx, `UPDATE objectives SET retired = TRUE, sort_order = -id WHERE goal_id = $1`, goal.ID)
	if err != nil {
		return fmt.Errorf("failed to retire objectives of goal %d: %w", goal.ID, err)
	}

	objectiveQuery := `INSERT INTO objectives (id, goal_id, title, description, points, sort_order, required, retired)
	                   VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
	                   ON CONFLICT (id) DO UPDATE
	                   SET goal_id = excluded.goal_id, title = excluded.title, description = excluded.description,
	                       points = excluded.points, sort_order = excluded.sort_order, required = excluded.required,
	                       retired = FALSE`

	for _, o := range goal.Objectives {
		if o.SortOrder < 0 {
			return fmt.Errorf("objective %d: sort_order must not be negative", o.ID)
		}
		o.GoalID = goal.ID
		o.Retired = false
		_, err = tx.ExecContext(ctx, objectiveQuery,
			o.ID,
			o.GoalID,
			o.Title,
			o.Description,
			o.Points,
			o.SortOrder,
			o.Required,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert objective %d: %w", o.ID, err)
		}
	}

	return tx.Commit()
}
