package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/toucann/taskengine/internal/model"
	"github.com/toucann/taskengine/internal/repository"
)

// Goal builds an active goal whose objectives have ids goalID*100+i, sort_order i
// and the given points. All objectives are required.
func Goal(goalID int64, points ...int) *model.Goal {
	g := &model.Goal{
		ID:                  goalID,
		Title:               "Goal",
		Active:              true,
		ActivationCondition: model.ActivationOnComplete,
	}
	for i, p := range points {
		g.Objectives = append(g.Objectives, &model.Objective{
			ID:        ObjectiveID(goalID, i),
			GoalID:    goalID,
			Title:     "Objective",
			Points:    p,
			SortOrder: i,
			Required:  true,
		})
	}
	return g
}

func ObjectiveID(goalID int64, index int) int64 {
	return goalID*100 + int64(index)
}

// Link sets from.next_goal_id to to.
func Link(from, to *model.Goal) {
	id := to.ID
	from.NextGoalID = &id
	from.ActivationCondition = model.ActivationOnComplete
}

func SeedGoals(tb testing.TB, ctx context.Context, database *sqlx.DB, goals ...*model.Goal) {
	tb.Helper()
	repo := repository.NewGoalRepository(database)
	for _, g := range goals {
		if err := repo.Upsert(ctx, g); err != nil {
			tb.Fatalf("seed goal %d: %v", g.ID, err)
		}
	}
}

// Count returns the number of rows in table.
func Count(tb testing.TB, database *sqlx.DB, table string) int {
	tb.Helper()
	var n int
	if err := database.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}
