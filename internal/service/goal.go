package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/toucann/taskengine/internal/catalog"
	"github.com/toucann/taskengine/internal/repository"
)

// GoalService imports the authored catalog. The engine itself never writes goals.
type GoalService struct {
	repo repository.GoalRepository
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
	}
}

type ImportResult struct {
	Goals      int
	Objectives int
}

// Import parses a catalog document and upserts every goal in it.
func (s *GoalService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	doc, err := catalog.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, goal := range doc.Models() {
		err = s.repo.Upsert(ctx, goal)
		if err != nil {
			return nil, fmt.Errorf("failed to import goal %d: %w", goal.ID, err)
		}

		result.Goals++
		result.Objectives += len(goal.Objectives)
		slog.Debug("imported goal", "goal_id", goal.ID, "objectives", len(goal.Objectives))
	}

	slog.Info("catalog imported", "goals", result.Goals, "objectives", result.Objectives)

	return result, nil
}
