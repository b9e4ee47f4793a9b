package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/toucann/taskengine/internal/events"
	"github.com/toucann/taskengine/internal/model"
	"github.com/toucann/taskengine/internal/repository"
	"github.com/toucann/taskengine/internal/selection"
	"github.com/toucann/taskengine/internal/validation"
)

// TodayResult is the shape returned by Today, Swap and AddAnother.
type TodayResult struct {
	Objective      *model.Objective
	Goal           *model.Goal
	Progress       model.GoalProgress
	AvailableCount int
	Upcoming       []*model.Goal
}

// Empty means nothing is eligible right now ("all caught up").
func (r *TodayResult) Empty() bool {
	return r.Objective == nil
}

type CompleteResult struct {
	ObjectiveID     int64
	AlreadyComplete bool
	PointsAwarded   int
	GoalComplete    bool
	Progress        model.GoalProgress
}

type SnoozeResult struct {
	ObjectiveID  int64
	SnoozedUntil time.Time
}

type GoalOverview struct {
	Goal     *model.Goal
	Progress model.GoalProgress
}

type ObjectiveState struct {
	Objective    *model.Objective
	Complete     bool
	SnoozedUntil *time.Time
	Eligible     bool
}

type GoalDetail struct {
	Goal       *model.Goal
	Progress   model.GoalProgress
	Objectives []ObjectiveState
	Upcoming   []*model.Goal
}

type TaskService struct {
	goals     repository.GoalRepository
	progress  repository.ProgressRepository
	state     repository.GoalStateRepository
	chain     *ChainAdvancer
	publisher events.Publisher
	now       func() time.Time
}

func NewTaskService(
	goals repository.GoalRepository,
	progress repository.ProgressRepository,
	state repository.GoalStateRepository,
	chain *ChainAdvancer,
	publisher events.Publisher,
) *TaskService {
	return &TaskService{
		goals:     goals,
		progress:  progress,
		state:     state,
		chain:     chain,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source used for selection and timestamps.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

// snapshot reads everything selection needs for one user.
func (s *TaskService) snapshot(ctx context.Context, userID string) (*selection.Snapshot, error) {
	goals, err := s.goals.Goals(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.progress.Progress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	snoozes, err := s.progress.Snoozes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snoozes: %w", err)
	}

	snap := selection.NewSnapshot(goals, progress, snoozes)

	if s.chain.Gated() {
		unlocks, err := s.state.Unlocks(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load unlocks: %w", err)
		}

		unlocked := make(map[int64]bool, len(unlocks))
		for _, u := range unlocks {
			unlocked[u.GoalID] = true
		}
		snap.Locked = selection.LockedGoals(snap.Goals, unlocked)
	}

	return snap, nil
}

func (s *TaskService) objective(ctx context.Context, objectiveID int64) (*model.Objective, error) {
	objective, err := s.goals.Objective(ctx, objectiveID)
	if errors.Is(err, repository.ErrObjectiveNotFound) {
		return nil, ErrObjectiveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load objective %d: %w", objectiveID, err)
	}
	return objective, nil
}

func todayResult(snap *selection.Snapshot, res selection.Result) *TodayResult {
	out := &TodayResult{
		Objective:      res.Objective,
		Goal:           res.Goal,
		Progress:       res.Progress,
		AvailableCount: res.AvailableCount,
	}
	if res.Goal != nil {
		out.Upcoming = selection.Upcoming(snap, res.Goal.ID, selection.MaxUpcoming)
	}
	return out
}

// Today returns the user's primary objective.
func (s *TaskService) Today(ctx context.Context, userID string) (*TodayResult, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return todayResult(snap, selection.SelectPrimary(snap, s.now())), nil
}

// Complete marks the objective complete for the user. Repeated or concurrent
// calls succeed; only the call that performed the transition is awarded points.
func (s *TaskService) Complete(ctx context.Context, userID string, objectiveID int64) (*CompleteResult, error) {
	objective, err := s.objective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal := snap.Goal(objective.GoalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}
	if !snap.GoalActive(goal, now) {
		return nil, ErrGoalInactive
	}

	changed, err := s.progress.CompleteObjective(ctx, userID, objectiveID, now)
	if err != nil {
		return nil, err
	}

	result := &CompleteResult{
		ObjectiveID:     objectiveID,
		AlreadyComplete: !changed,
	}

	if changed {
		result.PointsAwarded = objective.Points

		e := events.New(events.ObjectiveCompleted, userID, now)
		e.GoalID = goal.ID
		e.ObjectiveID = objectiveID
		e.Points = objective.Points
		s.publish(ctx, e)
	}

	// Re-read after the write so completions by concurrent requests count too.
	snap, err = s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal = snap.Goal(objective.GoalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	result.Progress = selection.Progress(snap, goal)
	result.GoalComplete = result.Progress.Complete

	if result.GoalComplete {
		err = s.chain.OnGoalComplete(ctx, userID, goal, now)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Snooze hides the objective from selection for days whole days. The latest snooze wins.
func (s *TaskService) Snooze(ctx context.Context, userID string, objectiveID int64, days int) (*SnoozeResult, error) {
	err := validation.ValidateSnoozeDays(days)
	if err != nil {
		return nil, ErrInvalidSnoozeDays
	}

	_, err = s.objective(ctx, objectiveID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	snooze := &model.SnoozeRecord{
		UserID:       userID,
		ObjectiveID:  objectiveID,
		SnoozedAt:    now,
		SnoozedUntil: now.Add(time.Duration(days) * 24 * time.Hour),
	}

	err = s.progress.UpsertSnooze(ctx, snooze)
	if err != nil {
		return nil, err
	}

	e := events.New(events.ObjectiveSnoozed, userID, now)
	e.ObjectiveID = objectiveID
	e.SnoozedUntil = &snooze.SnoozedUntil
	s.publish(ctx, e)

	return &SnoozeResult{
		ObjectiveID:  objectiveID,
		SnoozedUntil: snooze.SnoozedUntil,
	}, nil
}

// Swap reselects with currentObjectiveID excluded for this call only. Nothing
// is written; when no alternative exists the current pick comes back unchanged.
func (s *TaskService) Swap(ctx context.Context, userID string, currentObjectiveID int64) (*TodayResult, error) {
	_, err := s.objective(ctx, currentObjectiveID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := selection.Select(snap, now, selection.Options{ExcludeObjectiveID: currentObjectiveID})
	if res.Empty() {
		res = selection.SelectPrimary(snap, now)
	}

	return todayResult(snap, res), nil
}

// AddAnother returns a second objective from a goal other than the primary's.
func (s *TaskService) AddAnother(ctx context.Context, userID string) (*TodayResult, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	primary := selection.SelectPrimary(snap, now)
	if primary.Empty() {
		return todayResult(snap, primary), nil
	}

	return todayResult(snap, selection.SelectSecondary(snap, now, primary.Goal.ID)), nil
}

// Goals lists progress for every goal currently active for the user.
func (s *TaskService) Goals(ctx context.Context, userID string) ([]GoalOverview, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var overview []GoalOverview
	for _, g := range snap.Goals {
		if !snap.GoalActive(g, now) {
			continue
		}
		overview = append(overview, GoalOverview{
			Goal:     g,
			Progress: selection.Progress(snap, g),
		})
	}

	return overview, nil
}

// Goal returns one active goal with the user's state for each objective.
func (s *TaskService) Goal(ctx context.Context, userID string, goalID int64) (*GoalDetail, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	goal := snap.Goal(goalID)
	if goal == nil {
		return nil, ErrGoalNotFound
	}

	now := s.now()
	if !snap.GoalActive(goal, now) {
		return nil, ErrGoalInactive
	}

	detail := &GoalDetail{
		Goal:     goal,
		Progress: selection.Progress(snap, goal),
		Upcoming: selection.Upcoming(snap, goal.ID, selection.MaxUpcoming),
	}

	for _, o := range goal.Objectives {
		st := ObjectiveState{
			Objective: o,
			Complete:  snap.Completed[o.ID],
			Eligible:  snap.IsEligible(o, now),
		}
		if until, ok := snap.Snoozes[o.ID]; ok && until.After(now) && !st.Complete {
			st.SnoozedUntil = &until
		}
		detail.Objectives = append(detail.Objectives, st)
	}

	return detail, nil
}

func (s *TaskService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	if err != nil {
		slog.Error("failed to publish event", "error", err, "type", e.Type, "user_id", e.UserID)
	}
}
