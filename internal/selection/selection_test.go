package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toucann/taskengine/internal/model"
)

var now = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

// goalWithPoints builds an active goal whose objectives have ids goalID*100+i.
func goalWithPoints(goalID int64, points ...int) *model.Goal {
	g := &model.Goal{ID: goalID, Title: "goal", Active: true}
	for i, p := range points {
		g.Objectives = append(g.Objectives, &model.Objective{
			ID:        goalID*100 + int64(i),
			GoalID:    goalID,
			Points:    p,
			SortOrder: i,
			Required:  true,
		})
	}
	return g
}

func completed(ids ...int64) []*model.ObjectiveProgress {
	var out []*model.ObjectiveProgress
	for _, id := range ids {
		out = append(out, &model.ObjectiveProgress{ObjectiveID: id, Status: model.ObjectiveStatusComplete})
	}
	return out
}

func TestSelectPrimary_WalksGoalInSortOrder(t *testing.T) {
	points := []int{10, 15, 20, 15, 25}

	var done []int64
	for i := 0; i < len(points); i++ {
		g := goalWithPoints(1, points...)
		snap := NewSnapshot([]*model.Goal{g}, completed(done...), nil)

		res := SelectPrimary(snap, now)
		require.False(t, res.Empty())
		assert.Equal(t, int64(100+i), res.Objective.ID)
		assert.Equal(t, points[i], res.Objective.Points)
		assert.Equal(t, i*20, res.Progress.Percentage)
		assert.Equal(t, len(points)-i, res.AvailableCount)

		done = append(done, res.Objective.ID)
	}

	g := goalWithPoints(1, points...)
	snap := NewSnapshot([]*model.Goal{g}, completed(done...), nil)
	res := SelectPrimary(snap, now)
	assert.True(t, res.Empty())
	assert.Equal(t, 0, res.AvailableCount)
	assert.True(t, IsGoalComplete(snap, g))
	assert.Equal(t, 100, Progress(snap, g).Percentage)
}

func TestSelectPrimary_OrdersObjectivesBySortOrderNotInput(t *testing.T) {
	g := &model.Goal{ID: 1, Active: true, Objectives: []*model.Objective{
		{ID: 7, GoalID: 1, SortOrder: 2, Required: true},
		{ID: 8, GoalID: 1, SortOrder: 0, Required: true},
		{ID: 9, GoalID: 1, SortOrder: 1, Required: true},
	}}
	snap := NewSnapshot([]*model.Goal{g}, nil, nil)

	res := SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(8), res.Objective.ID)
}

func TestSelectPrimary_LowestGoalIDWins(t *testing.T) {
	a := goalWithPoints(1, 5)
	b := goalWithPoints(2, 5)

	// input order must not matter
	snap := NewSnapshot([]*model.Goal{b, a}, nil, nil)
	for i := 0; i < 3; i++ {
		res := SelectPrimary(snap, now)
		require.NotNil(t, res.Objective)
		assert.Equal(t, int64(100), res.Objective.ID)
		assert.Equal(t, 2, res.AvailableCount)
	}

	snap = NewSnapshot([]*model.Goal{a, b}, completed(100), nil)
	res := SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(200), res.Objective.ID)

	snap = NewSnapshot([]*model.Goal{a, b}, nil, []*model.SnoozeRecord{
		{ObjectiveID: 100, SnoozedUntil: now.Add(24 * time.Hour)},
	})
	res = SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(200), res.Objective.ID)
}

func TestIsEligible_SnoozeBoundary(t *testing.T) {
	g := goalWithPoints(1, 10)
	o := g.Objectives[0]
	until := now.Add(24 * time.Hour)
	snap := NewSnapshot([]*model.Goal{g}, nil, []*model.SnoozeRecord{{ObjectiveID: o.ID, SnoozedUntil: until}})

	assert.False(t, snap.IsEligible(o, now))
	assert.False(t, snap.IsEligible(o, until.Add(-time.Second)))
	assert.True(t, snap.IsEligible(o, until))
	assert.True(t, snap.IsEligible(o, until.Add(time.Hour)))
}

func TestSelect_NeverReturnsCompleteOrSnoozed(t *testing.T) {
	a := goalWithPoints(1, 1, 1, 1)
	b := goalWithPoints(2, 1, 1)
	snap := NewSnapshot([]*model.Goal{a, b}, completed(100, 102), []*model.SnoozeRecord{
		{ObjectiveID: 101, SnoozedUntil: now.Add(time.Hour)},
		{ObjectiveID: 200, SnoozedUntil: now.Add(time.Hour)},
	})

	primary := SelectPrimary(snap, now)
	require.NotNil(t, primary.Objective)
	assert.Equal(t, int64(201), primary.Objective.ID)
	assert.Equal(t, 1, primary.AvailableCount)

	secondary := SelectSecondary(snap, now, primary.Goal.ID)
	assert.True(t, secondary.Empty())
}

func TestSelectSecondary_UsesDifferentGoal(t *testing.T) {
	a := goalWithPoints(1, 1, 1)
	b := goalWithPoints(2, 1)
	c := goalWithPoints(3, 1)
	snap := NewSnapshot([]*model.Goal{a, b, c}, nil, nil)

	primary := SelectPrimary(snap, now)
	require.NotNil(t, primary.Objective)
	secondary := SelectSecondary(snap, now, primary.Goal.ID)
	require.NotNil(t, secondary.Objective)

	assert.Equal(t, int64(1), primary.Goal.ID)
	assert.Equal(t, int64(2), secondary.Goal.ID)
	assert.Equal(t, int64(200), secondary.Objective.ID)
	assert.Equal(t, 4, secondary.AvailableCount)
}

func TestSelect_ExcludeObjective(t *testing.T) {
	a := goalWithPoints(1, 1)
	b := goalWithPoints(2, 1)
	snap := NewSnapshot([]*model.Goal{a, b}, nil, nil)

	res := Select(snap, now, Options{ExcludeObjectiveID: 100})
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(200), res.Objective.ID)

	// the exclusion only applies to that call
	res = SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(100), res.Objective.ID)
}

func TestSelect_SkipsInactiveAndClosedGoals(t *testing.T) {
	inactive := goalWithPoints(1, 1)
	inactive.Active = false

	future := goalWithPoints(2, 1)
	startsAt := now.Add(time.Hour)
	future.StartsAt = &startsAt

	expired := goalWithPoints(3, 1)
	expiresAt := now
	expired.ExpiresAt = &expiresAt

	open := goalWithPoints(4, 1)

	snap := NewSnapshot([]*model.Goal{inactive, future, expired, open}, nil, nil)
	res := SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(4), res.Goal.ID)
	assert.Equal(t, 1, res.AvailableCount)
}

func TestIsGoalComplete_RequiredOnly(t *testing.T) {
	g := goalWithPoints(1, 1, 1, 1)
	g.Objectives[2].Required = false

	snap := NewSnapshot([]*model.Goal{g}, completed(100, 101), nil)
	assert.True(t, IsGoalComplete(snap, g))

	p := Progress(snap, g)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.Completed)
	assert.Equal(t, 66, p.Percentage)
	assert.True(t, p.Complete)
}

func TestIsGoalComplete_NoRequiredObjectives(t *testing.T) {
	g := goalWithPoints(1, 1, 1)
	for _, o := range g.Objectives {
		o.Required = false
	}

	assert.False(t, IsGoalComplete(NewSnapshot([]*model.Goal{g}, completed(100), nil), g))

	// all objectives done still does not complete a goal with nothing required
	snap := NewSnapshot([]*model.Goal{g}, completed(100, 101), nil)
	assert.False(t, IsGoalComplete(snap, g))
	p := Progress(snap, g)
	assert.Equal(t, 100, p.Percentage)
	assert.False(t, p.Complete)

	empty := &model.Goal{ID: 9, Active: true}
	assert.False(t, IsGoalComplete(NewSnapshot([]*model.Goal{empty}, nil, nil), empty))
	assert.Equal(t, 0, Progress(NewSnapshot([]*model.Goal{empty}, nil, nil), empty).Percentage)
}

func TestUpcoming_FollowsChainAndStopsOnCycle(t *testing.T) {
	a := goalWithPoints(1, 1)
	b := goalWithPoints(2, 1)
	c := goalWithPoints(3, 1)
	a.NextGoalID, a.ActivationCondition = int64Ptr(2), model.ActivationOnComplete
	b.NextGoalID, b.ActivationCondition = int64Ptr(3), model.ActivationOnComplete
	c.NextGoalID, c.ActivationCondition = int64Ptr(1), model.ActivationOnComplete

	snap := NewSnapshot([]*model.Goal{a, b, c}, nil, nil)

	chain := Upcoming(snap, 1, MaxUpcoming)
	require.Len(t, chain, 2)
	assert.Equal(t, int64(2), chain[0].ID)
	assert.Equal(t, int64(3), chain[1].ID)

	assert.Len(t, Upcoming(snap, 1, 1), 1)
	assert.Empty(t, Upcoming(snap, 42, MaxUpcoming))
}

func TestLockedGoals(t *testing.T) {
	a := goalWithPoints(1, 1)
	b := goalWithPoints(2, 1)
	self := goalWithPoints(3, 1)
	a.NextGoalID, a.ActivationCondition = int64Ptr(2), model.ActivationOnComplete
	self.NextGoalID, self.ActivationCondition = int64Ptr(3), model.ActivationOnComplete

	goals := []*model.Goal{a, b, self}

	locked := LockedGoals(goals, nil)
	assert.Equal(t, map[int64]bool{2: true}, locked)

	locked = LockedGoals(goals, map[int64]bool{2: true})
	assert.Empty(t, locked)

	snap := NewSnapshot(goals, completed(100), nil)
	snap.Locked = LockedGoals(goals, nil)
	res := SelectPrimary(snap, now)
	require.NotNil(t, res.Objective)
	assert.Equal(t, int64(3), res.Goal.ID)
}
