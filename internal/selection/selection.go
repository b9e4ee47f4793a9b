// Package selection decides which objective a user should see today.
//
// Everything here is a pure function of a Snapshot and the current time:
// no I/O, no locking, safe to call concurrently.
package selection

import (
	"cmp"
	"slices"
	"time"

	"github.com/toucann/taskengine/internal/model"
)

// MaxUpcoming bounds the chain preview returned with today's task.
const MaxUpcoming = 5

// Snapshot is the per-user view of catalog and progress that selection runs on.
type Snapshot struct {
	Goals     []*model.Goal
	Completed map[int64]bool      // objective id -> complete
	Snoozes   map[int64]time.Time // objective id -> snoozed_until
	Locked    map[int64]bool      // goal ids not yet unlocked for this user
}

// NewSnapshot orders goals by id and objectives by sort_order so selection
// is deterministic regardless of how the rows were read.
func NewSnapshot(goals []*model.Goal, progress []*model.ObjectiveProgress, snoozes []*model.SnoozeRecord) *Snapshot {
	s := &Snapshot{
		Goals:     goals,
		Completed: make(map[int64]bool, len(progress)),
		Snoozes:   make(map[int64]time.Time, len(snoozes)),
		Locked:    map[int64]bool{},
	}

	slices.SortFunc(s.Goals, func(a, b *model.Goal) int {
		return cmp.Compare(a.ID, b.ID)
	})
	for _, g := range s.Goals {
		slices.SortFunc(g.Objectives, func(a, b *model.Objective) int {
			return cmp.Compare(a.SortOrder, b.SortOrder)
		})
	}

	for _, p := range progress {
		if p.IsComplete() {
			s.Completed[p.ObjectiveID] = true
		}
	}
	for _, sn := range snoozes {
		s.Snoozes[sn.ObjectiveID] = sn.SnoozedUntil
	}

	return s
}

// Options narrows a single selection call. Zero values exclude nothing.
type Options struct {
	ExcludeObjectiveID int64
	ExcludeGoalID      int64
}

type Result struct {
	Objective      *model.Objective
	Goal           *model.Goal
	Progress       model.GoalProgress
	AvailableCount int
}

// Empty reports the "all caught up" outcome.
func (r Result) Empty() bool {
	return r.Objective == nil
}

// Goal returns the goal with the given id, or nil.
func (s *Snapshot) Goal(id int64) *model.Goal {
	for _, g := range s.Goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GoalActive reports whether the goal's objectives can be selected for this user at now.
func (s *Snapshot) GoalActive(g *model.Goal, now time.Time) bool {
	return g.Active && g.IsOpen(now) && !s.Locked[g.ID]
}

// IsEligible: not complete, and either never snoozed or the snooze has elapsed.
func (s *Snapshot) IsEligible(o *model.Objective, now time.Time) bool {
	if s.Completed[o.ID] {
		return false
	}
	until, snoozed := s.Snoozes[o.ID]
	return !snoozed || !until.After(now)
}

// Candidate returns the lowest sort_order eligible objective of g, skipping excludeID.
func (s *Snapshot) Candidate(g *model.Goal, now time.Time, excludeID int64) *model.Objective {
	for _, o := range g.Objectives {
		if o.ID == excludeID {
			continue
		}
		if s.IsEligible(o, now) {
			return o
		}
	}
	return nil
}

// AvailableCount is the number of eligible objectives across all active goals.
func (s *Snapshot) AvailableCount(now time.Time) int {
	count := 0
	for _, g := range s.Goals {
		if !s.GoalActive(g, now) {
			continue
		}
		for _, o := range g.Objectives {
			if s.IsEligible(o, now) {
				count++
			}
		}
	}
	return count
}

// Select picks one objective: each active goal contributes its first eligible
// objective and the goal with the lowest id wins.
func Select(s *Snapshot, now time.Time, opts Options) Result {
	result := Result{AvailableCount: s.AvailableCount(now)}

	for _, g := range s.Goals {
		if opts.ExcludeGoalID != 0 && g.ID == opts.ExcludeGoalID {
			continue
		}
		if !s.GoalActive(g, now) {
			continue
		}

		o := s.Candidate(g, now, opts.ExcludeObjectiveID)
		if o == nil {
			continue
		}

		result.Objective = o
		result.Goal = g
		result.Progress = Progress(s, g)
		return result
	}

	return result
}

func SelectPrimary(s *Snapshot, now time.Time) Result {
	return Select(s, now, Options{})
}

// SelectSecondary runs the same selection over every goal except excludingGoalID,
// so a bonus task never comes from the primary's track.
func SelectSecondary(s *Snapshot, now time.Time, excludingGoalID int64) Result {
	return Select(s, now, Options{ExcludeGoalID: excludingGoalID})
}

// Progress computes the completion view of g for the snapshot's user.
func Progress(s *Snapshot, g *model.Goal) model.GoalProgress {
	p := model.GoalProgress{
		GoalID: g.ID,
		Total:  len(g.Objectives),
	}
	for _, o := range g.Objectives {
		if s.Completed[o.ID] {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = p.Completed * 100 / p.Total
	}
	p.Complete = IsGoalComplete(s, g)
	return p
}

// IsGoalComplete is true once every required objective is complete. A goal
// without required objectives, including an empty goal, never completes.
func IsGoalComplete(s *Snapshot, g *model.Goal) bool {
	required := 0
	for _, o := range g.Objectives {
		if !o.Required {
			continue
		}
		required++
		if !s.Completed[o.ID] {
			return false
		}
	}
	return required > 0
}

// Upcoming follows next-goal links from goalID, at most depth goals, stopping on cycles.
func Upcoming(s *Snapshot, goalID int64, depth int) []*model.Goal {
	var chain []*model.Goal
	seen := map[int64]bool{goalID: true}

	current := s.Goal(goalID)
	for current != nil && current.HasNext() && len(chain) < depth {
		next := s.Goal(*current.NextGoalID)
		if next == nil || seen[next.ID] {
			break
		}
		seen[next.ID] = true
		chain = append(chain, next)
		current = next
	}

	return chain
}

// LockedGoals returns goals gated behind a predecessor that the user has not
// unlocked yet. Only links from other active goals gate a successor.
func LockedGoals(goals []*model.Goal, unlocked map[int64]bool) map[int64]bool {
	locked := map[int64]bool{}
	for _, g := range goals {
		if !g.Active || !g.HasNext() || *g.NextGoalID == g.ID {
			continue
		}
		if !unlocked[*g.NextGoalID] {
			locked[*g.NextGoalID] = true
		}
	}
	return locked
}
