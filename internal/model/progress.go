package model

import (
	"time"
)

const (
	ObjectiveStatusPending  = "pending"
	ObjectiveStatusComplete = "complete"
)

type ObjectiveProgress struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	ObjectiveID int64      `db:"objective_id"`
	Status      string     `db:"status"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (p *ObjectiveProgress) IsComplete() bool {
	return p.Status == ObjectiveStatusComplete
}

type SnoozeRecord struct {
	UserID       string    `db:"user_id"`
	ObjectiveID  int64     `db:"objective_id"`
	SnoozedAt    time.Time `db:"snoozed_at"`
	SnoozedUntil time.Time `db:"snoozed_until"`
}

// Active reports whether the snooze still suppresses the objective at now.
func (s *SnoozeRecord) Active(now time.Time) bool {
	return s.SnoozedUntil.After(now)
}

type GoalCompletion struct {
	UserID      string    `db:"user_id"`
	GoalID      int64     `db:"goal_id"`
	CompletedAt time.Time `db:"completed_at"`
}

type GoalUnlock struct {
	UserID     string    `db:"user_id"`
	GoalID     int64     `db:"goal_id"`
	UnlockedAt time.Time `db:"unlocked_at"`
}

// GoalProgress is derived on read, never stored.
type GoalProgress struct {
	GoalID     int64
	Total      int
	Completed  int
	Percentage int
	Complete   bool
}
