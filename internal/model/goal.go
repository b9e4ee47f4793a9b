package model

import (
	"time"
)

const (
	ActivationOnComplete = "on_complete"
)

// Goal is an admin-authored track of ordered objectives. The engine only reads it.
type Goal struct {
	ID                  int64      `db:"id"`
	Title               string     `db:"title"`
	Description         string     `db:"description"`
	Active              bool       `db:"active"`
	NextGoalID          *int64     `db:"next_goal_id"`
	ActivationCondition string     `db:"activation_condition"`
	StartsAt            *time.Time `db:"starts_at"`
	ExpiresAt           *time.Time `db:"expires_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`

	// Loaded separately, ordered by sort_order
	Objectives []*Objective `db:"-"`
}

// IsOpen reports whether now falls inside the goal's scheduling window.
func (g *Goal) IsOpen(now time.Time) bool {
	if g.StartsAt != nil && now.Before(*g.StartsAt) {
		return false
	}
	if g.ExpiresAt != nil && !now.Before(*g.ExpiresAt) {
		return false
	}
	return true
}

func (g *Goal) HasNext() bool {
	return g.NextGoalID != nil && g.ActivationCondition == ActivationOnComplete
}

func (g *Goal) Objective(id int64) *Objective {
	for _, o := range g.Objectives {
		if o.ID == id {
			return o
		}
	}
	return nil
}
