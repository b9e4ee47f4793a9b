package model

type Objective struct {
	ID          int64  `db:"id"`
	GoalID      int64  `db:"goal_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Points      int    `db:"points"`
	SortOrder   int    `db:"sort_order"`
	Required    bool   `db:"required"`
	Retired     bool   `db:"retired"` // dropped from the catalog; kept for existing progress
}
