// Package catalog reads the authored goal catalog from its YAML import format.
//
// A document looks like:
//
//	goals:
//	  - id: 1
//	    title: Foundations
//	    next_goal_id: 2
//	    objectives:
//	      - id: 101
//	        title: Read the intro
//	        points: 10
//	        sort_order: 0
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/toucann/taskengine/internal/model"
	"github.com/toucann/taskengine/internal/validation"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Goals []Goal `yaml:"goals"`
}

type Goal struct {
	ID                  int64       `yaml:"id"`
	Title               string      `yaml:"title"`
	Description         string      `yaml:"description,omitempty"`
	Active              *bool       `yaml:"active,omitempty"` // default true
	NextGoalID          *int64      `yaml:"next_goal_id,omitempty"`
	ActivationCondition string      `yaml:"activation_condition,omitempty"`
	StartsAt            *time.Time  `yaml:"starts_at,omitempty"`
	ExpiresAt           *time.Time  `yaml:"expires_at,omitempty"`
	Objectives          []Objective `yaml:"objectives"`
}

type Objective struct {
	ID          int64  `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Points      int    `yaml:"points"`
	SortOrder   *int   `yaml:"sort_order,omitempty"` // default: position in list
	Required    *bool  `yaml:"required,omitempty"`   // default true
}

// Load reads and validates a catalog file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a catalog document, rejecting unknown fields, and validates it.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return &doc, nil
}

// Validate reports every problem in the document, not just the first.
func (d *Document) Validate() error {
	var errs []error

	if len(d.Goals) == 0 {
		return errors.New("catalog has no goals")
	}

	goalIDs := map[int64]bool{}
	objectiveIDs := map[int64]bool{}

	for i, g := range d.Goals {
		prefix := fmt.Sprintf("goals[%d]", i)

		if g.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s: id must be positive", prefix))
		} else if goalIDs[g.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate goal id %d", prefix, g.ID))
		}
		goalIDs[g.ID] = true

		if err := validation.ValidateTitle(g.Title); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prefix, err))
		}
		if g.ActivationCondition != "" && g.ActivationCondition != model.ActivationOnComplete {
			errs = append(errs, fmt.Errorf("%s: unsupported activation_condition %q", prefix, g.ActivationCondition))
		}
		if g.NextGoalID != nil && *g.NextGoalID == g.ID {
			errs = append(errs, fmt.Errorf("%s: next_goal_id points at itself", prefix))
		}
		if g.StartsAt != nil && g.ExpiresAt != nil && !g.ExpiresAt.After(*g.StartsAt) {
			errs = append(errs, fmt.Errorf("%s: expires_at must be after starts_at", prefix))
		}

		sortOrders := map[int]bool{}
		for j, o := range g.Objectives {
			oprefix := fmt.Sprintf("%s.objectives[%d]", prefix, j)

			if o.ID <= 0 {
				errs = append(errs, fmt.Errorf("%s: id must be positive", oprefix))
			} else if objectiveIDs[o.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate objective id %d", oprefix, o.ID))
			}
			objectiveIDs[o.ID] = true

			if err := validation.ValidateTitle(o.Title); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", oprefix, err))
			}
			if o.Points < 0 {
				errs = append(errs, fmt.Errorf("%s: points must not be negative", oprefix))
			}

			order := o.sortOrder(j)
			if order < 0 {
				errs = append(errs, fmt.Errorf("%s: sort_order must not be negative", oprefix))
			}
			if sortOrders[order] {
				errs = append(errs, fmt.Errorf("%s: duplicate sort_order %d", oprefix, order))
			}
			sortOrders[order] = true
		}
	}

	return errors.Join(errs...)
}

func (o Objective) sortOrder(position int) int {
	if o.SortOrder != nil {
		return *o.SortOrder
	}
	return position
}

// Models converts the document into model goals ready for GoalRepository.Upsert.
func (d *Document) Models() []*model.Goal {
	goals := make([]*model.Goal, 0, len(d.Goals))

	for _, g := range d.Goals {
		goal := &model.Goal{
			ID:                  g.ID,
			Title:               g.Title,
			Description:         g.Description,
			Active:              g.Active == nil || *g.Active,
			NextGoalID:          g.NextGoalID,
			ActivationCondition: g.ActivationCondition,
			StartsAt:            g.StartsAt,
			ExpiresAt:           g.ExpiresAt,
		}
		if goal.ActivationCondition == "" {
			goal.ActivationCondition = model.ActivationOnComplete
		}

		for j, o := range g.Objectives {
			goal.Objectives = append(goal.Objectives, &model.Objective{
				ID:          o.ID,
				GoalID:      g.ID,
				Title:       o.Title,
				Description: o.Description,
				Points:      o.Points,
				SortOrder:   o.sortOrder(j),
				Required:    o.Required == nil || *o.Required,
			})
		}

		goals = append(goals, goal)
	}

	return goals
}
