package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
goals:
  - id: 1
    title: Foundations
    next_goal_id: 2
    objectives:
      - id: 101
        title: Read the intro
        points: 10
      - id: 102
        title: Write a summary
        points: 15
        required: false
  - id: 2
    title: Practice
    active: false
    starts_at: 2025-02-01T00:00:00Z
    expires_at: 2025-03-01T00:00:00Z
    objectives:
      - id: 201
        title: First exercise
        points: 5
        sort_order: 3
`

func TestParse_Defaults(t *testing.T) {
	doc, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	goals := doc.Models()
	require.Len(t, goals, 2)

	first := goals[0]
	assert.True(t, first.Active)
	assert.Equal(t, "on_complete", first.ActivationCondition)
	require.NotNil(t, first.NextGoalID)
	assert.Equal(t, int64(2), *first.NextGoalID)
	assert.True(t, first.HasNext())

	require.Len(t, first.Objectives, 2)
	assert.Equal(t, 0, first.Objectives[0].SortOrder)
	assert.Equal(t, 1, first.Objectives[1].SortOrder)
	assert.True(t, first.Objectives[0].Required)
	assert.False(t, first.Objectives[1].Required)
	assert.Equal(t, int64(1), first.Objectives[1].GoalID)

	second := goals[1]
	assert.False(t, second.Active)
	require.NotNil(t, second.StartsAt)
	require.NotNil(t, second.ExpiresAt)
	assert.Equal(t, 2025, second.StartsAt.Year())
	assert.Equal(t, 3, second.Objectives[0].SortOrder)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("goals:\n  - id: 1\n    title: x\n    pionts: 3\n"))
	require.Error(t, err)
}

func TestValidate_CollectsErrors(t *testing.T) {
	doc := `
goals:
  - id: 1
    title: ""
    next_goal_id: 1
    activation_condition: on_start
    objectives:
      - id: 10
        title: a
        points: -1
        sort_order: 0
      - id: 10
        title: b
        sort_order: 0
  - id: 1
    title: dup
    objectives:
      - id: 11
        title: c
        sort_order: -1
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "title is required")
	assert.Contains(t, msg, "points at itself")
	assert.Contains(t, msg, "unsupported activation_condition")
	assert.Contains(t, msg, "points must not be negative")
	assert.Contains(t, msg, "duplicate objective id 10")
	assert.Contains(t, msg, "duplicate sort_order 0")
	assert.Contains(t, msg, "sort_order must not be negative")
	assert.Contains(t, msg, "duplicate goal id 1")
}

func TestValidate_EmptyCatalog(t *testing.T) {
	_, err := Parse(strings.NewReader("goals: []\n"))
	assert.ErrorContains(t, err, "no goals")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Goals, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
