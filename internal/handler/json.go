package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/toucann/taskengine/internal/ctxkeys"
	"github.com/toucann/taskengine/internal/markdown"
	"github.com/toucann/taskengine/internal/model"
	"github.com/toucann/taskengine/internal/service"
)

const maxBodyBytes = 1 << 20

var descriptions = markdown.NewRenderer()

type errorResponse struct {
	Error string `json:"error"`
}

type objectiveResponse struct {
	ID              int64  `json:"id"`
	GoalID          int64  `json:"goal_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"description_html"`
	Points          int    `json:"points"`
	SortOrder       int    `json:"sort_order"`
	Required        bool   `json:"required"`
}

type goalResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DescriptionHTML string     `json:"description_html"`
	NextGoalID      *int64     `json:"next_goal_id,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type goalProgressResponse struct {
	GoalID     int64 `json:"goal_id"`
	Total      int   `json:"total"`
	Completed  int   `json:"completed"`
	Percentage int   `json:"percentage"`
	Complete   bool  `json:"complete"`
}

func newObjectiveResponse(o *model.Objective) *objectiveResponse {
	if o == nil {
		return nil
	}
	return &objectiveResponse{
		ID:              o.ID,
		GoalID:          o.GoalID,
		Title:           o.Title,
		Description:     o.Description,
		DescriptionHTML: descriptionHTML(o.Description),
		Points:          o.Points,
		SortOrder:       o.SortOrder,
		Required:        o.Required,
	}
}

func newGoalResponse(g *model.Goal) *goalResponse {
	if g == nil {
		return nil
	}
	return &goalResponse{
		ID:              g.ID,
		Title:           g.Title,
		Description:     g.Description,
		DescriptionHTML: descriptionHTML(g.Description),
		NextGoalID:      g.NextGoalID,
		StartsAt:        g.StartsAt,
		ExpiresAt:       g.ExpiresAt,
	}
}

func descriptionHTML(source string) string {
	html, err := descriptions.HTML(source)
	if err != nil {
		slog.Warn("failed to render description", "error", err)
		return ""
	}
	return html
}

func newGoalResponses(goals []*model.Goal) []*goalResponse {
	out := make([]*goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g))
	}
	return out
}

func newGoalProgressResponse(p model.GoalProgress) *goalProgressResponse {
	return &goalProgressResponse{
		GoalID:     p.GoalID,
		Total:      p.Total,
		Completed:  p.Completed,
		Percentage: p.Percentage,
		Complete:   p.Complete,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: message})
}

// writeServiceError maps service errors to status codes. Unexpected errors are
// logged with context and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string, args ...any) {
	switch {
	case service.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, err.Error())
	case service.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		args = append(args,
			"error", err,
			"user_id", ctxkeys.UserID(r.Context()),
			"request_id", ctxkeys.RequestID(r.Context()),
		)
		slog.Error(msg, args...)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	err := decoder.Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
