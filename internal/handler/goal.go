package handler

import (
	"net/http"
	"time"

	"github.com/toucann/taskengine/internal/ctxkeys"
	"github.com/toucann/taskengine/internal/service"
)

type GoalHandler struct {
	taskService *service.TaskService
}

func NewGoalHandler(taskService *service.TaskService) *GoalHandler {
	return &GoalHandler{
		taskService: taskService,
	}
}

type goalOverviewResponse struct {
	Goal     *goalResponse         `json:"goal"`
	Progress *goalProgressResponse `json:"progress"`
}

type goalsResponse struct {
	Goals []goalOverviewResponse `json:"goals"`
}

type objectiveStateResponse struct {
	*objectiveResponse
	Complete     bool       `json:"complete"`
	Eligible     bool       `json:"eligible"`
	SnoozedUntil *time.Time `json:"snoozed_until,omitempty"`
}

type goalDetailResponse struct {
	Goal       *goalResponse            `json:"goal"`
	Progress   *goalProgressResponse    `json:"progress"`
	Objectives []objectiveStateResponse `json:"objectives"`
	Upcoming   []*goalResponse          `json:"upcoming"`
}

func (h *GoalHandler) Goals(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	overview, err := h.taskService.Goals(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to list goals")
		return
	}

	resp := goalsResponse{Goals: make([]goalOverviewResponse, 0, len(overview))}
	for _, o := range overview {
		resp.Goals = append(resp.Goals, goalOverviewResponse{
			Goal:     newGoalResponse(o.Goal),
			Progress: newGoalProgressResponse(o.Progress),
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func (h *GoalHandler) Goal(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	goalID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.taskService.Goal(r.Context(), userID, goalID)
	if err != nil {
		writeServiceError(w, r, err, "failed to get goal", "goal_id", goalID)
		return
	}

	resp := goalDetailResponse{
		Goal:       newGoalResponse(detail.Goal),
		Progress:   newGoalProgressResponse(detail.Progress),
		Objectives: make([]objectiveStateResponse, 0, len(detail.Objectives)),
		Upcoming:   newGoalResponses(detail.Upcoming),
	}
	for _, o := range detail.Objectives {
		resp.Objectives = append(resp.Objectives, objectiveStateResponse{
			objectiveResponse: newObjectiveResponse(o.Objective),
			Complete:          o.Complete,
			Eligible:          o.Eligible,
			SnoozedUntil:      o.SnoozedUntil,
		})
	}

	writeJSON(w, r, http.StatusOK, resp)
}
