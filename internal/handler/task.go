package handler

import (
	"net/http"
	"time"

	"github.com/toucann/taskengine/internal/ctxkeys"
	"github.com/toucann/taskengine/internal/service"
	"github.com/toucann/taskengine/internal/validation"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// todayResponse is shared by today, swap and add-another. objective and
// goal_progress are null when nothing is eligible.
type todayResponse struct {
	Objective      *objectiveResponse    `json:"objective"`
	Goal           *goalResponse         `json:"goal"`
	GoalProgress   *goalProgressResponse `json:"goal_progress"`
	AvailableCount int                   `json:"available_count"`
	Upcoming       []*goalResponse       `json:"upcoming"`
}

func newTodayResponse(res *service.TodayResult) todayResponse {
	resp := todayResponse{
		Objective:      newObjectiveResponse(res.Objective),
		Goal:           newGoalResponse(res.Goal),
		AvailableCount: res.AvailableCount,
		Upcoming:       newGoalResponses(res.Upcoming),
	}
	if !res.Empty() {
		resp.GoalProgress = newGoalProgressResponse(res.Progress)
	}
	return resp
}

type completeResponse struct {
	ObjectiveID     int64                 `json:"objective_id"`
	AlreadyComplete bool                  `json:"already_complete"`
	PointsAwarded   int                   `json:"points_awarded"`
	GoalComplete    bool                  `json:"goal_complete"`
	GoalProgress    *goalProgressResponse `json:"goal_progress"`
}

type snoozeRequest struct {
	Days *int `json:"days"`
}

type snoozeResponse struct {
	ObjectiveID  int64     `json:"objective_id"`
	SnoozedUntil time.Time `json:"snoozed_until"`
}

type swapRequest struct {
	CurrentObjectiveID int64 `json:"current_objective_id"`
}

func (h *TaskHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	res, err := h.taskService.Today(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to select today's objective")
		return
	}

	writeJSON(w, r, http.StatusOK, newTodayResponse(res))
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	objectiveID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.taskService.Complete(r.Context(), userID, objectiveID)
	if err != nil {
		writeServiceError(w, r, err, "failed to complete objective", "objective_id", objectiveID)
		return
	}

	writeJSON(w, r, http.StatusOK, completeResponse{
		ObjectiveID:     res.ObjectiveID,
		AlreadyComplete: res.AlreadyComplete,
		PointsAwarded:   res.PointsAwarded,
		GoalComplete:    res.GoalComplete,
		GoalProgress:    newGoalProgressResponse(res.Progress),
	})
}

func (h *TaskHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	objectiveID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req snoozeRequest
	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	days := validation.MinSnoozeDays
	if req.Days != nil {
		days = *req.Days
	}

	res, err := h.taskService.Snooze(r.Context(), userID, objectiveID, days)
	if err != nil {
		writeServiceError(w, r, err, "failed to snooze objective", "objective_id", objectiveID)
		return
	}

	writeJSON(w, r, http.StatusOK, snoozeResponse{
		ObjectiveID:  res.ObjectiveID,
		SnoozedUntil: res.SnoozedUntil.UTC(),
	})
}

func (h *TaskHandler) Swap(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req swapRequest
	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = validation.ValidateObjectiveID(req.CurrentObjectiveID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "current_objective_id is required")
		return
	}

	res, err := h.taskService.Swap(r.Context(), userID, req.CurrentObjectiveID)
	if err != nil {
		writeServiceError(w, r, err, "failed to swap objective", "objective_id", req.CurrentObjectiveID)
		return
	}

	writeJSON(w, r, http.StatusOK, newTodayResponse(res))
}

func (h *TaskHandler) AddAnother(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	res, err := h.taskService.AddAnother(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to select additional objective")
		return
	}

	writeJSON(w, r, http.StatusOK, newTodayResponse(res))
}
