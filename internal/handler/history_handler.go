package handler

import (
	"errors"
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	historyRepo repository.HistoryRepositoryInterface
	taskRepo    repository.TaskRepositoryInterface
	teamRepo    repository.TeamRepositoryInterface
}

func NewHistoryHandler(
	historyRepo repository.HistoryRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
) *HistoryHandler {
	return &HistoryHandler{
		historyRepo: historyRepo,
		taskRepo:    taskRepo,
		teamRepo:    teamRepo,
	}
}

type HistoryResponse struct {
	ID        string  `json:"id"`
	TaskID    string  `json:"task_id"`
	FromState *string `json:"from_state"`
	ToState   string  `json:"to_state"`
	ActorID   string  `json:"actor_id"`
	ActorRole string  `json:"actor_role"`
	ActorName string  `json:"actor_name,omitempty"`
	Action    string  `json:"action"`
	Comment   *string `json:"comment,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// GetAll returns the caller's activity feed: history of every task the
// caller can currently see, most recent first
func (h *HistoryHandler) GetAll(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var (
		entries []model.TaskHistory
		err     error
	)
	if role == model.RoleManager {
		entries, err = h.historyRepo.ListForManager(c.Request.Context(), actorID)
	} else {
		entries, err = h.historyRepo.ListForDeveloper(c.Request.Context(), actorID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, toHistoryResponses(entries))
}

// GetByTask returns the audit trail of one task. Managers can also read the
// history of their team's soft-deleted tasks; for a developer a deleted
// task reads as not found.
func (h *HistoryHandler) GetByTask(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
			return
		}
		if role != model.RoleManager {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		task, err = h.taskRepo.GetDeletedByID(c.Request.Context(), taskID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
	}

	visible, err := h.canAccess(c, actorID, role, task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return
	}
	if !visible {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	entries, err := h.historyRepo.ListByTask(c.Request.Context(), task.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, toHistoryResponses(entries))
}

func (h *HistoryHandler) canAccess(c *gin.Context, actorID uuid.UUID, role string, task *model.Task) (bool, error) {
	if role == model.RoleDeveloper {
		return task.AssignedTo == actorID, nil
	}
	return h.teamRepo.IsOnTeam(c.Request.Context(), actorID, task.AssignedTo)
}

func toHistoryResponses(entries []model.TaskHistory) []HistoryResponse {
	responses := make([]HistoryResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		resp := HistoryResponse{
			ID:        entry.ID.String(),
			TaskID:    entry.TaskID.String(),
			FromState: entry.FromState,
			ToState:   entry.ToState,
			ActorID:   entry.ActorID.String(),
			ActorRole: entry.ActorRole,
			Action:    entry.Action,
			Comment:   entry.Comment,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		}
		if entry.Actor.ID != uuid.Nil {
			resp.ActorName = entry.Actor.Name
		}
		responses = append(responses, resp)
	}
	return responses
}
