package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	taskRepo repository.TaskRepositoryInterface
	teamRepo repository.TeamRepositoryInterface
	userRepo repository.UserRepositoryInterface
}

func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *TaskHandler {
	return &TaskHandler{
		taskRepo: taskRepo,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

type TaskCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Instruction string  `json:"instruction" binding:"required"`
	AssignedTo  string  `json:"assigned_to" binding:"required,uuid"`
	Comment     *string `json:"comment"`
}

type TaskEditRequest struct {
	Name        *string `json:"name"`
	Instruction *string `json:"instruction"`
	Content     *string `json:"content"`
	Comment     *string `json:"comment"`
}

type TaskReviewRequest struct {
	State   string  `json:"state" binding:"required"`
	Comment *string `json:"comment"`
}

// CommentRequest is the optional body of start/submit/delete/recover calls
type CommentRequest struct {
	Comment *string `json:"comment"`
}

type TaskResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instruction  string `json:"instruction"`
	Content      string `json:"content"`
	State        string `json:"state"`
	CreatedBy    string `json:"created_by"`
	AssignedTo   string `json:"assigned_to"`
	CreatorName  string `json:"creator_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// List returns the tasks visible to the caller: own tasks for a developer,
// the team's tasks for a manager. ?state= filters by lifecycle state;
// ?deleted=true is the manager-only trash view.
func (h *TaskHandler) List(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}

	if c.Query("deleted") == "true" {
		if role != model.RoleManager {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only managers can view deleted tasks"})
			return
		}
		tasks, err := h.taskRepo.ListDeletedForManager(c.Request.Context(), actorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
			return
		}
		c.JSON(http.StatusOK, toTaskResponses(tasks))
		return
	}

	state := c.Query("state")
	if state != "" && !model.ValidState(state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state filter"})
		return
	}

	var (
		tasks []model.Task
		err   error
	)
	if role == model.RoleManager {
		tasks, err = h.taskRepo.ListForManager(c.Request.Context(), actorID, state)
	} else {
		tasks, err = h.taskRepo.ListForDeveloper(c.Request.Context(), actorID, state)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Create makes a new ASSIGNED task for a developer already on the calling
// manager's team
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}
	if role != model.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only managers can create tasks"})
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Instruction) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	assigneeID, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID format"})
		return
	}

	assignee, err := h.userRepo.GetByID(c.Request.Context(), assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if assignee == nil || assignee.Role != model.RoleDeveloper {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be a developer"})
		return
	}

	// Membership must already exist; creating a task never creates the edge
	onTeam, err := h.teamRepo.IsOnTeam(c.Request.Context(), actorID, assigneeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check team"})
		return
	}
	if !onTeam {
		c.JSON(http.StatusForbidden, gin.H{"error": "Developer is not on your team"})
		return
	}

	task := &model.Task{
		Name:        req.Name,
		Instruction: req.Instruction,
		CreatedBy:   actorID,
		AssignedTo:  assigneeID,
	}
	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Action:    model.ActionCreated,
		Comment:   req.Comment,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": task.ID, "state": task.State})
}

// GetByID returns a task detail; tasks outside the caller's scope are
// indistinguishable from missing ones
func (h *TaskHandler) GetByID(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}

	task, ok := h.visibleTask(c, actorID, role)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Edit applies a partial update. Managers may change name, instruction and
// content on any non-accepted task of their team; a developer may change
// only the content of their own task, and only while it is ONGOING.
func (h *TaskHandler) Edit(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}

	var req TaskEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, ok := h.visibleTask(c, actorID, role)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if role == model.RoleManager {
		putField(updates, "name", req.Name)
		putField(updates, "instruction", req.Instruction)
		putField(updates, "content", req.Content)
	} else {
		putField(updates, "content", req.Content)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid field supplied"})
		return
	}

	// Developer edits are only legal while the task is being worked on; the
	// repository re-checks this under the row lock
	expectedState := ""
	if role == model.RoleDeveloper {
		expectedState = model.StateOngoing
	}

	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Comment:   req.Comment,
	}

	updated, err := h.taskRepo.Edit(c.Request.Context(), task.ID, expectedState, updates, entry)
	if err != nil {
		respondTaskError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(updated))
}

// Start moves the caller's own ASSIGNED task to ONGOING
func (h *TaskHandler) Start(c *gin.Context) {
	h.shift(c, model.RoleDeveloper, model.StateAssigned, model.StateOngoing)
}

// Submit moves the caller's own ONGOING task to REVIEW
func (h *TaskHandler) Submit(c *gin.Context) {
	h.shift(c, model.RoleDeveloper, model.StateOngoing, model.StateReview)
}

// Review resolves a task in REVIEW: the manager either accepts it
// (terminal) or sends it back to ONGOING
func (h *TaskHandler) Review(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}
	if role != model.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only managers can review tasks"})
		return
	}

	var req TaskReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !model.ValidReviewTarget(req.State) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review target state"})
		return
	}

	task, ok := h.visibleTask(c, actorID, role)
	if !ok {
		return
	}

	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Comment:   req.Comment,
	}

	updated, err := h.taskRepo.Transition(c.Request.Context(), task.ID, model.StateReview, req.State, entry)
	if err != nil {
		respondTaskError(c, err, "Failed to review task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": updated.ID, "state": updated.State})
}

// Delete soft-deletes a team task; state and history stay intact
func (h *TaskHandler) Delete(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}
	if role != model.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only managers can delete tasks"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req CommentRequest
	_ = c.ShouldBindJSON(&req)

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if !errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
			return
		}
		// Distinguish "already deleted" from "never existed" for the caller,
		// but only inside the manager's own team scope
		deleted, derr := h.taskRepo.GetDeletedByID(c.Request.Context(), taskID)
		if derr == nil {
			if visible, verr := h.canAccess(c, actorID, role, deleted); verr == nil && visible {
				c.JSON(http.StatusConflict, gin.H{"error": "Task already deleted"})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
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

	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Comment:   req.Comment,
	}

	updated, err := h.taskRepo.SoftDelete(c.Request.Context(), task.ID, entry)
	if err != nil {
		respondTaskError(c, err, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(updated))
}

// Recover restores a soft-deleted team task with its prior state
func (h *TaskHandler) Recover(c *gin.Context) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}
	if role != model.RoleManager {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only managers can recover tasks"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req CommentRequest
	_ = c.ShouldBindJSON(&req)

	task, err := h.taskRepo.GetDeletedByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		return
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

	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Comment:   req.Comment,
	}

	updated, err := h.taskRepo.Recover(c.Request.Context(), task.ID, entry)
	if err != nil {
		respondTaskError(c, err, "Failed to recover task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(updated))
}

// shift is the shared body of Start and Submit: a developer-only guarded
// transition on the caller's own task
func (h *TaskHandler) shift(c *gin.Context, requiredRole, fromState, toState string) {
	actorID, role, ok := currentActor(c)
	if !ok {
		return
	}
	if role != requiredRole {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var req CommentRequest
	_ = c.ShouldBindJSON(&req)

	task, ok := h.visibleTask(c, actorID, role)
	if !ok {
		return
	}

	entry := &model.TaskHistory{
		ActorID:   actorID,
		ActorRole: role,
		Comment:   req.Comment,
	}

	updated, err := h.taskRepo.Transition(c.Request.Context(), task.ID, fromState, toState, entry)
	if err != nil {
		respondTaskError(c, err, "Failed to update task state")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": updated.ID, "state": updated.State})
}

// visibleTask loads the task from the :id param and applies the role's
// visibility rule; on failure it has already written the response. A task
// outside the caller's scope reads as not found on purpose.
func (h *TaskHandler) visibleTask(c *gin.Context, actorID uuid.UUID, role string) (*model.Task, bool) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return nil, false
	}

	visible, err := h.canAccess(c, actorID, role, task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check access"})
		return nil, false
	}
	if !visible {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return nil, false
	}

	return task, true
}

// canAccess is the authorization policy: a developer sees only their own
// tasks, a manager only tasks assigned to the current team
func (h *TaskHandler) canAccess(c *gin.Context, actorID uuid.UUID, role string, task *model.Task) (bool, error) {
	if role == model.RoleDeveloper {
		return task.AssignedTo == actorID, nil
	}
	return h.teamRepo.IsOnTeam(c.Request.Context(), actorID, task.AssignedTo)
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Name:        task.Name,
		Instruction: task.Instruction,
		Content:     task.Content,
		State:       task.State,
		CreatedBy:   task.CreatedBy.String(),
		AssignedTo:  task.AssignedTo.String(),
		IsDeleted:   task.IsDeleted,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.Creator.ID != uuid.Nil {
		resp.CreatorName = task.Creator.Name
	}
	if task.Assignee.ID != uuid.Nil {
		resp.AssigneeName = task.Assignee.Name
	}
	return resp
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	return responses
}

// putField records a patch field if it was supplied with a non-blank value
func putField(updates map[string]interface{}, column string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		updates[column] = *value
	}
}

func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return uuid.Nil, false
	}
	return taskID, true
}

// respondTaskError maps repository errors to status codes: conflicts are
// retryable (409), invisible tasks are 404
func respondTaskError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrTaskConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Task state changed, please refresh and retry"})
	case errors.Is(err, repository.ErrTaskAccepted):
		c.JSON(http.StatusConflict, gin.H{"error": "Accepted tasks cannot be modified"})
	case errors.Is(err, repository.ErrTaskAlreadyDeleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Task already deleted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// currentActor pulls the authenticated identity and acting role set by the
// auth middleware; on failure it has already written the error response
func currentActor(c *gin.Context) (uuid.UUID, string, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, "", false
	}

	value, exists := c.Get(middleware.UserRoleKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, "", false
	}

	role, ok := value.(string)
	if !ok || !model.ValidRole(role) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid role format"})
		return uuid.Nil, "", false
	}

	return userID, role, true
}
