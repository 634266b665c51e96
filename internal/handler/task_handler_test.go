package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock of the task repository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task, entry *model.TaskHistory) error {
	args := m.Called(ctx, task, entry)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListForDeveloper(ctx context.Context, developerID uuid.UUID, state string) ([]model.Task, error) {
	args := m.Called(ctx, developerID, state)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListForManager(ctx context.Context, managerID uuid.UUID, state string) ([]model.Task, error) {
	args := m.Called(ctx, managerID, state)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListDeletedForManager(ctx context.Context, managerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, managerID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Transition(ctx context.Context, taskID uuid.UUID, fromState, toState string, entry *model.TaskHistory) (*model.Task, error) {
	args := m.Called(ctx, taskID, fromState, toState, entry)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Edit(ctx context.Context, taskID uuid.UUID, expectedState string, updates map[string]interface{}, entry *model.TaskHistory) (*model.Task, error) {
	args := m.Called(ctx, taskID, expectedState, updates, entry)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) SoftDelete(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error) {
	args := m.Called(ctx, taskID, entry)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Recover(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error) {
	args := m.Called(ctx, taskID, entry)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

// Mock of the team repository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) SetManager(ctx context.Context, managerID, developerID uuid.UUID) error {
	args := m.Called(ctx, managerID, developerID)
	return args.Error(0)
}

func (m *MockTeamRepository) IsOnTeam(ctx context.Context, managerID, developerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, managerID, developerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) ListMembers(ctx context.Context, managerID uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, managerID)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

func (m *MockTeamRepository) ListDevelopers(ctx context.Context, managerID uuid.UUID) ([]repository.DeveloperInfo, error) {
	args := m.Called(ctx, managerID)
	devs := args.Get(0)
	if devs == nil {
		return nil, args.Error(1)
	}
	return devs.([]repository.DeveloperInfo), args.Error(1)
}

// fakeAuth injects an authenticated identity the way the JWT middleware
// would, so handlers can be exercised without real tokens
func fakeAuth(userID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, role)
		c.Next()
	}
}

func setupTaskTest(actorID uuid.UUID, role string) (*gin.Engine, *MockTaskRepository, *MockTeamRepository, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()

	mockTaskRepo := new(MockTaskRepository)
	mockTeamRepo := new(MockTeamRepository)
	mockUserRepo := new(MockUserRepository)
	taskHandler := handler.NewTaskHandler(mockTaskRepo, mockTeamRepo, mockUserRepo)

	tasks := r.Group("/tasks", fakeAuth(actorID, role))
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PATCH("/:id", taskHandler.Edit)
		tasks.PATCH("/:id/start", taskHandler.Start)
		tasks.PATCH("/:id/submit", taskHandler.Submit)
		tasks.PATCH("/:id/review", taskHandler.Review)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/recover", taskHandler.Recover)
	}

	return r, mockTaskRepo, mockTeamRepo, mockUserRepo
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateTask_Success(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, mockUserRepo := setupTaskTest(managerID, model.RoleManager)

	mockUserRepo.On("GetByID", mock.Anything, developerID).Return(&model.User{
		ID:   developerID,
		Role: model.RoleDeveloper,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(true, nil)
	mockTaskRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task"), mock.AnythingOfType("*model.TaskHistory")).
		Run(func(args mock.Arguments) {
			task := args.Get(1).(*model.Task)
			task.ID = uuid.New()
			task.State = model.StateAssigned
		}).
		Return(nil)

	req := jsonRequest("POST", "/tasks", handler.TaskCreateRequest{
		Name:        "Implement login",
		Instruction: "Add the login endpoint",
		AssignedTo:  developerID.String(),
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, model.StateAssigned, response["state"])
	assert.NotEmpty(t, response["id"])

	// The creation gets a history entry authored by the manager
	createCall := mockTaskRepo.Calls[0]
	entry := createCall.Arguments.Get(2).(*model.TaskHistory)
	assert.Equal(t, managerID, entry.ActorID)
	assert.Equal(t, model.ActionCreated, entry.Action)

	mockTaskRepo.AssertExpectations(t)
	mockTeamRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestCreateTask_AssigneeNotOnTeam(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, mockUserRepo := setupTaskTest(managerID, model.RoleManager)

	mockUserRepo.On("GetByID", mock.Anything, developerID).Return(&model.User{
		ID:   developerID,
		Role: model.RoleDeveloper,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(false, nil)

	req := jsonRequest("POST", "/tasks", handler.TaskCreateRequest{
		Name:        "Implement login",
		Instruction: "Add the login endpoint",
		AssignedTo:  developerID.String(),
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - assigning off-team is rejected, never auto-joins
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTask_AssigneeNotDeveloper(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	otherManagerID := uuid.New()
	router, mockTaskRepo, _, mockUserRepo := setupTaskTest(managerID, model.RoleManager)

	mockUserRepo.On("GetByID", mock.Anything, otherManagerID).Return(&model.User{
		ID:   otherManagerID,
		Role: model.RoleManager,
	}, nil)

	req := jsonRequest("POST", "/tasks", handler.TaskCreateRequest{
		Name:        "Implement login",
		Instruction: "Add the login endpoint",
		AssignedTo:  otherManagerID.String(),
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartTask_Success(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateAssigned,
		AssignedTo: developerID,
	}, nil)
	mockTaskRepo.On("Transition", mock.Anything, taskID, model.StateAssigned, model.StateOngoing, mock.AnythingOfType("*model.TaskHistory")).
		Return(&model.Task{ID: taskID, State: model.StateOngoing, AssignedTo: developerID}, nil)

	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/start", taskID), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, model.StateOngoing, response["state"])

	mockTaskRepo.AssertExpectations(t)
}

func TestStartTask_NotAssignee(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	// The task belongs to someone else, so it reads as missing
	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateAssigned,
		AssignedTo: uuid.New(),
	}, nil)

	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/start", taskID), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartTask_ConflictWhenAlreadyStarted(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateAssigned,
		AssignedTo: developerID,
	}, nil)
	// A concurrent request won the transition
	mockTaskRepo.On("Transition", mock.Anything, taskID, model.StateAssigned, model.StateOngoing, mock.AnythingOfType("*model.TaskHistory")).
		Return(nil, repository.ErrTaskConflict)

	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/start", taskID), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	mockTaskRepo.AssertExpectations(t)
}

func TestStartTask_ForbiddenForManager(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(managerID, model.RoleManager)

	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/start", uuid.New()), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewTask_Accept(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, _ := setupTaskTest(managerID, model.RoleManager)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateReview,
		AssignedTo: developerID,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(true, nil)
	mockTaskRepo.On("Transition", mock.Anything, taskID, model.StateReview, model.StateAccepted, mock.AnythingOfType("*model.TaskHistory")).
		Return(&model.Task{ID: taskID, State: model.StateAccepted, AssignedTo: developerID}, nil)

	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/review", taskID), handler.TaskReviewRequest{
		State: model.StateAccepted,
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, model.StateAccepted, response["state"])

	mockTaskRepo.AssertExpectations(t)
	mockTeamRepo.AssertExpectations(t)
}

func TestReviewTask_InvalidTargetState(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(managerID, model.RoleManager)

	// A review resolves to ACCEPTED or back to ONGOING, nothing else
	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s/review", uuid.New()), handler.TaskReviewRequest{
		State: model.StateReview,
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEditTask_DeveloperCannotTouchName(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateOngoing,
		AssignedTo: developerID,
	}, nil)

	name := "New name"
	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s", taskID), handler.TaskEditRequest{
		Name: &name,
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - for a developer only content is editable, so nothing remains
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "No valid field supplied", response["error"])

	mockTaskRepo.AssertNotCalled(t, "Edit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEditTask_DeveloperEditsContentWhileOngoing(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateOngoing,
		AssignedTo: developerID,
	}, nil)
	mockTaskRepo.On("Edit", mock.Anything, taskID, model.StateOngoing,
		map[string]interface{}{"content": "Work in progress"}, mock.AnythingOfType("*model.TaskHistory")).
		Return(&model.Task{ID: taskID, State: model.StateOngoing, AssignedTo: developerID, Content: "Work in progress"}, nil)

	content := "Work in progress"
	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s", taskID), handler.TaskEditRequest{
		Content: &content,
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Work in progress", response.Content)

	mockTaskRepo.AssertExpectations(t)
}

func TestEditTask_AcceptedTaskIsImmutable(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, _ := setupTaskTest(managerID, model.RoleManager)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateAccepted,
		AssignedTo: developerID,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(true, nil)
	mockTaskRepo.On("Edit", mock.Anything, taskID, "",
		map[string]interface{}{"name": "New name"}, mock.AnythingOfType("*model.TaskHistory")).
		Return(nil, repository.ErrTaskAccepted)

	name := "New name"
	req := jsonRequest("PATCH", fmt.Sprintf("/tasks/%s", taskID), handler.TaskEditRequest{
		Name: &name,
	})

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Accepted tasks cannot be modified", response["error"])

	mockTaskRepo.AssertExpectations(t)
}

func TestListTasks_InvalidStateFilter(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	req := jsonRequest("GET", "/tasks?state=DONE", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "ListForDeveloper", mock.Anything, mock.Anything, mock.Anything)
}

func TestListTasks_DeveloperSeesOwnTasks(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	mockTaskRepo.On("ListForDeveloper", mock.Anything, developerID, "").Return([]model.Task{
		{ID: uuid.New(), Name: "Task one", State: model.StateAssigned, AssignedTo: developerID},
		{ID: uuid.New(), Name: "Task two", State: model.StateOngoing, AssignedTo: developerID},
	}, nil)

	req := jsonRequest("GET", "/tasks", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)

	mockTaskRepo.AssertExpectations(t)
}

func TestListDeletedTasks_ForbiddenForDeveloper(t *testing.T) {
	// Arrange
	developerID := uuid.New()
	router, mockTaskRepo, _, _ := setupTaskTest(developerID, model.RoleDeveloper)

	req := jsonRequest("GET", "/tasks?deleted=true", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	mockTaskRepo.AssertNotCalled(t, "ListDeletedForManager", mock.Anything, mock.Anything)
}

func TestDeleteTask_AlreadyDeleted(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, _ := setupTaskTest(managerID, model.RoleManager)

	mockTaskRepo.On("GetByID", mock.Anything, taskID).Return(nil, repository.ErrTaskNotFound)
	mockTaskRepo.On("GetDeletedByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateOngoing,
		AssignedTo: developerID,
		IsDeleted:  true,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(true, nil)

	req := jsonRequest("DELETE", fmt.Sprintf("/tasks/%s", taskID), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - deleting twice reports the deleted state, not a missing task
	assert.Equal(t, http.StatusConflict, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Task already deleted", response["error"])

	mockTaskRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecoverTask_RestoresPriorState(t *testing.T) {
	// Arrange
	managerID := uuid.New()
	developerID := uuid.New()
	taskID := uuid.New()
	router, mockTaskRepo, mockTeamRepo, _ := setupTaskTest(managerID, model.RoleManager)

	mockTaskRepo.On("GetDeletedByID", mock.Anything, taskID).Return(&model.Task{
		ID:         taskID,
		State:      model.StateReview,
		AssignedTo: developerID,
		IsDeleted:  true,
	}, nil)
	mockTeamRepo.On("IsOnTeam", mock.Anything, managerID, developerID).Return(true, nil)
	mockTaskRepo.On("Recover", mock.Anything, taskID, mock.AnythingOfType("*model.TaskHistory")).
		Return(&model.Task{ID: taskID, State: model.StateReview, AssignedTo: developerID, IsDeleted: false}, nil)

	req := jsonRequest("POST", fmt.Sprintf("/tasks/%s/recover", taskID), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert - recovery keeps the state the task had when it was deleted
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.TaskResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, model.StateReview, response.State)
	assert.False(t, response.IsDeleted)

	mockTaskRepo.AssertExpectations(t)
	mockTeamRepo.AssertExpectations(t)
}
