package handler

import (
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TeamHandler struct {
	teamRepo repository.TeamRepositoryInterface
	userRepo repository.UserRepositoryInterface
}

func NewTeamHandler(
	teamRepo repository.TeamRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *TeamHandler {
	return &TeamHandler{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// GetMembers returns the developers currently on the calling manager's team
func (h *TeamHandler) GetMembers(c *gin.Context) {
	managerID, ok := currentUserID(c)
	if !ok {
		return
	}

	members, err := h.teamRepo.ListMembers(c.Request.Context(), managerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve team"})
		return
	}

	responses := make([]UserResponse, 0, len(members))
	for i := range members {
		responses = append(responses, toUserResponse(&members[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// GetDevelopers returns every registered developer, flagging the ones
// already on the calling manager's team (used by the add-member view)
func (h *TeamHandler) GetDevelopers(c *gin.Context) {
	managerID, ok := currentUserID(c)
	if !ok {
		return
	}

	developers, err := h.teamRepo.ListDevelopers(c.Request.Context(), managerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve developers"})
		return
	}

	c.JSON(http.StatusOK, developers)
}

// AddMember puts a developer on the calling manager's team. A developer has
// one manager at a time, so this silently takes the developer over from a
// previous manager (last writer wins).
func (h *TeamHandler) AddMember(c *gin.Context) {
	managerID, ok := currentUserID(c)
	if !ok {
		return
	}

	developerID, err := uuid.Parse(c.Param("developerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid developer ID format"})
		return
	}

	developer, err := h.userRepo.GetByID(c.Request.Context(), developerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if developer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Developer not found"})
		return
	}
	if developer.Role != model.RoleDeveloper {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only developers can be added to a team"})
		return
	}

	if err := h.teamRepo.SetManager(c.Request.Context(), managerID, developerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Developer added to team"})
}
