package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/model"
)

type TeamRepository struct {
	db *gorm.DB
}

type TeamRepositoryInterface interface {
	SetManager(ctx context.Context, managerID, developerID uuid.UUID) error
	IsOnTeam(ctx context.Context, managerID, developerID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, managerID uuid.UUID) ([]model.User, error)
	ListDevelopers(ctx context.Context, managerID uuid.UUID) ([]DeveloperInfo, error)
}

var _ TeamRepositoryInterface = (*TeamRepository)(nil)

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// DeveloperInfo is a developer row annotated with whether the developer is
// currently on the requesting manager's team
type DeveloperInfo struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	IsInTeam bool      `json:"is_in_team"`
}

// SetManager assigns a developer to a manager. A developer has at most one
// manager, so an existing edge is overwritten (last writer wins); the
// lifecycle engine only ever reads this mapping.
func (r *TeamRepository) SetManager(ctx context.Context, managerID, developerID uuid.UUID) error {
	membership := model.TeamMembership{
		ManagerID:   managerID,
		DeveloperID: developerID,
	}

	// Transaction so concurrent reassignments cannot produce two edges
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.TeamMembership
		err := tx.Where("developer_id = ?", developerID).First(&existing).Error

		// Edge already exists, repoint it to the new manager
		if err == nil {
			existing.ManagerID = managerID
			return tx.Save(&existing).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&membership).Error
	})
}

// IsOnTeam reports whether the developer is currently managed by the manager
func (r *TeamRepository) IsOnTeam(ctx context.Context, managerID, developerID uuid.UUID) (bool, error) {
	var membership model.TeamMembership
	err := r.db.WithContext(ctx).
		Where("manager_id = ? AND developer_id = ?", managerID, developerID).
		First(&membership).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// ListMembers returns the users currently on the manager's team
func (r *TeamRepository) ListMembers(ctx context.Context, managerID uuid.UUID) ([]model.User, error) {
	var members []model.User

	err := r.db.WithContext(ctx).
		Joins("JOIN team ON team.developer_id = users.id").
		Where("team.manager_id = ?", managerID).
		Order("users.created_at ASC").
		Find(&members).Error

	return members, err
}

// ListDevelopers returns every developer with a flag marking the ones
// already on the manager's team
func (r *TeamRepository) ListDevelopers(ctx context.Context, managerID uuid.UUID) ([]DeveloperInfo, error) {
	var developers []DeveloperInfo

	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.name, users.email, users.phone, CASE WHEN team.manager_id = ? THEN true ELSE false END AS is_in_team", managerID).
		Joins("LEFT JOIN team ON team.developer_id = users.id").
		Where("users.role = ?", model.RoleDeveloper).
		Order("users.created_at ASC").
		Scan(&developers).Error

	return developers, err
}
