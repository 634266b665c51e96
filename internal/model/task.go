package model

import (
	"time"

	"github.com/google/uuid"
)

// Task lifecycle states
const (
	StateAssigned = "ASSIGNED" // created, waiting for the developer to pick it up
	StateOngoing  = "ONGOING"  // developer is working on it
	StateReview   = "REVIEW"   // submitted, waiting for manager review
	StateAccepted = "ACCEPTED" // terminal, no further transitions
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Instruction string
	Content     string
	State       string    `gorm:"not null;default:'ASSIGNED';check:state IN ('ASSIGNED', 'ONGOING', 'REVIEW', 'ACCEPTED')"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	AssignedTo  uuid.UUID `gorm:"type:uuid;not null;index"`
	IsDeleted   bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Creator  User `gorm:"foreignKey:CreatedBy"`
	Assignee User `gorm:"foreignKey:AssignedTo"`
}

// ValidState reports whether s is one of the four lifecycle states.
func ValidState(s string) bool {
	switch s {
	case StateAssigned, StateOngoing, StateReview, StateAccepted:
		return true
	}
	return false
}

// ValidReviewTarget reports whether s is a legal outcome of a review:
// accept the work or send it back to the developer.
func ValidReviewTarget(s string) bool {
	return s == StateAccepted || s == StateOngoing
}
