package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleManager   = "Manager"   // creates tasks, reviews submissions, manages the team
	RoleDeveloper = "Developer" // starts, works on and submits assigned tasks
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	Phone          string
	Role           string    `gorm:"not null;check:role IN ('Manager', 'Developer')"`
	RefreshToken   string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// ValidRole reports whether s is a known user role.
func ValidRole(s string) bool {
	return s == RoleManager || s == RoleDeveloper
}
