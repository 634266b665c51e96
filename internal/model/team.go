package model

import (
	"time"

	"github.com/google/uuid"
)

// TeamMembership is the single mutable edge developer -> manager. The unique
// index on developer_id is what guarantees a developer has at most one
// manager; reassignment overwrites the edge (last writer wins).
type TeamMembership struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ManagerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DeveloperID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`

	Manager   User `gorm:"foreignKey:ManagerID"`
	Developer User `gorm:"foreignKey:DeveloperID"`
}

func (TeamMembership) TableName() string {
	return "team"
}
