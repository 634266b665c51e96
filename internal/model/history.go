package model

import (
	"time"

	"github.com/google/uuid"
)

// History actions
const (
	ActionCreated   = "CREATED"
	ActionShifted   = "SHIFTED"
	ActionEdited    = "EDITED"
	ActionDeleted   = "DELETED"
	ActionRecovered = "RECOVERED"
)

// TaskHistory is the append-only audit record of a task. Rows are only ever
// inserted, in the same transaction as the mutation they describe. FromState
// is null only for the creation entry; for EDITED/DELETED/RECOVERED entries
// from_state equals to_state.
type TaskHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromState *string   `gorm:"check:from_state IN ('ASSIGNED', 'ONGOING', 'REVIEW', 'ACCEPTED')"`
	ToState   string    `gorm:"not null;check:to_state IN ('ASSIGNED', 'ONGOING', 'REVIEW', 'ACCEPTED')"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorRole string    `gorm:"not null;check:actor_role IN ('Manager', 'Developer')"`
	Action    string    `gorm:"not null;check:action IN ('CREATED', 'SHIFTED', 'EDITED', 'DELETED', 'RECOVERED')"`
	Comment   *string
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	Task  Task `gorm:"foreignKey:TaskID"`
	Actor User `gorm:"foreignKey:ActorID"`
}

func (TaskHistory) TableName() string {
	return "task_history"
}
