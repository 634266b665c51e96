package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task, entry *model.TaskHistory) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListForDeveloper(ctx context.Context, developerID uuid.UUID, state string) ([]model.Task, error)
	ListForManager(ctx context.Context, managerID uuid.UUID, state string) ([]model.Task, error)
	ListDeletedForManager(ctx context.Context, managerID uuid.UUID) ([]model.Task, error)
	Transition(ctx context.Context, taskID uuid.UUID, fromState, toState string, entry *model.TaskHistory) (*model.Task, error)
	Edit(ctx context.Context, taskID uuid.UUID, expectedState string, updates map[string]interface{}, entry *model.TaskHistory) (*model.Task, error)
	SoftDelete(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error)
	Recover(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts a new task in ASSIGNED state together with its CREATED
// history entry. The two inserts share one transaction: a task without a
// creation record must never exist.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, entry *model.TaskHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.State = model.StateAssigned
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		entry.TaskID = task.ID
		entry.FromState = nil
		entry.ToState = model.StateAssigned
		return tx.Create(entry).Error
	})
}

// GetByID retrieves a non-deleted task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(&task, "id = ? AND is_deleted = ?", id, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// GetDeletedByID retrieves a soft-deleted task by its ID (trash view only)
func (r *TaskRepository) GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		First(&task, "id = ? AND is_deleted = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListForDeveloper returns the developer's own non-deleted tasks, optionally
// filtered by state
func (r *TaskRepository) ListForDeveloper(ctx context.Context, developerID uuid.UUID, state string) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Where("assigned_to = ? AND is_deleted = ?", developerID, false)
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListForManager returns non-deleted tasks assigned to developers currently
// on the manager's team, optionally filtered by state
func (r *TaskRepository) ListForManager(ctx context.Context, managerID uuid.UUID, state string) ([]model.Task, error) {
	query := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Where("assigned_to IN (?)", r.teamDevelopers(managerID)).
		Where("is_deleted = ?", false)
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListDeletedForManager returns the manager's trash view: soft-deleted tasks
// of the current team
func (r *TaskRepository) ListDeletedForManager(ctx context.Context, managerID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Assignee").
		Where("assigned_to IN (?)", r.teamDevelopers(managerID)).
		Where("is_deleted = ?", true).
		Order("updated_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Transition moves a task from one lifecycle state to another and appends
// the SHIFTED history entry, all in one transaction. The UPDATE is guarded
// by the expected source state: when two actors race on the same task,
// exactly one conditional update succeeds and the loser gets
// ErrTaskConflict with no history written.
func (r *TaskRepository) Transition(ctx context.Context, taskID uuid.UUID, fromState, toState string, entry *model.TaskHistory) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Task{}).
			Where("id = ? AND state = ? AND is_deleted = ?", taskID, fromState, false).
			Update("state", toState)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Zero rows means either the task is invisible or a concurrent
			// actor already moved it out of fromState
			var count int64
			if err := tx.Model(&model.Task{}).
				Where("id = ? AND is_deleted = ?", taskID, false).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrTaskNotFound
			}
			return ErrTaskConflict
		}

		entry.TaskID = taskID
		entry.FromState = &fromState
		entry.ToState = toState
		entry.Action = model.ActionShifted
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.First(&task, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Edit applies a validated field patch to a non-deleted, non-ACCEPTED task
// and appends the EDITED history entry. The row is locked for the duration
// of the transaction so the state check and the update cannot interleave
// with a concurrent transition. When expectedState is non-empty the task
// must still be in that state (developer edits require ONGOING).
func (r *TaskRepository) Edit(ctx context.Context, taskID uuid.UUID, expectedState string, updates map[string]interface{}, entry *model.TaskHistory) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ? AND is_deleted = ?", taskID, false).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if task.State == model.StateAccepted {
			return ErrTaskAccepted
		}
		if expectedState != "" && task.State != expectedState {
			return ErrTaskConflict
		}

		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}

		state := task.State
		entry.TaskID = task.ID
		entry.FromState = &state
		entry.ToState = state
		entry.Action = model.ActionEdited
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.First(&task, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// SoftDelete hides a task without touching its state or history and appends
// the DELETED entry (from_state = to_state = current state)
func (r *TaskRepository) SoftDelete(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ?", taskID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.IsDeleted {
			return ErrTaskAlreadyDeleted
		}

		if err := tx.Model(&task).Update("is_deleted", true).Error; err != nil {
			return err
		}

		state := task.State
		entry.TaskID = task.ID
		entry.FromState = &state
		entry.ToState = state
		entry.Action = model.ActionDeleted
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Recover makes a soft-deleted task visible again; its state is exactly
// what it was at deletion time
func (r *TaskRepository) Recover(ctx context.Context, taskID uuid.UUID, entry *model.TaskHistory) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&task, "id = ? AND is_deleted = ?", taskID, true).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		if err := tx.Model(&task).Update("is_deleted", false).Error; err != nil {
			return err
		}

		state := task.State
		entry.TaskID = task.ID
		entry.FromState = &state
		entry.ToState = state
		entry.Action = model.ActionRecovered
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// teamDevelopers builds the subquery "developers currently on this
// manager's team" used by the visibility-scoped listings
func (r *TaskRepository) teamDevelopers(managerID uuid.UUID) *gorm.DB {
	return r.db.Table("team").Select("developer_id").Where("manager_id = ?", managerID)
}
