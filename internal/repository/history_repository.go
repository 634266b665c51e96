package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/model"
)

// HistoryRepository is read-only by design: entries are inserted by the task
// repository inside the transaction of the mutation they record, and there
// is no update or delete path at all.
type HistoryRepository struct {
	db *gorm.DB
}

type HistoryRepositoryInterface interface {
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.TaskHistory, error)
	ListForDeveloper(ctx context.Context, developerID uuid.UUID) ([]model.TaskHistory, error)
	ListForManager(ctx context.Context, managerID uuid.UUID) ([]model.TaskHistory, error)
}

var _ HistoryRepositoryInterface = (*HistoryRepository)(nil)

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// ListByTask returns every entry for one task, most recent first. Visibility
// of the task itself is the handler's concern.
func (r *HistoryRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.TaskHistory, error) {
	var entries []model.TaskHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForDeveloper returns the activity feed of a developer: entries of the
// non-deleted tasks currently assigned to them, most recent first
func (r *HistoryRepository) ListForDeveloper(ctx context.Context, developerID uuid.UUID) ([]model.TaskHistory, error) {
	var entries []model.TaskHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("task_id IN (?)", r.db.Table("tasks").Select("id").
			Where("assigned_to = ? AND is_deleted = ?", developerID, false)).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForManager returns entries of every task assigned to the manager's
// current team, most recent first. Soft-deleted tasks are included because
// the manager owns the trash view and deletion is part of the audit trail.
func (r *HistoryRepository) ListForManager(ctx context.Context, managerID uuid.UUID) ([]model.TaskHistory, error) {
	var entries []model.TaskHistory
	err := r.db.WithContext(ctx).
		Preload("Actor").
		Where("task_id IN (?)", r.db.Table("tasks").Select("id").
			Where("assigned_to IN (?)", r.db.Table("team").Select("developer_id").
				Where("manager_id = ?", managerID))).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
