package task

import (
	"errors"
	"fmt"

	domain "github.com/example/todo-api/domain/task"
	"gorm.io/gorm"
)

// Repository provides owner-scoped access to task storage. Every single-row
// operation applies the (id, user_id) predicate inside the query itself, so
// ownership is checked and the row accessed in one atomic statement rather
// than fetch-then-compare.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new task. The store assigns the id.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindOwned retrieves the task with the given id if it belongs to ownerID.
// A miss is classified as ErrTaskNotFound or ErrAccessDenied.
func (r *Repository) FindOwned(id, ownerID int64) (*domain.Task, error) {
	var task domain.Task
	err := r.db.First(&task, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.classifyMiss(id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwner retrieves all of ownerID's tasks matching the filter, newest
// first by creation time.
func (r *Repository) FindByOwner(ownerID int64, filter domain.StatusFilter) ([]*domain.Task, error) {
	query := r.db.Where("user_id = ?", ownerID)
	switch filter {
	case domain.FilterComplete:
		query = query.Where("is_complete = ?", true)
	case domain.FilterIncomplete:
		query = query.Where("is_complete = ?", false)
	}

	var tasks []*domain.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CountByOwner returns ownerID's total task count, ignoring any filter.
func (r *Repository) CountByOwner(ownerID int64) (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Task{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// UpdateOwned applies the given column changes to the task with the given
// id, guarded by the ownership predicate. changes must include the new
// updated_at value.
func (r *Repository) UpdateOwned(id, ownerID int64, changes map[string]any) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(id)
	}
	return nil
}

// DeleteOwned permanently removes the task with the given id, guarded by
// the ownership predicate.
func (r *Repository) DeleteOwned(id, ownerID int64) error {
	result := r.db.Delete(&domain.Task{}, "id = ? AND user_id = ?", id, ownerID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.classifyMiss(id)
	}
	return nil
}

// classifyMiss distinguishes "no such task" from "task owned by someone
// else" after an ownership-guarded query matched nothing. The extra probe
// never returns row data, only existence.
func (r *Repository) classifyMiss(id int64) error {
	var count int64
	if err := r.db.Model(&domain.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check task existence: %w", err)
	}
	if count > 0 {
		return ErrAccessDenied
	}
	return ErrTaskNotFound
}
