package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// withProjectAndAssignee is the "task with project and assignee" fetch shape.
func withProjectAndAssignee(db *gorm.DB) *gorm.DB {
	return db.Preload("Project").Preload("Assignee", database.UserSummary)
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task without relations
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindWithProjectAndAssignee finds a task with its project and assignee summary
func (r *GormTaskRepository) FindWithProjectAndAssignee(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Scopes(withProjectAndAssignee).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List lists tasks with project and assignee in id order
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) (Page[models.Task], error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.VisibleTo != nil {
		ownedProjects := r.db.Model(&models.Project{}).
			Select("1").
			Where("projects.id = tasks.project_id").
			Where("projects.owner_id = ?", *filter.VisibleTo).
			Where("projects.deleted_at IS NULL")
		query = query.Where("tasks.assigned_to = ? OR EXISTS (?)", *filter.VisibleTo, ownedProjects)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[models.Task]{}, err
	}

	tasks := []models.Task{}
	params := utils.NewPaginationParams(filter.Page, filter.PerPage)
	err := query.
		Scopes(withProjectAndAssignee, database.Paginate(params)).
		Order("tasks.id").
		Find(&tasks).Error
	if err != nil {
		return Page[models.Task]{}, err
	}

	return Page[models.Task]{Items: tasks, Total: total}, nil
}

// ListByProjectWithAssignee lists the tasks of one project with their assignee
func (r *GormTaskRepository) ListByProjectWithAssignee(ctx context.Context, projectID uint64, page, perPage int) (Page[models.Task], error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("tasks.project_id = ?", projectID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[models.Task]{}, err
	}

	tasks := []models.Task{}
	params := utils.NewPaginationParams(page, perPage)
	err := query.
		Preload("Assignee", database.UserSummary).
		Scopes(database.Paginate(params)).
		Order("tasks.id").
		Find(&tasks).Error
	if err != nil {
		return Page[models.Task]{}, err
	}

	return Page[models.Task]{Items: tasks, Total: total}, nil
}

// Update persists the task's own columns
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
