package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// withOwnerAndTasks is the "project with owner and tasks.assignee" fetch shape.
func withOwnerAndTasks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner", database.UserSummary).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.id")
		}).
		Preload("Tasks.Assignee", database.UserSummary)
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project without relations
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindWithOwnerAndTasks finds a project with owner and tasks.assignee
func (r *GormProjectRepository) FindWithOwnerAndTasks(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Scopes(withOwnerAndTasks).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Paginate lists projects with their relations in id order
func (r *GormProjectRepository) Paginate(ctx context.Context, filter ProjectFilter) (Page[models.Project], error) {
	query := r.db.WithContext(ctx).Model(&models.Project{})
	if filter.OwnerID != nil {
		query = query.Where("projects.owner_id = ?", *filter.OwnerID)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page[models.Project]{}, err
	}

	projects := []models.Project{}
	params := utils.NewPaginationParams(filter.Page, filter.PerPage)
	err := query.
		Scopes(withOwnerAndTasks, database.Paginate(params)).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return Page[models.Project]{}, err
	}

	return Page[models.Project]{Items: projects, Total: total}, nil
}

// Update persists the project's own columns
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete soft deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Exists reports whether a live project has the given id
func (r *GormProjectRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
