package repository

import (
	"context"

	"github.com/yukikurage/project-task-api/internal/models"
)

// Page is one slice of an ordered listing together with the total row count.
type Page[T any] struct {
	Items []T
	Total int64
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OwnerID *uint64
	Page    int
	PerPage int
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// VisibleTo restricts the listing to tasks assigned to the user or
	// belonging to a project the user owns.
	VisibleTo *uint64
	Page      int
	PerPage   int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project without relations
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// FindWithOwnerAndTasks finds a project with its owner summary and its
	// tasks, each task carrying its assignee summary
	FindWithOwnerAndTasks(ctx context.Context, id uint64) (*models.Project, error)

	// Paginate lists projects with their owner and tasks.assignee in id order
	Paginate(ctx context.Context, filter ProjectFilter) (Page[models.Project], error)

	// Update persists the project's own columns
	Update(ctx context.Context, project *models.Project) error

	// Delete soft deletes a project and its tasks
	Delete(ctx context.Context, id uint64) error

	// Exists reports whether a live project has the given id
	Exists(ctx context.Context, id uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task without relations
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// FindWithProjectAndAssignee finds a task with its project and assignee summary
	FindWithProjectAndAssignee(ctx context.Context, id uint64) (*models.Task, error)

	// List lists tasks with project and assignee in id order
	List(ctx context.Context, filter TaskFilter) (Page[models.Task], error)

	// ListByProjectWithAssignee lists the tasks of one project with their assignee
	ListByProjectWithAssignee(ctx context.Context, projectID uint64, page, perPage int) (Page[models.Task], error)

	// Update persists the task's own columns
	Update(ctx context.Context, task *models.Task) error

	// Delete soft deletes a task
	Delete(ctx context.Context, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailTaken reports whether another user already uses the email.
	// exceptID excludes one row (the caller's own) when non-zero.
	EmailTaken(ctx context.Context, email string, exceptID uint64) (bool, error)

	// Exists reports whether a user has the given id
	Exists(ctx context.Context, id uint64) (bool, error)

	// Update persists the user's own columns
	Update(ctx context.Context, user *models.User) error
}
