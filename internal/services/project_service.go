package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
	}
}

// projectRules builds the rule set for create and update. On update the name
// becomes optional and end_date falls back to the stored start_date.
func (s *ProjectService) projectRules(update bool, storedStart *time.Time) validation.Rules {
	name := validation.String("name").Required().Max(constants.MaxNameLength)
	if update {
		name = name.Sometimes()
	}

	return validation.Rules{
		name,
		validation.String("description").Nullable(),
		validation.Date("start_date").Nullable(),
		validation.Date("end_date").Nullable().AfterOrEqual("start_date", storedStart),
		validation.String("status").Nullable().In(models.ProjectStatuses...),
		validation.Integer("owner_id").Nullable().Exists(s.userRepo.Exists),
	}
}

// List returns every project with its owner and tasks
func (s *ProjectService) List(ctx context.Context, params utils.PaginationParams) (repository.Page[models.Project], error) {
	page, err := s.projectRepo.Paginate(ctx, repository.ProjectFilter{Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		return page, fmt.Errorf("failed to list projects: %w", err)
	}
	return page, nil
}

// ListMine returns the projects owned by the caller
func (s *ProjectService) ListMine(ctx context.Context, actor *models.User, params utils.PaginationParams) (repository.Page[models.Project], error) {
	if err := requireActor(actor); err != nil {
		return repository.Page[models.Project]{}, err
	}

	page, err := s.projectRepo.Paginate(ctx, repository.ProjectFilter{OwnerID: &actor.ID, Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		return page, fmt.Errorf("failed to list user projects: %w", err)
	}
	return page, nil
}

// Create validates the payload and stores a new project. Without an explicit
// owner the caller, when known, becomes the owner.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, payload validation.Payload) (*models.Project, error) {
	data, err := s.projectRules(false, nil).Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:        *data.String("name"),
		Description: data.String("description"),
		StartDate:   data.Date("start_date"),
		EndDate:     data.Date("end_date"),
		Status:      projectStatus(data.String("status")),
		OwnerID:     data.Uint("owner_id"),
	}
	if project.OwnerID == nil && actor != nil {
		ownerID := actor.ID
		project.OwnerID = &ownerID
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.load(ctx, project.ID)
}

// Get returns a project the caller may view
func (s *ProjectService) Get(ctx context.Context, actor *models.User, id uint64) (*models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanProject(actor, policy.ActionView, project) {
		return nil, apierrors.ErrForbidden
	}

	return project, nil
}

// ListTasks returns the tasks of a project the caller may view
func (s *ProjectService) ListTasks(ctx context.Context, actor *models.User, id uint64, params utils.PaginationParams) (repository.Page[models.Task], error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return repository.Page[models.Task]{}, err
	}

	page, err := s.taskRepo.ListByProjectWithAssignee(ctx, id, params.Page, params.PerPage)
	if err != nil {
		return page, fmt.Errorf("failed to list project tasks: %w", err)
	}
	return page, nil
}

// Update changes the supplied fields of a project owned by the caller
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id uint64, payload validation.Payload) (*models.Project, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, "project")
	}
	if !policy.CanProject(actor, policy.ActionUpdate, project) {
		return nil, apierrors.ErrForbidden
	}

	data, err := s.projectRules(true, project.StartDate).Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	if name := data.String("name"); name != nil {
		project.Name = *name
	}
	if data.Has("description") {
		project.Description = data.String("description")
	}
	if data.Has("start_date") {
		project.StartDate = data.Date("start_date")
	}
	if data.Has("end_date") {
		project.EndDate = data.Date("end_date")
	}
	if data.Has("status") {
		project.Status = projectStatus(data.String("status"))
	}
	if data.Has("owner_id") {
		project.OwnerID = data.Uint("owner_id")
	}

	if project.StartDate != nil && project.EndDate != nil && project.EndDate.Before(*project.StartDate) {
		return nil, apierrors.ValidationField("start_date", "The start date field must be a date before or equal to end date.")
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.load(ctx, project.ID)
}

// Delete removes a project owned by the caller together with its tasks
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id uint64) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, ErrProjectNotFound, "project")
	}
	if !policy.CanProject(actor, policy.ActionDelete, project) {
		return apierrors.ErrForbidden
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return lookupError(err, ErrProjectNotFound, "project")
	}
	return nil
}

func (s *ProjectService) load(ctx context.Context, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindWithOwnerAndTasks(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, "project")
	}
	return project, nil
}

func projectStatus(s *string) *models.ProjectStatus {
	if s == nil {
		return nil
	}
	status := models.ProjectStatus(*s)
	return &status
}
