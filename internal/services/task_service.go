package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/project-task-api/internal/constants"
	apierrors "github.com/yukikurage/project-task-api/internal/errors"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/policy"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
)

var ErrAIServiceNotConfigured = apierrors.ServiceUnavailable("AI service is not configured")

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	aiService   *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		aiService:   aiService,
	}
}

// taskRules builds the rule set for create and update. On update project_id
// and name become optional, but project_id may not be cleared.
func (s *TaskService) taskRules(update bool) validation.Rules {
	projectID := validation.Integer("project_id").Required().Exists(s.projectRepo.Exists)
	name := validation.String("name").Required().Max(constants.MaxNameLength)
	if update {
		projectID = projectID.Sometimes()
		name = name.Sometimes()
	}

	return validation.Rules{
		projectID,
		name,
		validation.String("description").Nullable(),
		validation.Integer("assigned_to").Nullable().Exists(s.userRepo.Exists),
		validation.String("priority").Nullable().In(models.TaskPriorities...),
		validation.Date("due_date").Nullable(),
		validation.String("status").Nullable().In(models.TaskStatuses...),
	}
}

// List returns every task with its project and assignee
func (s *TaskService) List(ctx context.Context, params utils.PaginationParams) (repository.Page[models.Task], error) {
	page, err := s.taskRepo.List(ctx, repository.TaskFilter{Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		return page, fmt.Errorf("failed to list tasks: %w", err)
	}
	return page, nil
}

// ListMine returns tasks assigned to the caller or in projects the caller owns
func (s *TaskService) ListMine(ctx context.Context, actor *models.User, params utils.PaginationParams) (repository.Page[models.Task], error) {
	if err := requireActor(actor); err != nil {
		return repository.Page[models.Task]{}, err
	}

	page, err := s.taskRepo.List(ctx, repository.TaskFilter{VisibleTo: &actor.ID, Page: params.Page, PerPage: params.PerPage})
	if err != nil {
		return page, fmt.Errorf("failed to list user tasks: %w", err)
	}
	return page, nil
}

// Create validates the payload and stores a new task
func (s *TaskService) Create(ctx context.Context, payload validation.Payload) (*models.Task, error) {
	data, err := s.taskRules(false).Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   *data.Uint("project_id"),
		Name:        *data.String("name"),
		Description: data.String("description"),
		AssignedTo:  data.Uint("assigned_to"),
		Priority:    taskPriority(data.String("priority")),
		DueDate:     data.Date("due_date"),
		Status:      taskStatus(data.String("status")),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.load(ctx, task.ID)
}

// Get returns a task with its project and assignee
func (s *TaskService) Get(ctx context.Context, actor *models.User, id uint64) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanTask(actor, policy.ActionView, task) {
		return nil, apierrors.ErrForbidden
	}
	return task, nil
}

// Update changes the supplied fields of a task
func (s *TaskService) Update(ctx context.Context, actor *models.User, id uint64, payload validation.Payload) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task")
	}
	if !policy.CanTask(actor, policy.ActionUpdate, task) {
		return nil, apierrors.ErrForbidden
	}

	data, err := s.taskRules(true).Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	if projectID := data.Uint("project_id"); projectID != nil {
		task.ProjectID = *projectID
	}
	if name := data.String("name"); name != nil {
		task.Name = *name
	}
	if data.Has("description") {
		task.Description = data.String("description")
	}
	if data.Has("assigned_to") {
		task.AssignedTo = data.Uint("assigned_to")
	}
	if data.Has("priority") {
		task.Priority = taskPriority(data.String("priority"))
	}
	if data.Has("due_date") {
		task.DueDate = data.Date("due_date")
	}
	if data.Has("status") {
		task.Status = taskStatus(data.String("status"))
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.load(ctx, task.ID)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, actor *models.User, id uint64) error {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, ErrTaskNotFound, "task")
	}
	if !policy.CanTask(actor, policy.ActionDelete, task) {
		return apierrors.ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return lookupError(err, ErrTaskNotFound, "task")
	}
	return nil
}

// GenerateTasks asks the AI assistant for task suggestions for a project the
// caller may update. Suggestions are returned, not stored.
func (s *TaskService) GenerateTasks(ctx context.Context, actor *models.User, projectID uint64, payload validation.Payload) ([]SuggestedTask, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, ErrProjectNotFound, "project")
	}
	if !policy.CanProject(actor, policy.ActionUpdate, project) {
		return nil, apierrors.ErrForbidden
	}

	data, err := validation.Rules{validation.String("text").Required()}.Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	if s.aiService == nil || !s.aiService.Configured() {
		return nil, ErrAIServiceNotConfigured
	}

	return s.aiService.SuggestTasks(ctx, project.Name, *data.String("text"))
}

func (s *TaskService) load(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindWithProjectAndAssignee(ctx, id)
	if err != nil {
		return nil, lookupError(err, ErrTaskNotFound, "task")
	}
	return task, nil
}

func taskPriority(s *string) *models.TaskPriority {
	if s == nil {
		return nil
	}
	priority := models.TaskPriority(*s)
	return &priority
}

func taskStatus(s *string) *models.TaskStatus {
	if s == nil {
		return nil
	}
	status := models.TaskStatus(*s)
	return &status
}
