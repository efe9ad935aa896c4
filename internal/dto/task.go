package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64               `json:"id"`
	ProjectID   uint64               `json:"project_id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	AssignedTo  *uint64              `json:"assigned_to"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *string              `json:"due_date"`
	Status      *models.TaskStatus   `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Project     *ProjectSummaryDTO   `json:"project,omitempty"`
	Assignee    *UserDTO             `json:"assignee"`
}

// SuggestedTaskDTO is a task proposed by the AI assistant, not yet persisted
type SuggestedTaskDTO struct {
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *string              `json:"due_date"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Name:        task.Name,
		Description: task.Description,
		AssignedTo:  task.AssignedTo,
		Priority:    task.Priority,
		DueDate:     formatDate(task.DueDate),
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignee:    toUserRef(task.Assignee),
	}

	// Include project if preloaded
	if task.Project != nil && task.Project.ID != 0 {
		project := ToProjectSummaryDTO(*task.Project)
		dto.Project = &project
	}

	return dto
}
