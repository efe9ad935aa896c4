package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

const dateLayout = "2006-01-02"

// ProjectSummaryDTO is a project without relations, as embedded in tasks
type ProjectSummaryDTO struct {
	ID          uint64                `json:"id"`
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	StartDate   *string               `json:"start_date"`
	EndDate     *string               `json:"end_date"`
	Status      *models.ProjectStatus `json:"status"`
	OwnerID     *uint64               `json:"owner_id"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ProjectDTO represents a project with its owner and tasks
type ProjectDTO struct {
	ProjectSummaryDTO
	Owner *UserDTO  `json:"owner"`
	Tasks []TaskDTO `json:"tasks"`
}

// ToProjectSummaryDTO converts a Project model without its relations
func ToProjectSummaryDTO(project models.Project) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   formatDate(project.StartDate),
		EndDate:     formatDate(project.EndDate),
		Status:      project.Status,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectDTO converts a Project model loaded with owner and tasks.assignee
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ProjectSummaryDTO: ToProjectSummaryDTO(project),
		Owner:             toUserRef(project.Owner),
		Tasks:             make([]TaskDTO, len(project.Tasks)),
	}

	for i, task := range project.Tasks {
		dto.Tasks[i] = ToTaskDTO(task)
	}

	return dto
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
