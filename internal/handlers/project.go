package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/dto"
	"github.com/yukikurage/project-task-api/internal/middleware"
	"github.com/yukikurage/project-task-api/internal/services"
	"github.com/yukikurage/project-task-api/internal/utils"
)

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *services.ProjectService, taskService *services.TaskService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
	}
}

// ListProjects returns every project, 15 per page
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.ProjectPageSize)

	page, err := h.projectService.List(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Projects retrieved successfully",
		Data:    dto.NewPage(dto.Map(page.Items, dto.ToProjectDTO), params, page.Total, pageURL(c)),
	})
}

// ListMyProjects returns the projects owned by the caller
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.ProjectPageSize)

	page, err := h.projectService.ListMine(c.Request.Context(), middleware.CurrentUser(c), params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "User projects retrieved successfully",
		Data:    dto.NewPage(dto.Map(page.Items, dto.ToProjectDTO), params, page.Total, pageURL(c)),
	})
}

// CreateProject creates a project owned by the caller unless owner_id is given
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.CurrentUser(c), payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Message: "Project created successfully",
		Data:    dto.ToProjectDTO(*project),
	})
}

// GetProject returns a project with its owner and tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	h.showProject(c, "Project retrieved successfully")
}

// GetProjectDetail is GetProject under the /detail path
func (h *ProjectHandler) GetProjectDetail(c *gin.Context) {
	h.showProject(c, "Project detail retrieved successfully")
}

func (h *ProjectHandler) showProject(c *gin.Context, message string) {
	id, ok := parseID(c, services.ErrProjectNotFound)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: message,
		Data:    dto.ToProjectDTO(*project),
	})
}

// ListProjectTasks returns the tasks of a project, 20 per page
func (h *ProjectHandler) ListProjectTasks(c *gin.Context) {
	id, ok := parseID(c, services.ErrProjectNotFound)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c, constants.TaskPageSize)

	page, err := h.projectService.ListTasks(c.Request.Context(), middleware.CurrentUser(c), id, params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Project tasks retrieved successfully",
		Data:    dto.NewPage(dto.Map(page.Items, dto.ToTaskDTO), params, page.Total, pageURL(c)),
	})
}

// UpdateProject changes the supplied fields of a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c, services.ErrProjectNotFound)
	if !ok {
		return
	}

	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.CurrentUser(c), id, payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Project updated successfully",
		Data:    dto.ToProjectDTO(*project),
	})
}

// DeleteProject removes a project and its tasks
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c, services.ErrProjectNotFound)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateTasks proposes tasks for a project from free text
func (h *ProjectHandler) GenerateTasks(c *gin.Context) {
	id, ok := parseID(c, services.ErrProjectNotFound)
	if !ok {
		return
	}

	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	suggestions, err := h.taskService.GenerateTasks(c.Request.Context(), middleware.CurrentUser(c), id, payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Task suggestions generated successfully",
		Data:    dto.Map(suggestions, toSuggestedTaskDTO),
	})
}

func toSuggestedTaskDTO(task services.SuggestedTask) dto.SuggestedTaskDTO {
	suggestion := dto.SuggestedTaskDTO{
		Name:        task.Name,
		Description: task.Description,
		Priority:    task.Priority,
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("2006-01-02")
		suggestion.DueDate = &due
	}
	return suggestion
}

