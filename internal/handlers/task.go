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

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns every task, 20 per page
func (h *TaskHandler) ListTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.TaskPageSize)

	page, err := h.taskService.List(c.Request.Context(), params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Tasks retrieved successfully",
		Data:    dto.NewPage(dto.Map(page.Items, dto.ToTaskDTO), params, page.Total, pageURL(c)),
	})
}

// ListMyTasks returns tasks assigned to the caller or in projects the caller owns
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	params := utils.GetPaginationParams(c, constants.TaskPageSize)

	page, err := h.taskService.ListMine(c.Request.Context(), middleware.CurrentUser(c), params)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "User tasks retrieved successfully",
		Data:    dto.NewPage(dto.Map(page.Items, dto.ToTaskDTO), params, page.Total, pageURL(c)),
	})
}

// CreateTask creates a task in an existing project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.Response{
		Message: "Task created successfully",
		Data:    dto.ToTaskDTO(*task),
	})
}

// GetTask returns a task with its project and assignee
func (h *TaskHandler) GetTask(c *gin.Context) {
	h.showTask(c, "Task retrieved successfully")
}

// GetTaskDetail is GetTask under the /detail path
func (h *TaskHandler) GetTaskDetail(c *gin.Context) {
	h.showTask(c, "Task detail retrieved successfully")
}

func (h *TaskHandler) showTask(c *gin.Context, message string) {
	id, ok := parseID(c, services.ErrTaskNotFound)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: message,
		Data:    dto.ToTaskDTO(*task),
	})
}

// UpdateTask changes the supplied fields of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c, services.ErrTaskNotFound)
	if !ok {
		return
	}

	payload, err := bindPayload(c)
	if err != nil {
		c.Error(err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.CurrentUser(c), id, payload)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.Response{
		Message: "Task updated successfully",
		Data:    dto.ToTaskDTO(*task),
	})
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c, services.ErrTaskNotFound)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
