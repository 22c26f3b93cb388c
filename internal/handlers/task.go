package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/dto"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/middleware"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/services"
	"github.com/wmhi/site-portal/internal/taskview"
	"github.com/wmhi/site-portal/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) toDTO(task models.Task) dto.TaskDTO {
	users, jobs := h.taskService.Directory()
	return dto.ToTaskDTO(task, users, jobs)
}

// Board returns the grouped "my tasks" and "delegated" views.
// Admins may pass user_id to view someone else's board.
// The status filter defaults to pending.
func (h *TaskHandler) Board(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	filter := taskview.Filter{
		Search:   c.Query("search"),
		Priority: c.DefaultQuery("priority", taskview.PriorityAll),
		Status:   taskview.StatusFilter(c.DefaultQuery("status", string(taskview.StatusPending))),
	}

	board, err := h.taskService.Board(user, c.Query("user_id"), filter)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	users, jobs := h.taskService.Directory()
	c.JSON(http.StatusOK, dto.ToBoardDTO(board, users, jobs))
}

// AssignableUsers lists who can take a task, optionally scoped to project_id
func (h *TaskHandler) AssignableUsers(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	users, err := h.taskService.AssignableUsers(user, c.Query("project_id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GetTask returns a task already loaded by RequireTaskAccess
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}
	c.JSON(http.StatusOK, h.toDTO(task))
}

// CreateTask creates a personal, individual or project task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Kind        services.TaskKind   `json:"kind"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		AssigneeID  string              `json:"assignedTo"`
		ProjectID   string              `json:"projectId"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     string              `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(user, services.CreateTaskInput(req))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.toDTO(*task))
}

// UpdateTask updates only the fields present in the body
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		AssigneeID  *string              `json:"assignedTo"`
		ProjectID   *string              `json:"projectId"`
		Priority    *models.TaskPriority `json:"priority"`
		DueDate     *string              `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(user, c.Param("id"), services.UpdateTaskInput(req))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toDTO(*task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(user, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// ToggleStatus flips the task between Completed and Pending
func (h *TaskHandler) ToggleStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleStatus(user, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toDTO(*task))
}

func (h *TaskHandler) SetStatus(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type SetStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.SetStatus(user, c.Param("id"), req.Status)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toDTO(*task))
}

// UploadAttachment stores a multipart "file" on the task as a data URL
func (h *TaskHandler) UploadAttachment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}

	upload, err := utils.ReadUpload(fh, constants.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, utils.ErrUploadTooLarge) {
			apierrors.TooLarge(c, "")
			return
		}
		apierrors.BadRequest(c, "Failed to read upload")
		return
	}

	task, err := h.taskService.Attach(user, c.Param("id"), upload.Name, upload.MediaType, upload.DataURL)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toDTO(*task))
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type CommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Comment(user, c.Param("id"), req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.BadRequest(c, "Assignee not found")
	case errors.Is(err, taskview.ErrInvalidStatusFilter),
		errors.Is(err, taskview.ErrInvalidPriorityFilter),
		services.IsValidationError(err):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
