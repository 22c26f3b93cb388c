package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/constants"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/models"
)

// TaskFinder returns a task only when the actor may access it.
type TaskFinder interface {
	Get(actor models.User, taskID string) (*models.Task, error)
}

// RequireTaskAccess checks if the user has access to a task.
// The user must be its assignee, its assigner, or an admin.
func RequireTaskAccess(tasks TaskFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := tasks.Get(user, c.Param("id"))
		if err != nil {
			// Return 404 instead of 403 to avoid leaking task existence
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := v.(models.Task)
	return task, ok
}
