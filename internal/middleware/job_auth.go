package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/constants"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/models"
)

// JobFinder returns a job only when the viewer may see it.
type JobFinder interface {
	Get(viewer models.User, jobID string) (*models.Job, error)
}

// RequireJobAccess checks if the user can see the job in the :id parameter.
// Admins see every job; everyone else only jobs whose team includes them.
func RequireJobAccess(jobs JobFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		job, err := jobs.Get(user, c.Param("id"))
		if err != nil {
			// 404 rather than 403 so job ids outside the team don't leak
			apierrors.NotFound(c, "Job not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyJob, *job)
		c.Next()
	}
}

// GetJob retrieves the job loaded by RequireJobAccess
func GetJob(c *gin.Context) (models.Job, bool) {
	v, exists := c.Get(constants.ContextKeyJob)
	if !exists {
		return models.Job{}, false
	}
	job, ok := v.(models.Job)
	return job, ok
}
