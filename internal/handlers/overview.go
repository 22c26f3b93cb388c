package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/dto"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/services"
	"github.com/wmhi/site-portal/internal/utils"
)

// OverviewHandler serves the cross-job views: inbox, dashboard and reports.
type OverviewHandler struct {
	jobService  *services.JobService
	teamService *services.TeamService
}

func NewOverviewHandler(jobService *services.JobService, teamService *services.TeamService) *OverviewHandler {
	return &OverviewHandler{
		jobService:  jobService,
		teamService: teamService,
	}
}

// Inbox returns the unified chat feed, newest first, paginated
func (h *OverviewHandler) Inbox(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	page, pagination := utils.Paginate(h.jobService.Feed(user), params)

	c.JSON(http.StatusOK, gin.H{
		"messages":   dto.ToFeedItemDTOs(page, h.teamService.List()),
		"pagination": pagination,
	})
}

func (h *OverviewHandler) Dashboard(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.jobService.Dashboard(user))
}

// CompletedReport sums completed jobs finishing between from and to
// (YYYY-MM-DD, inclusive). Both default to the current month.
func (h *OverviewHandler) CompletedReport(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	report, err := h.jobService.CompletedReport(user, c.Query("from"), c.Query("to"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrInvalidDateRange):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
