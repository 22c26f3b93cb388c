package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/aggregate"
	"github.com/wmhi/site-portal/internal/constants"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/middleware"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/services"
)

type JobHandler struct {
	jobService  *services.JobService
	teamService *services.TeamService
	aiService   *services.AIService
}

func NewJobHandler(jobService *services.JobService, teamService *services.TeamService, aiService *services.AIService) *JobHandler {
	return &JobHandler{
		jobService:  jobService,
		teamService: teamService,
		aiService:   aiService,
	}
}

// ListJobs returns the visible jobs filtered by status and search,
// sorted by start date
func (h *JobHandler) ListJobs(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	sort := aggregate.JobSort(c.DefaultQuery("sort", string(aggregate.SortNewest)))
	if sort != aggregate.SortNewest && sort != aggregate.SortOldest {
		apierrors.BadRequest(c, "sort must be date-newest or date-oldest")
		return
	}
	status := c.DefaultQuery("status", aggregate.StatusAll)
	if status != aggregate.StatusAll && !models.JobStatus(status).Valid() {
		apierrors.BadRequest(c, services.ErrInvalidJobStatus.Error())
		return
	}

	jobs := h.jobService.List(user, services.ListJobsInput{
		Status: status,
		Search: c.Query("search"),
		Sort:   sort,
	})
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"count": len(jobs),
	})
}

// GetJob returns a job already loaded by RequireJobAccess
func (h *JobHandler) GetJob(c *gin.Context) {
	job, ok := middleware.GetJob(c)
	if !ok {
		apierrors.InternalError(c, "Job not found in context")
		return
	}
	c.JSON(http.StatusOK, job)
}

// CreateJob creates a new job
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type CreateJobRequest struct {
		ClientName  string         `json:"clientName" binding:"required"`
		ClientPhone string         `json:"clientPhone"`
		ClientEmail string         `json:"clientEmail"`
		Address     string         `json:"address" binding:"required"`
		Type        models.JobType `json:"type"`
		Value       float64        `json:"value"`
		Description string         `json:"description"`
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.Create(user, services.CreateJobInput{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Address:     req.Address,
		Type:        req.Type,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// UpdateJob applies a partial update. Only fields present in the body change.
func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type UpdateJobRequest struct {
		ClientName         *string           `json:"clientName"`
		ClientPhone        *string           `json:"clientPhone"`
		ClientEmail        *string           `json:"clientEmail"`
		Address            *string           `json:"address"`
		Type               *models.JobType   `json:"type"`
		Status             *models.JobStatus `json:"status"`
		CurrentStage       *models.JobStage  `json:"currentStage"`
		Value              *float64          `json:"value"`
		StartDate          *string           `json:"startDate"`
		FinishDate         *string           `json:"finishDate"`
		Description        *string           `json:"description"`
		NextAction         *string           `json:"nextAction"`
		AssignedTeam       *[]string         `json:"assignedTeam"`
		ProjectManager     *string           `json:"projectManager"`
		Builder            *string           `json:"builder"`
		Electrician        *string           `json:"electrician"`
		Plumber            *string           `json:"plumber"`
		Architect          *string           `json:"architect"`
		BuildingControlRef *string           `json:"buildingControlRef"`
		AgreedExtras       *string           `json:"agreedExtras"`
		GalleryImages      *[]string         `json:"galleryImages"`
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	job, err := h.jobService.Update(user, c.Param("id"), services.JobPatch(req))
	if err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJob removes a job. Admin only.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(user, c.Param("id")); err != nil {
		respondJobError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Job deleted successfully",
	})
}

// SelectJob marks the job as the current selection
func (h *JobHandler) SelectJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.jobService.Select(user, c.Param("id")); err != nil {
		respondJobError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSelectedJob returns the selected job, or 404 when none is selected
func (h *JobHandler) GetSelectedJob(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	job, found := h.jobService.Selected(user)
	if !found {
		apierrors.NotFound(c, "No job selected")
		return
	}
	c.JSON(http.StatusOK, job)
}

// SearchMessages returns the job chat, filtered by the q parameter
func (h *JobHandler) SearchMessages(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	messages, err := h.jobService.SearchMessages(user, c.Param("id"), c.Query("q"))
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *JobHandler) SendMessage(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type SendMessageRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.jobService.SendMessage(user, c.Param("id"), req.Text)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// UploadPhoto accepts a multipart "file" and posts it to the job chat
func (h *JobHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "file is required")
		return
	}
	if fh.Size > constants.MaxUploadBytes {
		apierrors.TooLarge(c, "")
		return
	}

	msg, err := h.jobService.UploadPhoto(user, c.Param("id"), fh.Filename)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// SearchNotes returns the site diary, filtered by the q parameter
func (h *JobHandler) SearchNotes(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	notes, err := h.jobService.SearchDiary(user, c.Param("id"), c.Query("q"))
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *JobHandler) AddNote(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	type AddNoteRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.jobService.AddNote(user, c.Param("id"), req.Content)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// AddDocument attaches a plan or calculation. Accepts either a multipart
// "file" with a "field" form value, or JSON {"field", "name"}.
func (h *JobHandler) AddDocument(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	field, name, ok := documentInput(c, c.PostForm("field"))
	if !ok {
		return
	}

	job, err := h.jobService.AddDocument(user, c.Param("id"), models.DocumentField(field), name)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) RemoveDocument(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid document index")
		return
	}

	job, err := h.jobService.RemoveDocument(user, c.Param("id"), models.DocumentField(c.Param("field")), index)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// SetForm stores a compliance form file against the :field in the path
func (h *JobHandler) SetForm(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}

	_, name, ok := documentInput(c, c.Param("field"))
	if !ok {
		return
	}

	job, err := h.jobService.SetForm(user, c.Param("id"), models.FormField(c.Param("field")), name)
	if err != nil {
		respondJobError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// SummarizeChat asks the assistant for a status summary of the job chat
func (h *JobHandler) SummarizeChat(c *gin.Context) {
	job, ok := middleware.GetJob(c)
	if !ok {
		apierrors.InternalError(c, "Job not found in context")
		return
	}
	summary := h.aiService.SummarizeJobChat(c.Request.Context(), job, h.teamService.List())
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// DraftClientUpdate asks the assistant for an SMS draft to the client
func (h *JobHandler) DraftClientUpdate(c *gin.Context) {
	job, ok := middleware.GetJob(c)
	if !ok {
		apierrors.InternalError(c, "Job not found in context")
		return
	}
	draft := h.aiService.DraftClientUpdate(c.Request.Context(), job)
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// documentInput reads a file name from a multipart upload or a JSON body.
// fallbackField is used when the JSON body carries no field.
func documentInput(c *gin.Context, fallbackField string) (string, string, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			apierrors.BadRequest(c, "file is required")
			return "", "", false
		}
		if fh.Size > constants.MaxUploadBytes {
			apierrors.TooLarge(c, "")
			return "", "", false
		}
		return fallbackField, fh.Filename, true
	}

	type DocumentRequest struct {
		Field string `json:"field"`
		Name  string `json:"name" binding:"required"`
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return "", "", false
	}
	if req.Field == "" {
		req.Field = fallbackField
	}
	return req.Field, req.Name, true
}

func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrJobNotFound):
		apierrors.NotFound(c, "Job not found")
	case errors.Is(err, services.ErrDocumentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case services.IsValidationError(err):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
