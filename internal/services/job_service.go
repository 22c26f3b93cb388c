package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/wmhi/site-portal/internal/aggregate"
	"github.com/wmhi/site-portal/internal/models"
)

// JobService handles job business logic. Every read and write is scoped by
// the visibility rule: a job outside the viewer's reach reports ErrJobNotFound.
type JobService struct {
	ws *Workspace
}

func NewJobService(ws *Workspace) *JobService {
	return &JobService{ws: ws}
}

// ListJobsInput represents the job board filters
type ListJobsInput struct {
	Status string
	Search string
	Sort   aggregate.JobSort
}

// CreateJobInput represents input for creating a job
type CreateJobInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string
	Address     string
	Type        models.JobType
	Value       float64
	Description string
}

// JobPatch holds field-level job edits. Nil fields are left unchanged.
type JobPatch struct {
	ClientName         *string
	ClientPhone        *string
	ClientEmail        *string
	Address            *string
	Type               *models.JobType
	Status             *models.JobStatus
	CurrentStage       *models.JobStage
	Value              *float64
	StartDate          *string
	FinishDate         *string
	Description        *string
	NextAction         *string
	AssignedTeam       *[]string
	ProjectManager     *string
	Builder            *string
	Electrician        *string
	Plumber            *string
	Architect          *string
	BuildingControlRef *string
	AgreedExtras       *string
	GalleryImages      *[]string
}

func (s *JobService) List(viewer models.User, input ListJobsInput) []models.Job {
	return aggregate.FilterJobs(aggregate.VisibleJobs(s.ws.Jobs(), viewer), input.Status, input.Search, input.Sort)
}

func (s *JobService) Get(viewer models.User, jobID string) (*models.Job, error) {
	job, ok := s.ws.FindJob(jobID)
	if !ok || !aggregate.CanView(job, viewer) {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

// Create adds a new job at the front of the list. A non-admin creator joins
// the team so the job stays visible to them.
func (s *JobService) Create(actor models.User, input CreateJobInput) (*models.Job, error) {
	clientName := strings.TrimSpace(input.ClientName)
	if clientName == "" {
		return nil, ErrClientNameRequired
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	jobType := input.Type
	if jobType == "" {
		jobType = models.JobTypeRenovation
	}
	if !jobType.Valid() {
		return nil, ErrInvalidJobType
	}
	if input.Value < 0 {
		return nil, ErrInvalidValue
	}

	team := []string{}
	if !actor.IsAdmin() {
		team = append(team, actor.ID)
	}

	job := models.Job{
		ID:                     uuid.NewString(),
		ClientName:             clientName,
		ClientPhone:            strings.TrimSpace(input.ClientPhone),
		ClientEmail:            strings.TrimSpace(input.ClientEmail),
		Address:                address,
		Type:                   jobType,
		Status:                 models.JobStatusNewJob,
		CurrentStage:           models.JobStageStartDateAgreed,
		Value:                  input.Value,
		Description:            input.Description,
		NextAction:             "Initial Setup",
		AssignedTeam:           team,
		Messages:               []models.Message{},
		SiteNotes:              []models.Note{},
		ArchitectPlans:         []string{},
		StructuralCalculations: []string{},
		GalleryImages:          []string{},
	}

	err := s.ws.UpdateJobs(func(jobs []models.Job) ([]models.Job, error) {
		return append([]models.Job{job}, jobs...), nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Update applies a field-level patch. Status and stage accept any valid value.
func (s *JobService) Update(actor models.User, jobID string, patch JobPatch) (*models.Job, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	return s.mutate(actor, jobID, func(job *models.Job) error {
		setString(&job.ClientName, patch.ClientName)
		setString(&job.ClientPhone, patch.ClientPhone)
		setString(&job.ClientEmail, patch.ClientEmail)
		setString(&job.Address, patch.Address)
		setString(&job.StartDate, patch.StartDate)
		setString(&job.FinishDate, patch.FinishDate)
		setString(&job.Description, patch.Description)
		setString(&job.NextAction, patch.NextAction)
		setString(&job.ProjectManager, patch.ProjectManager)
		setString(&job.Builder, patch.Builder)
		setString(&job.Electrician, patch.Electrician)
		setString(&job.Plumber, patch.Plumber)
		setString(&job.Architect, patch.Architect)
		setString(&job.BuildingControlRef, patch.BuildingControlRef)
		setString(&job.AgreedExtras, patch.AgreedExtras)
		if patch.Type != nil {
			job.Type = *patch.Type
		}
		if patch.Status != nil {
			if !job.Status.CanTransitionTo(*patch.Status) {
				return ErrInvalidJobStatus
			}
			job.Status = *patch.Status
		}
		if patch.CurrentStage != nil {
			job.CurrentStage = *patch.CurrentStage
		}
		if patch.Value != nil {
			job.Value = *patch.Value
		}
		if patch.AssignedTeam != nil {
			job.AssignedTeam = dedupe(*patch.AssignedTeam)
		}
		if patch.GalleryImages != nil {
			job.GalleryImages = slices.Clone(*patch.GalleryImages)
		}
		return nil
	})
}

func validatePatch(p JobPatch) error {
	if p.ClientName != nil {
		*p.ClientName = strings.TrimSpace(*p.ClientName)
		if *p.ClientName == "" {
			return ErrClientNameRequired
		}
	}
	if p.Address != nil {
		*p.Address = strings.TrimSpace(*p.Address)
		if *p.Address == "" {
			return ErrAddressRequired
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidJobType
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidJobStatus
	}
	if p.CurrentStage != nil && *p.CurrentStage != "" && !p.CurrentStage.Valid() {
		return ErrInvalidJobStage
	}
	if p.Value != nil && *p.Value < 0 {
		return ErrInvalidValue
	}
	for _, d := range []*string{p.StartDate, p.FinishDate} {
		if d != nil && *d != "" && !models.ValidDate(*d) {
			return ErrInvalidDate
		}
	}
	return nil
}

// Delete removes a job. Admin only; clears the selection if it pointed here.
func (s *JobService) Delete(actor models.User, jobID string) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return s.ws.UpdateJobs(func(jobs []models.Job) ([]models.Job, error) {
		_, i, ok := models.FindJob(jobs, jobID)
		if !ok {
			return nil, ErrJobNotFound
		}
		return slices.Delete(jobs, i, i+1), nil
	})
}

// SendMessage appends a chat message from actor.
func (s *JobService) SendMessage(actor models.User, jobID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	msg := models.Message{
		ID:        uuid.NewString(),
		SenderID:  actor.ID,
		Text:      text,
		Timestamp: s.ws.Now(),
		Type:      models.MessageTypeText,
	}
	if _, err := s.mutate(actor, jobID, func(job *models.Job) error {
		job.Messages = append(job.Messages, msg)
		return nil
	}); err != nil {
		return nil, err
	}
	return &msg, nil
}

// UploadPhoto records a photo upload as a chat message.
func (s *JobService) UploadPhoto(actor models.User, jobID, fileName string) (*models.Message, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrFileNameRequired
	}
	return s.SendMessage(actor, jobID, fmt.Sprintf("Uploaded photo: %s", fileName))
}

// AddNote prepends a site diary entry.
func (s *JobService) AddNote(actor models.User, jobID, content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyNote
	}
	note := models.Note{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Content:   content,
		Timestamp: s.ws.Now(),
	}
	if _, err := s.mutate(actor, jobID, func(job *models.Job) error {
		job.SiteNotes = append([]models.Note{note}, job.SiteNotes...)
		return nil
	}); err != nil {
		return nil, err
	}
	return &note, nil
}

// AddDocument appends a file name to the plans or calculations list.
func (s *JobService) AddDocument(actor models.User, jobID string, field models.DocumentField, name string) (*models.Job, error) {
	if !field.Valid() {
		return nil, ErrInvalidDocumentField
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrFileNameRequired
	}
	return s.mutate(actor, jobID, func(job *models.Job) error {
		job.SetDocuments(field, append(slices.Clone(job.Documents(field)), name))
		return nil
	})
}

// RemoveDocument deletes the document at index from a document list.
func (s *JobService) RemoveDocument(actor models.User, jobID string, field models.DocumentField, index int) (*models.Job, error) {
	if !field.Valid() {
		return nil, ErrInvalidDocumentField
	}
	return s.mutate(actor, jobID, func(job *models.Job) error {
		docs := job.Documents(field)
		if index < 0 || index >= len(docs) {
			return ErrDocumentNotFound
		}
		job.SetDocuments(field, slices.Delete(slices.Clone(docs), index, index+1))
		return nil
	})
}

// SetForm stores the file name for a single-file compliance form.
func (s *JobService) SetForm(actor models.User, jobID string, field models.FormField, name string) (*models.Job, error) {
	if !field.Valid() {
		return nil, ErrInvalidFormField
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrFileNameRequired
	}
	return s.mutate(actor, jobID, func(job *models.Job) error {
		job.SetForm(field, name)
		return nil
	})
}

func (s *JobService) SearchDiary(viewer models.User, jobID, query string) ([]models.Note, error) {
	job, err := s.Get(viewer, jobID)
	if err != nil {
		return nil, err
	}
	return aggregate.SearchDiary(job.SiteNotes, s.ws.Users(), query), nil
}

func (s *JobService) SearchMessages(viewer models.User, jobID, query string) ([]models.Message, error) {
	job, err := s.Get(viewer, jobID)
	if err != nil {
		return nil, err
	}
	return aggregate.SearchMessages(job.Messages, s.ws.Users(), query), nil
}

// Feed returns the cross-job chat feed, newest first.
func (s *JobService) Feed(viewer models.User) []aggregate.FeedItem {
	return aggregate.ChatFeed(s.ws.Jobs(), viewer)
}

func (s *JobService) Dashboard(viewer models.User) aggregate.Dashboard {
	return aggregate.DashboardStats(s.ws.Jobs(), viewer, s.ws.Now())
}

// CompletedReport defaults to the current month when from or to is empty.
func (s *JobService) CompletedReport(viewer models.User, from, to string) (aggregate.Report, error) {
	monthStart, monthEnd := aggregate.MonthRange(s.ws.Now())
	if from == "" {
		from = monthStart
	}
	if to == "" {
		to = monthEnd
	}
	if !models.ValidDate(from) || !models.ValidDate(to) {
		return aggregate.Report{}, ErrInvalidDate
	}
	if from > to {
		return aggregate.Report{}, ErrInvalidDateRange
	}
	return aggregate.CompletedReport(s.ws.Jobs(), viewer, from, to), nil
}

// RecentNotes returns the newest n diary notes of a job.
func (s *JobService) RecentNotes(viewer models.User, jobID string, n int) ([]models.Note, error) {
	job, err := s.Get(viewer, jobID)
	if err != nil {
		return nil, err
	}
	return aggregate.RecentNotes(job.SiteNotes, n), nil
}

// Select marks a job as the current selection.
func (s *JobService) Select(viewer models.User, jobID string) error {
	if _, err := s.Get(viewer, jobID); err != nil {
		return err
	}
	s.ws.SelectJob(jobID)
	return nil
}

// Selected returns the selected job, if it still exists and is visible.
func (s *JobService) Selected(viewer models.User) (*models.Job, bool) {
	id := s.ws.SelectedJob()
	if id == "" {
		return nil, false
	}
	job, err := s.Get(viewer, id)
	if err != nil {
		return nil, false
	}
	return job, true
}

func (s *JobService) mutate(actor models.User, jobID string, fn func(job *models.Job) error) (*models.Job, error) {
	var updated models.Job
	err := s.ws.UpdateJobs(func(jobs []models.Job) ([]models.Job, error) {
		job, i, ok := models.FindJob(jobs, jobID)
		if !ok || !aggregate.CanView(job, actor) {
			return nil, ErrJobNotFound
		}
		if err := fn(&job); err != nil {
			return nil, err
		}
		jobs[i] = job
		updated = job.Clone()
		return jobs, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
