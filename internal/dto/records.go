package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/wmhi/site-portal/internal/models"
)

// ErrInvalidTimestamp is returned when a persisted timestamp cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Records are the persisted shape: identical to the live models except that
// every timestamp is an RFC 3339 string.

type UserRecord struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Avatar string      `json:"avatar"`
}

type MessageRecord struct {
	ID        string             `json:"id"`
	SenderID  string             `json:"senderId"`
	Text      string             `json:"text"`
	Timestamp string             `json:"timestamp"`
	Type      models.MessageType `json:"type"`
	ImageURL  string             `json:"imageUrl,omitempty"`
}

type NoteRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type JobRecord struct {
	ID                     string           `json:"id"`
	ClientName             string           `json:"clientName"`
	ClientPhone            string           `json:"clientPhone,omitempty"`
	ClientEmail            string           `json:"clientEmail,omitempty"`
	Address                string           `json:"address"`
	Type                   models.JobType   `json:"type"`
	Status                 models.JobStatus `json:"status"`
	StartDate              string           `json:"startDate,omitempty"`
	FinishDate             string           `json:"finishDate,omitempty"`
	Value                  float64          `json:"value"`
	Description            string           `json:"description"`
	NextAction             string           `json:"nextAction,omitempty"`
	AssignedTeam           []string         `json:"assignedTeam"`
	Messages               []MessageRecord  `json:"messages"`
	SiteNotes              []NoteRecord     `json:"siteNotes"`
	ProjectManager         string           `json:"projectManager,omitempty"`
	Builder                string           `json:"builder,omitempty"`
	Electrician            string           `json:"electrician,omitempty"`
	Plumber                string           `json:"plumber,omitempty"`
	Architect              string           `json:"architect,omitempty"`
	ArchitectPlans         []string         `json:"architectPlans,omitempty"`
	StructuralCalculations []string         `json:"structuralCalculations,omitempty"`
	CurrentStage           models.JobStage  `json:"currentStage,omitempty"`
	BuildingControlRef     string           `json:"buildingControlRef,omitempty"`
	AgreedExtras           string           `json:"agreedExtras,omitempty"`
	PhotographyWaiver      string           `json:"photographyWaiver,omitempty"`
	LiabilityForm          string           `json:"liabilityForm,omitempty"`
	PointCountForm         string           `json:"pointCountForm,omitempty"`
	GlazingForm            string           `json:"glazingForm,omitempty"`
	GalleryImages          []string         `json:"galleryImages"`
}

type TaskActivityRecord struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Type      models.ActivityType `json:"type"`
	Details   string              `json:"details"`
	Timestamp string              `json:"timestamp"`
}

type TaskAttachmentRecord struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Type       models.AttachmentType `json:"type"`
	URL        string                `json:"url"`
	UploadedBy string                `json:"uploadedBy"`
	UploadedAt string                `json:"uploadedAt"`
}

type TaskRecord struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	AssignedTo  string                 `json:"assignedTo"`
	AssignedBy  string                 `json:"assignedBy"`
	ProjectID   string                 `json:"projectId,omitempty"`
	Status      models.TaskStatus      `json:"status"`
	Priority    models.TaskPriority    `json:"priority"`
	DueDate     string                 `json:"dueDate"`
	CreatedAt   string                 `json:"createdAt"`
	ActivityLog []TaskActivityRecord   `json:"activityLog"`
	Attachments []TaskAttachmentRecord `json:"attachments"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", ErrInvalidTimestamp, field, value)
	}
	return t, nil
}

// ToUserRecord converts a User to its persisted shape
func ToUserRecord(u models.User) UserRecord {
	return UserRecord(u)
}

// FromUserRecord converts a persisted user back to the live model
func FromUserRecord(r UserRecord) models.User {
	return models.User(r)
}

func ToUserRecords(users []models.User) []UserRecord {
	records := make([]UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, ToUserRecord(u))
	}
	return records
}

func FromUserRecords(records []UserRecord) []models.User {
	users := make([]models.User, 0, len(records))
	for _, r := range records {
		users = append(users, FromUserRecord(r))
	}
	return users
}

// ToJobRecord converts a Job, including its messages and notes, to its persisted shape
func ToJobRecord(j models.Job) JobRecord {
	messages := make([]MessageRecord, 0, len(j.Messages))
	for _, m := range j.Messages {
		messages = append(messages, MessageRecord{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			Timestamp: formatTimestamp(m.Timestamp),
			Type:      m.Type,
			ImageURL:  m.ImageURL,
		})
	}
	notes := make([]NoteRecord, 0, len(j.SiteNotes))
	for _, n := range j.SiteNotes {
		notes = append(notes, NoteRecord{
			ID:        n.ID,
			UserID:    n.UserID,
			Content:   n.Content,
			Timestamp: formatTimestamp(n.Timestamp),
		})
	}

	return JobRecord{
		ID:                     j.ID,
		ClientName:             j.ClientName,
		ClientPhone:            j.ClientPhone,
		ClientEmail:            j.ClientEmail,
		Address:                j.Address,
		Type:                   j.Type,
		Status:                 j.Status,
		StartDate:              j.StartDate,
		FinishDate:             j.FinishDate,
		Value:                  j.Value,
		Description:            j.Description,
		NextAction:             j.NextAction,
		AssignedTeam:           nonNil(j.AssignedTeam),
		Messages:               messages,
		SiteNotes:              notes,
		ProjectManager:         j.ProjectManager,
		Builder:                j.Builder,
		Electrician:            j.Electrician,
		Plumber:                j.Plumber,
		Architect:              j.Architect,
		ArchitectPlans:         j.ArchitectPlans,
		StructuralCalculations: j.StructuralCalculations,
		CurrentStage:           j.CurrentStage,
		BuildingControlRef:     j.BuildingControlRef,
		AgreedExtras:           j.AgreedExtras,
		PhotographyWaiver:      j.PhotographyWaiver,
		LiabilityForm:          j.LiabilityForm,
		PointCountForm:         j.PointCountForm,
		GlazingForm:            j.GlazingForm,
		GalleryImages:          nonNil(j.GalleryImages),
	}
}

// FromJobRecord rehydrates a persisted job. Missing collections become empty.
func FromJobRecord(r JobRecord) (models.Job, error) {
	messages := make([]models.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		ts, err := parseTimestamp("message "+m.ID+" timestamp", m.Timestamp)
		if err != nil {
			return models.Job{}, fmt.Errorf("job %s: %w", r.ID, err)
		}
		messages = append(messages, models.Message{
			ID:        m.ID,
			SenderID:  m.SenderID,
			Text:      m.Text,
			Timestamp: ts,
			Type:      m.Type,
			ImageURL:  m.ImageURL,
		})
	}
	notes := make([]models.Note, 0, len(r.SiteNotes))
	for _, n := range r.SiteNotes {
		ts, err := parseTimestamp("note "+n.ID+" timestamp", n.Timestamp)
		if err != nil {
			return models.Job{}, fmt.Errorf("job %s: %w", r.ID, err)
		}
		notes = append(notes, models.Note{
			ID:        n.ID,
			UserID:    n.UserID,
			Content:   n.Content,
			Timestamp: ts,
		})
	}

	return models.Job{
		ID:                     r.ID,
		ClientName:             r.ClientName,
		ClientPhone:            r.ClientPhone,
		ClientEmail:            r.ClientEmail,
		Address:                r.Address,
		Type:                   r.Type,
		Status:                 r.Status,
		StartDate:              r.StartDate,
		FinishDate:             r.FinishDate,
		Value:                  r.Value,
		Description:            r.Description,
		NextAction:             r.NextAction,
		AssignedTeam:           nonNil(r.AssignedTeam),
		Messages:               messages,
		SiteNotes:              notes,
		ProjectManager:         r.ProjectManager,
		Builder:                r.Builder,
		Electrician:            r.Electrician,
		Plumber:                r.Plumber,
		Architect:              r.Architect,
		ArchitectPlans:         nonNil(r.ArchitectPlans),
		StructuralCalculations: nonNil(r.StructuralCalculations),
		CurrentStage:           r.CurrentStage,
		BuildingControlRef:     r.BuildingControlRef,
		AgreedExtras:           r.AgreedExtras,
		PhotographyWaiver:      r.PhotographyWaiver,
		LiabilityForm:          r.LiabilityForm,
		PointCountForm:         r.PointCountForm,
		GlazingForm:            r.GlazingForm,
		GalleryImages:          nonNil(r.GalleryImages),
	}, nil
}

func ToJobRecords(jobs []models.Job) []JobRecord {
	records := make([]JobRecord, 0, len(jobs))
	for _, j := range jobs {
		records = append(records, ToJobRecord(j))
	}
	return records
}

func FromJobRecords(records []JobRecord) ([]models.Job, error) {
	jobs := make([]models.Job, 0, len(records))
	for _, r := range records {
		j, err := FromJobRecord(r)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// ToTaskRecord converts a Task, including its log and attachments, to its persisted shape
func ToTaskRecord(t models.Task) TaskRecord {
	log := make([]TaskActivityRecord, 0, len(t.ActivityLog))
	for _, a := range t.ActivityLog {
		log = append(log, TaskActivityRecord{
			ID:        a.ID,
			UserID:    a.UserID,
			Type:      a.Type,
			Details:   a.Details,
			Timestamp: formatTimestamp(a.Timestamp),
		})
	}
	attachments := make([]TaskAttachmentRecord, 0, len(t.Attachments))
	for _, a := range t.Attachments {
		attachments = append(attachments, TaskAttachmentRecord{
			ID:         a.ID,
			Name:       a.Name,
			Type:       a.Type,
			URL:        a.URL,
			UploadedBy: a.UploadedBy,
			UploadedAt: formatTimestamp(a.UploadedAt),
		})
	}

	return TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		ProjectID:   t.ProjectID,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		CreatedAt:   formatTimestamp(t.CreatedAt),
		ActivityLog: log,
		Attachments: attachments,
	}
}

// FromTaskRecord rehydrates a persisted task
func FromTaskRecord(r TaskRecord) (models.Task, error) {
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return models.Task{}, fmt.Errorf("task %s: %w", r.ID, err)
	}

	log := make([]models.TaskActivity, 0, len(r.ActivityLog))
	for _, a := range r.ActivityLog {
		ts, err := parseTimestamp("activity "+a.ID+" timestamp", a.Timestamp)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s: %w", r.ID, err)
		}
		log = append(log, models.TaskActivity{
			ID:        a.ID,
			UserID:    a.UserID,
			Type:      a.Type,
			Details:   a.Details,
			Timestamp: ts,
		})
	}
	attachments := make([]models.TaskAttachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		ts, err := parseTimestamp("attachment "+a.ID+" uploadedAt", a.UploadedAt)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s: %w", r.ID, err)
		}
		attachments = append(attachments, models.TaskAttachment{
			ID:         a.ID,
			Name:       a.Name,
			Type:       a.Type,
			URL:        a.URL,
			UploadedBy: a.UploadedBy,
			UploadedAt: ts,
		})
	}

	return models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		AssignedBy:  r.AssignedBy,
		ProjectID:   r.ProjectID,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		CreatedAt:   createdAt,
		ActivityLog: log,
		Attachments: attachments,
	}, nil
}

func ToTaskRecords(tasks []models.Task) []TaskRecord {
	records := make([]TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, ToTaskRecord(t))
	}
	return records
}

func FromTaskRecords(records []TaskRecord) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(records))
	for _, r := range records {
		t, err := FromTaskRecord(r)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
