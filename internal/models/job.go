package models

import (
	"slices"
	"time"
)

type JobStatus string

const (
	JobStatusNewJob       JobStatus = "New Job"
	JobStatusSurveyBooked JobStatus = "Survey Booked"
	JobStatusQuoted       JobStatus = "Quoted"
	JobStatusScheduled    JobStatus = "Scheduled"
	JobStatusInProgress   JobStatus = "In Progress"
	JobStatusSnagging     JobStatus = "Snagging"
	JobStatusCompleted    JobStatus = "Completed"
	JobStatusInvoiced     JobStatus = "Invoiced"
	JobStatusCancelled    JobStatus = "Cancelled"
)

var JobStatuses = []JobStatus{
	JobStatusNewJob, JobStatusSurveyBooked, JobStatusQuoted, JobStatusScheduled,
	JobStatusInProgress, JobStatusSnagging, JobStatusCompleted, JobStatusInvoiced,
	JobStatusCancelled,
}

func (s JobStatus) Valid() bool {
	return slices.Contains(JobStatuses, s)
}

// CanTransitionTo accepts any valid target from any status. Job statuses are
// informational labels without a transition graph.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	return next.Valid()
}

type JobType string

const (
	JobTypeGarageConversion JobType = "Garage Conversion"
	JobTypeExtension        JobType = "Extension"
	JobTypeRenovation       JobType = "Renovation"
	JobTypeRoofing          JobType = "Roofing"
	JobTypeGardenRoom       JobType = "Garden Room"
)

var JobTypes = []JobType{
	JobTypeGarageConversion, JobTypeExtension, JobTypeRenovation, JobTypeRoofing, JobTypeGardenRoom,
}

func (t JobType) Valid() bool {
	return slices.Contains(JobTypes, t)
}

type JobStage string

const (
	JobStageStartDateAgreed JobStage = "Start Date Agreed"
	JobStageComplete        JobStage = "Complete"
)

// JobStages is the fixed, purely informational stage list.
var JobStages = []JobStage{
	JobStageStartDateAgreed, "Foundations", "DPC", "Brickwork",
	"Roof", "Steels", "Glazing", "First Fix", "Plaster",
	"Second Fix", "Kitchen Installation", "Bathroom Installation",
	"Flooring Installation", "Snags", JobStageComplete, "Inspection",
	"Ground floor", "Plumbing", "Painting",
}

func (s JobStage) Valid() bool {
	return slices.Contains(JobStages, s)
}

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeSystem MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeSystem:
		return true
	}
	return false
}

type Message struct {
	ID        string      `json:"id"`
	SenderID  string      `json:"senderId"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	ImageURL  string      `json:"imageUrl,omitempty"`
}

// Note is a site diary entry.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DocumentField names a job's multi-file document list.
type DocumentField string

const (
	DocumentArchitectPlans         DocumentField = "architectPlans"
	DocumentStructuralCalculations DocumentField = "structuralCalculations"
)

func (f DocumentField) Valid() bool {
	return f == DocumentArchitectPlans || f == DocumentStructuralCalculations
}

// FormField names a job's single-file compliance form.
type FormField string

const (
	FormPhotographyWaiver FormField = "photographyWaiver"
	FormLiability         FormField = "liabilityForm"
	FormPointCount        FormField = "pointCountForm"
	FormGlazing           FormField = "glazingForm"
)

func (f FormField) Valid() bool {
	switch f {
	case FormPhotographyWaiver, FormLiability, FormPointCount, FormGlazing:
		return true
	}
	return false
}

type Job struct {
	ID          string    `json:"id"`
	ClientName  string    `json:"clientName"`
	ClientPhone string    `json:"clientPhone,omitempty"`
	ClientEmail string    `json:"clientEmail,omitempty"`
	Address     string    `json:"address"`
	Type        JobType   `json:"type"`
	Status      JobStatus `json:"status"`
	StartDate   string    `json:"startDate,omitempty"`
	FinishDate  string    `json:"finishDate,omitempty"`
	Value       float64   `json:"value"`
	Description string    `json:"description"`
	NextAction  string    `json:"nextAction,omitempty"`

	AssignedTeam []string  `json:"assignedTeam"`
	Messages     []Message `json:"messages"`
	SiteNotes    []Note    `json:"siteNotes"`

	ProjectManager string `json:"projectManager,omitempty"`
	Builder        string `json:"builder,omitempty"`
	Electrician    string `json:"electrician,omitempty"`
	Plumber        string `json:"plumber,omitempty"`
	Architect      string `json:"architect,omitempty"`

	ArchitectPlans         []string `json:"architectPlans"`
	StructuralCalculations []string `json:"structuralCalculations"`

	CurrentStage       JobStage `json:"currentStage,omitempty"`
	BuildingControlRef string   `json:"buildingControlRef,omitempty"`
	AgreedExtras       string   `json:"agreedExtras,omitempty"`

	PhotographyWaiver string `json:"photographyWaiver,omitempty"`
	LiabilityForm     string `json:"liabilityForm,omitempty"`
	PointCountForm    string `json:"pointCountForm,omitempty"`
	GlazingForm       string `json:"glazingForm,omitempty"`

	GalleryImages []string `json:"galleryImages"`
}

// HasMember reports whether userID is on the job's assigned team.
func (j Job) HasMember(userID string) bool {
	return slices.Contains(j.AssignedTeam, userID)
}

// Documents returns the list behind a document field.
func (j Job) Documents(field DocumentField) []string {
	if field == DocumentStructuralCalculations {
		return j.StructuralCalculations
	}
	return j.ArchitectPlans
}

// SetDocuments replaces the list behind a document field.
func (j *Job) SetDocuments(field DocumentField, docs []string) {
	if field == DocumentStructuralCalculations {
		j.StructuralCalculations = docs
		return
	}
	j.ArchitectPlans = docs
}

// SetForm stores a file name in a single-file form field.
func (j *Job) SetForm(field FormField, name string) {
	switch field {
	case FormPhotographyWaiver:
		j.PhotographyWaiver = name
	case FormLiability:
		j.LiabilityForm = name
	case FormPointCount:
		j.PointCountForm = name
	case FormGlazing:
		j.GlazingForm = name
	}
}

// Clone copies the job including its embedded collections.
func (j Job) Clone() Job {
	j.AssignedTeam = slices.Clone(j.AssignedTeam)
	j.Messages = slices.Clone(j.Messages)
	j.SiteNotes = slices.Clone(j.SiteNotes)
	j.ArchitectPlans = slices.Clone(j.ArchitectPlans)
	j.StructuralCalculations = slices.Clone(j.StructuralCalculations)
	j.GalleryImages = slices.Clone(j.GalleryImages)
	return j
}

// FindJob looks a job up by id.
func FindJob(jobs []Job, id string) (Job, int, bool) {
	for i, j := range jobs {
		if j.ID == id {
			return j, i, true
		}
	}
	return Job{}, -1, false
}
