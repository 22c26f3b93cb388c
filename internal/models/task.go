package models

import (
	"slices"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo accepts any valid target: task status is a free-form field.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	return next.Valid()
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

func (p TaskPriority) Valid() bool {
	return p.Weight() > 0
}

// Weight orders priorities Urgent > High > Medium > Low. Unknown values weigh 0.
func (p TaskPriority) Weight() int {
	switch p {
	case TaskPriorityUrgent:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	}
	return 0
}

type ActivityType string

const (
	ActivityCreation       ActivityType = "creation"
	ActivityStatusChange   ActivityType = "status_change"
	ActivityPriorityChange ActivityType = "priority_change"
	ActivityUpdate         ActivityType = "update"
	ActivityUpload         ActivityType = "upload"
	ActivityComment        ActivityType = "comment"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCreation, ActivityStatusChange, ActivityPriorityChange, ActivityUpdate, ActivityUpload, ActivityComment:
		return true
	}
	return false
}

type AttachmentType string

const (
	AttachmentImage    AttachmentType = "image"
	AttachmentVideo    AttachmentType = "video"
	AttachmentDocument AttachmentType = "document"
)

func (t AttachmentType) Valid() bool {
	switch t {
	case AttachmentImage, AttachmentVideo, AttachmentDocument:
		return true
	}
	return false
}

// AttachmentTypeFor derives the attachment tag from a declared media type.
func AttachmentTypeFor(mediaType string) AttachmentType {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return AttachmentImage
	case strings.HasPrefix(mediaType, "video/"):
		return AttachmentVideo
	default:
		return AttachmentDocument
	}
}

type TaskActivity struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	Type      ActivityType `json:"type"`
	Details   string       `json:"details"`
	Timestamp time.Time    `json:"timestamp"`
}

type TaskAttachment struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       AttachmentType `json:"type"`
	URL        string         `json:"url"`
	UploadedBy string         `json:"uploadedBy"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

type Task struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	AssignedTo  string           `json:"assignedTo"`
	AssignedBy  string           `json:"assignedBy"`
	ProjectID   string           `json:"projectId,omitempty"`
	Status      TaskStatus       `json:"status"`
	Priority    TaskPriority     `json:"priority"`
	DueDate     string           `json:"dueDate"`
	CreatedAt   time.Time        `json:"createdAt"`
	ActivityLog []TaskActivity   `json:"activityLog"`
	Attachments []TaskAttachment `json:"attachments"`
}

// IsPersonal reports whether the task is not tied to a job.
func (t Task) IsPersonal() bool {
	return t.ProjectID == ""
}

// IsParticipant reports whether userID assigned or works the task.
func (t Task) IsParticipant(userID string) bool {
	return t.AssignedTo == userID || t.AssignedBy == userID
}

// Clone copies the task including its log and attachments.
func (t Task) Clone() Task {
	t.ActivityLog = slices.Clone(t.ActivityLog)
	t.Attachments = slices.Clone(t.Attachments)
	return t
}

// FindTask looks a task up by id.
func FindTask(tasks []Task, id string) (Task, int, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return t, i, true
		}
	}
	return Task{}, -1, false
}
