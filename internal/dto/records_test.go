package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmhi/site-portal/internal/models"
)

func TestJobRecord_RoundTripKeepsTimestamps(t *testing.T) {
	loc := time.FixedZone("BST", 60*60)
	sent := time.Date(2023, time.October, 15, 10, 4, 5, 123000000, loc)
	noted := time.Date(2023, time.October, 16, 18, 0, 0, 0, time.UTC)

	job := models.Job{
		ID:           "j1",
		ClientName:   "Mr. & Mrs. Thompson",
		Address:      "14 Oak Avenue, Solihull",
		Type:         models.JobTypeGarageConversion,
		Status:       models.JobStatusInProgress,
		Value:        12500,
		AssignedTeam: []string{"u2", "u3"},
		Messages: []models.Message{
			{ID: "m1", SenderID: "u1", Text: "Skip placement?", Timestamp: sent, Type: models.MessageTypeText},
		},
		SiteNotes: []models.Note{
			{ID: "n1", UserID: "u2", Content: "First fix done", Timestamp: noted},
		},
	}

	raw, err := json.Marshal(ToJobRecords([]models.Job{job}))
	require.NoError(t, err)

	var records []JobRecord
	require.NoError(t, json.Unmarshal(raw, &records))

	jobs, err := FromJobRecords(records)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	got := jobs[0]
	require.Len(t, got.Messages, 1)
	require.Len(t, got.SiteNotes, 1)
	assert.True(t, got.Messages[0].Timestamp.Equal(sent))
	assert.True(t, got.SiteNotes[0].Timestamp.Equal(noted))
	assert.Equal(t, job.AssignedTeam, got.AssignedTeam)
	assert.Equal(t, job.Value, got.Value)
	assert.Empty(t, got.ArchitectPlans)
	assert.NotNil(t, got.GalleryImages)
}

func TestJobRecord_AcceptsBrowserTimestamps(t *testing.T) {
	r := JobRecord{
		ID:       "j1",
		Messages: []MessageRecord{{ID: "m1", Timestamp: "2023-10-15T10:00:00.000Z", Type: models.MessageTypeText}},
	}

	job, err := FromJobRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 10, job.Messages[0].Timestamp.Hour())
}

func TestJobRecord_InvalidTimestamp(t *testing.T) {
	r := JobRecord{
		ID:        "j1",
		SiteNotes: []NoteRecord{{ID: "n1", Timestamp: "yesterday"}},
	}

	_, err := FromJobRecord(r)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
	assert.Contains(t, err.Error(), "note n1")
}

func TestTaskRecord_RoundTrip(t *testing.T) {
	created := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:         "t1",
		Title:      "Order Skips",
		AssignedTo: "u1",
		AssignedBy: "u2",
		ProjectID:  "j1",
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityHigh,
		DueDate:    "2024-03-03",
		CreatedAt:  created,
		ActivityLog: []models.TaskActivity{
			{ID: "a1", UserID: "u2", Type: models.ActivityCreation, Details: "Task created", Timestamp: created},
		},
		Attachments: []models.TaskAttachment{
			{ID: "f1", Name: "plan.pdf", Type: models.AttachmentDocument, UploadedBy: "u2", UploadedAt: created.Add(time.Minute)},
		},
	}

	got, err := FromTaskRecord(ToTaskRecord(task))
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.ActivityLog[0].Timestamp.Equal(created))
	assert.True(t, got.Attachments[0].UploadedAt.Equal(created.Add(time.Minute)))
	assert.Equal(t, task.DueDate, got.DueDate)
	assert.Equal(t, task.ProjectID, got.ProjectID)
}

func TestTaskRecord_InvalidCreatedAt(t *testing.T) {
	_, err := FromTaskRecords([]TaskRecord{{ID: "t1", CreatedAt: ""}})
	require.ErrorIs(t, err, ErrInvalidTimestamp)
}
