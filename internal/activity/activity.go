// Package activity builds task audit-trail entries. Logs are newest first and
// only ever grow at the front.
package activity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wmhi/site-portal/internal/models"
)

func newEntry(actorID string, typ models.ActivityType, details string, now time.Time) models.TaskActivity {
	return models.TaskActivity{
		ID:        uuid.NewString(),
		UserID:    actorID,
		Type:      typ,
		Details:   details,
		Timestamp: now,
	}
}

func Creation(actorID string, now time.Time) models.TaskActivity {
	return newEntry(actorID, models.ActivityCreation, "Task created", now)
}

func StatusChange(actorID string, status models.TaskStatus, now time.Time) models.TaskActivity {
	return newEntry(actorID, models.ActivityStatusChange, fmt.Sprintf("Marked as %s", status), now)
}

func Upload(actorID, fileName string, now time.Time) models.TaskActivity {
	return newEntry(actorID, models.ActivityUpload, fmt.Sprintf("Uploaded %s", fileName), now)
}

func Comment(actorID, text string, now time.Time) models.TaskActivity {
	return newEntry(actorID, models.ActivityComment, text, now)
}

// Diff returns one entry per changed logged field, ordered priority, assignee,
// due date. Title, description and project edits are not logged.
func Diff(before, after models.Task, actorID, assigneeName string, now time.Time) []models.TaskActivity {
	var entries []models.TaskActivity
	if before.Priority != after.Priority {
		entries = append(entries, newEntry(actorID, models.ActivityPriorityChange,
			fmt.Sprintf("Priority changed to %s", after.Priority), now))
	}
	if before.AssignedTo != after.AssignedTo {
		entries = append(entries, newEntry(actorID, models.ActivityUpdate,
			fmt.Sprintf("Reassigned to %s", assigneeName), now))
	}
	if before.DueDate != after.DueDate {
		entries = append(entries, newEntry(actorID, models.ActivityUpdate,
			fmt.Sprintf("Due date changed to %s", after.DueDate), now))
	}
	return entries
}

// Prepend returns a new log with entries in front of the existing one.
func Prepend(log []models.TaskActivity, entries ...models.TaskActivity) []models.TaskActivity {
	out := make([]models.TaskActivity, 0, len(entries)+len(log))
	out = append(out, entries...)
	return append(out, log...)
}
