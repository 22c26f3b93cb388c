// Package taskview derives the task board views: a viewer's own tasks grouped
// into date buckets, and the tasks they delegated to others. Nothing here
// mutates its input or stores a bucket on a task.
package taskview

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/wmhi/site-portal/internal/models"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// PriorityAll disables the priority filter.
const PriorityAll = "all"

var (
	ErrInvalidStatusFilter   = errors.New("status filter must be all, pending or completed")
	ErrInvalidPriorityFilter = errors.New("priority filter must be all or a task priority")
)

// Filter holds the three independent board filters. Zero values match everything.
type Filter struct {
	Search   string
	Priority string
	Status   StatusFilter
}

func (f Filter) Validate() error {
	switch f.Status {
	case "", StatusAll, StatusPending, StatusCompleted:
	default:
		return ErrInvalidStatusFilter
	}
	if f.Priority != "" && f.Priority != PriorityAll && !models.TaskPriority(f.Priority).Valid() {
		return ErrInvalidPriorityFilter
	}
	return nil
}

// Matches applies search, priority and status filters to one task.
func (f Filter) Matches(t models.Task) bool {
	q := strings.ToLower(f.Search)
	if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
		return false
	}
	if f.Priority != "" && f.Priority != PriorityAll && string(t.Priority) != f.Priority {
		return false
	}
	switch f.Status {
	case StatusPending:
		return t.Status != models.TaskStatusCompleted
	case StatusCompleted:
		return t.Status == models.TaskStatusCompleted
	}
	return true
}

type Bucket string

const (
	BucketCompleted Bucket = "completed"
	BucketOverdue   Bucket = "overdue"
	BucketToday     Bucket = "today"
	BucketTomorrow  Bucket = "tomorrow"
	BucketUpcoming  Bucket = "upcoming"
)

// Classify places a task in exactly one bucket. Completion wins over any date.
// Dates are YYYY-MM-DD so string comparison is calendar order.
func Classify(t models.Task, today, tomorrow string) Bucket {
	switch {
	case t.Status == models.TaskStatusCompleted:
		return BucketCompleted
	case t.DueDate < today:
		return BucketOverdue
	case t.DueDate == today:
		return BucketToday
	case t.DueDate == tomorrow:
		return BucketTomorrow
	default:
		return BucketUpcoming
	}
}

type Groups struct {
	Overdue   []models.Task `json:"overdue"`
	Today     []models.Task `json:"today"`
	Tomorrow  []models.Task `json:"tomorrow"`
	Upcoming  []models.Task `json:"upcoming"`
	Completed []models.Task `json:"completed"`
}

func (g Groups) Count() int {
	return len(g.Overdue) + len(g.Today) + len(g.Tomorrow) + len(g.Upcoming) + len(g.Completed)
}

// All returns every grouped task in display order.
func (g Groups) All() []models.Task {
	all := make([]models.Task, 0, g.Count())
	all = append(all, g.Overdue...)
	all = append(all, g.Today...)
	all = append(all, g.Tomorrow...)
	all = append(all, g.Upcoming...)
	all = append(all, g.Completed...)
	return all
}

// MyTasks groups the tasks assigned to viewingUserID that pass the filter.
// today is interpreted as a calendar date in its own location.
func MyTasks(tasks []models.Task, viewingUserID string, filter Filter, today time.Time) Groups {
	todayStr := models.FormatDate(today)
	tomorrowStr := models.FormatDate(today.AddDate(0, 0, 1))

	g := Groups{
		Overdue:   []models.Task{},
		Today:     []models.Task{},
		Tomorrow:  []models.Task{},
		Upcoming:  []models.Task{},
		Completed: []models.Task{},
	}
	for _, t := range tasks {
		if t.AssignedTo != viewingUserID || !filter.Matches(t) {
			continue
		}
		switch Classify(t, todayStr, tomorrowStr) {
		case BucketCompleted:
			g.Completed = append(g.Completed, t)
		case BucketOverdue:
			g.Overdue = append(g.Overdue, t)
		case BucketToday:
			g.Today = append(g.Today, t)
		case BucketTomorrow:
			g.Tomorrow = append(g.Tomorrow, t)
		default:
			g.Upcoming = append(g.Upcoming, t)
		}
	}

	slices.SortStableFunc(g.Overdue, byPriorityDesc)
	slices.SortStableFunc(g.Today, byPriorityDesc)
	slices.SortStableFunc(g.Tomorrow, byPriorityDesc)
	slices.SortStableFunc(g.Upcoming, byDueDateAsc)
	return g
}

// DelegatedTasks lists tasks viewingUserID assigned to someone else, in input order.
func DelegatedTasks(tasks []models.Task, viewingUserID string, filter Filter) []models.Task {
	out := []models.Task{}
	for _, t := range tasks {
		if t.AssignedBy == viewingUserID && t.AssignedTo != viewingUserID && filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

type Board struct {
	ViewingUser models.User   `json:"viewingUser"`
	MyTasks     Groups        `json:"myTasks"`
	Delegated   []models.Task `json:"delegated"`
}

// BuildBoard computes both views for one viewing user.
func BuildBoard(tasks []models.Task, viewingUser models.User, filter Filter, today time.Time) Board {
	return Board{
		ViewingUser: viewingUser,
		MyTasks:     MyTasks(tasks, viewingUser.ID, filter, today),
		Delegated:   DelegatedTasks(tasks, viewingUser.ID, filter),
	}
}

func byPriorityDesc(a, b models.Task) int {
	return b.Priority.Weight() - a.Priority.Weight()
}

func byDueDateAsc(a, b models.Task) int {
	return strings.Compare(a.DueDate, b.DueDate)
}
