// Package aggregate computes visibility-scoped views across jobs: the job
// board, the cross-job chat feed, diary and chat search, the dashboard and
// the completed-work report.
package aggregate

import (
	"slices"
	"strings"
	"time"

	"github.com/wmhi/site-portal/internal/models"
)

// Sender labels used when a message is shown outside its job.
const (
	OfficeLabel   = "WMHI Office"
	SiteTeamLabel = "Site Team"
)

// CanView is the single visibility rule: admins see every job, everyone else
// sees jobs whose team includes them.
func CanView(job models.Job, viewer models.User) bool {
	return viewer.IsAdmin() || job.HasMember(viewer.ID)
}

func VisibleJobs(jobs []models.Job, viewer models.User) []models.Job {
	out := []models.Job{}
	for _, j := range jobs {
		if CanView(j, viewer) {
			out = append(out, j)
		}
	}
	return out
}

// FeedItem is a message tagged with the job it came from.
type FeedItem struct {
	models.Message
	JobID      string `json:"jobId"`
	JobAddress string `json:"jobAddress"`
	ClientName string `json:"clientName"`
}

// ChatFeed flattens every visible job's messages, newest first. Equal
// timestamps keep job order and per-job insertion order.
func ChatFeed(jobs []models.Job, viewer models.User) []FeedItem {
	items := []FeedItem{}
	for _, j := range VisibleJobs(jobs, viewer) {
		for _, m := range j.Messages {
			items = append(items, FeedItem{
				Message:    m,
				JobID:      j.ID,
				JobAddress: j.Address,
				ClientName: j.ClientName,
			})
		}
	}
	slices.SortStableFunc(items, func(a, b FeedItem) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return items
}

// SearchDiary keeps notes whose content or author name contains query.
func SearchDiary(notes []models.Note, users []models.User, query string) []models.Note {
	q := strings.ToLower(query)
	out := []models.Note{}
	for _, n := range notes {
		author := models.ResolveUser(users, n.UserID).Name
		if strings.Contains(strings.ToLower(n.Content), q) || strings.Contains(strings.ToLower(author), q) {
			out = append(out, n)
		}
	}
	return out
}

// SenderLabel is how a message author appears outside the job.
func SenderLabel(users []models.User, senderID string) string {
	if u, ok := models.FindUser(users, senderID); ok && u.IsAdmin() {
		return OfficeLabel
	}
	return SiteTeamLabel
}

// SearchMessages keeps messages whose text, sender name or sender label contains query.
func SearchMessages(messages []models.Message, users []models.User, query string) []models.Message {
	q := strings.ToLower(query)
	out := []models.Message{}
	for _, m := range messages {
		sender := models.ResolveUser(users, m.SenderID).Name
		if strings.Contains(strings.ToLower(m.Text), q) ||
			strings.Contains(strings.ToLower(sender), q) ||
			strings.Contains(strings.ToLower(SenderLabel(users, m.SenderID)), q) {
			out = append(out, m)
		}
	}
	return out
}

type Report struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Jobs       []models.Job `json:"jobs"`
	Count      int          `json:"count"`
	TotalValue float64      `json:"totalValue"`
}

// CompletedReport sums visible completed jobs finishing within [from, to].
func CompletedReport(jobs []models.Job, viewer models.User, from, to string) Report {
	r := Report{From: from, To: to, Jobs: []models.Job{}}
	for _, j := range VisibleJobs(jobs, viewer) {
		if j.Status != models.JobStatusCompleted || j.FinishDate == "" {
			continue
		}
		if j.FinishDate < from || j.FinishDate > to {
			continue
		}
		r.Jobs = append(r.Jobs, j)
		r.Count++
		r.TotalValue += j.Value
	}
	return r
}

// MonthRange returns the first and last calendar dates of now's month.
func MonthRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return models.FormatDate(first), models.FormatDate(last)
}

type JobSort string

const (
	SortNewest JobSort = "date-newest"
	SortOldest JobSort = "date-oldest"
)

// StatusAll disables the job board status filter.
const StatusAll = "All"

// FilterJobs applies the job board filters. Jobs without a start date sort as oldest.
func FilterJobs(jobs []models.Job, status, search string, sort JobSort) []models.Job {
	q := strings.ToLower(search)
	out := []models.Job{}
	for _, j := range jobs {
		if status != "" && status != StatusAll && string(j.Status) != status {
			continue
		}
		if !strings.Contains(strings.ToLower(j.Address), q) && !strings.Contains(strings.ToLower(j.ClientName), q) {
			continue
		}
		out = append(out, j)
	}
	slices.SortStableFunc(out, func(a, b models.Job) int {
		if sort == SortOldest {
			return strings.Compare(a.StartDate, b.StartDate)
		}
		return strings.Compare(b.StartDate, a.StartDate)
	})
	return out
}

type Dashboard struct {
	Greeting           string       `json:"greeting"`
	ActiveJobs         int          `json:"activeJobs"`
	NewJobs            int          `json:"newJobs"`
	CompletedThisMonth int          `json:"completedThisMonth"`
	InProgress         []models.Job `json:"inProgress"`
}

// DashboardStats summarises the viewer's visible jobs as of now.
func DashboardStats(jobs []models.Job, viewer models.User, now time.Time) Dashboard {
	d := Dashboard{Greeting: Greeting(now), InProgress: []models.Job{}}
	month := now.Format("2006-01")
	for _, j := range VisibleJobs(jobs, viewer) {
		switch j.Status {
		case models.JobStatusInProgress:
			d.ActiveJobs++
			d.InProgress = append(d.InProgress, j)
		case models.JobStatusScheduled:
			d.ActiveJobs++
		case models.JobStatusNewJob:
			d.NewJobs++
		case models.JobStatusCompleted:
			if models.ValidDate(j.FinishDate) && strings.HasPrefix(j.FinishDate, month) {
				d.CompletedThisMonth++
			}
		}
	}
	return d
}

func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// RecentNotes returns at most n notes from the front of a newest-first diary.
func RecentNotes(notes []models.Note, n int) []models.Note {
	n = max(0, min(n, len(notes)))
	return slices.Clone(notes[:n])
}
