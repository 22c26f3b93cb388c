// Package seed provides the built-in dataset written to an empty store.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/wmhi/site-portal/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var datasetYAML []byte

// Dataset is the resolved seed content.
type Dataset struct {
	Users []models.User
	Jobs  []models.Job
	Tasks []models.Task
}

type seedMessage struct {
	ID         string             `yaml:"id"`
	SenderID   string             `yaml:"senderId"`
	Text       string             `yaml:"text"`
	AgeSeconds int                `yaml:"ageSeconds"`
	Type       models.MessageType `yaml:"type"`
}

type seedNote struct {
	ID         string `yaml:"id"`
	UserID     string `yaml:"userId"`
	Content    string `yaml:"content"`
	AgeSeconds int    `yaml:"ageSeconds"`
}

type seedJob struct {
	ID                     string           `yaml:"id"`
	ClientName             string           `yaml:"clientName"`
	ClientPhone            string           `yaml:"clientPhone"`
	ClientEmail            string           `yaml:"clientEmail"`
	Address                string           `yaml:"address"`
	Type                   models.JobType   `yaml:"type"`
	Status                 models.JobStatus `yaml:"status"`
	CurrentStage           models.JobStage  `yaml:"currentStage"`
	Value                  float64          `yaml:"value"`
	StartDate              string           `yaml:"startDate"`
	FinishDate             string           `yaml:"finishDate"`
	FinishToday            bool             `yaml:"finishToday"`
	AssignedTeam           []string         `yaml:"assignedTeam"`
	ProjectManager         string           `yaml:"projectManager"`
	Builder                string           `yaml:"builder"`
	Electrician            string           `yaml:"electrician"`
	Plumber                string           `yaml:"plumber"`
	Architect              string           `yaml:"architect"`
	ArchitectPlans         []string         `yaml:"architectPlans"`
	StructuralCalculations []string         `yaml:"structuralCalculations"`
	BuildingControlRef     string           `yaml:"buildingControlRef"`
	AgreedExtras           string           `yaml:"agreedExtras"`
	Description            string           `yaml:"description"`
	NextAction             string           `yaml:"nextAction"`
	GalleryImages          []string         `yaml:"galleryImages"`
	SiteNotes              []seedNote       `yaml:"siteNotes"`
	Messages               []seedMessage    `yaml:"messages"`
}

type seedActivity struct {
	ID         string              `yaml:"id"`
	UserID     string              `yaml:"userId"`
	Type       models.ActivityType `yaml:"type"`
	Details    string              `yaml:"details"`
	AgeSeconds int                 `yaml:"ageSeconds"`
}

type seedTask struct {
	ID          string              `yaml:"id"`
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	AssignedTo  string              `yaml:"assignedTo"`
	AssignedBy  string              `yaml:"assignedBy"`
	ProjectID   string              `yaml:"projectId"`
	Status      models.TaskStatus   `yaml:"status"`
	Priority    models.TaskPriority `yaml:"priority"`
	DueInDays   int                 `yaml:"dueInDays"`
	ActivityLog []seedActivity      `yaml:"activityLog"`
}

type seedUser struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Email  string      `yaml:"email"`
	Role   models.Role `yaml:"role"`
	Avatar string      `yaml:"avatar"`
}

type document struct {
	Users []seedUser `yaml:"users"`
	Jobs  []seedJob  `yaml:"jobs"`
	Tasks []seedTask `yaml:"tasks"`
}

// Load parses the embedded dataset and resolves relative times against now.
func Load(now time.Time) (Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(datasetYAML, &doc); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse seed dataset: %w", err)
	}

	ago := func(seconds int) time.Time {
		return now.Add(-time.Duration(seconds) * time.Second)
	}

	ds := Dataset{
		Users: make([]models.User, 0, len(doc.Users)),
		Jobs:  make([]models.Job, 0, len(doc.Jobs)),
		Tasks: make([]models.Task, 0, len(doc.Tasks)),
	}

	for _, u := range doc.Users {
		ds.Users = append(ds.Users, models.User(u))
	}

	for _, j := range doc.Jobs {
		job := models.Job{
			ID:                     j.ID,
			ClientName:             j.ClientName,
			ClientPhone:            j.ClientPhone,
			ClientEmail:            j.ClientEmail,
			Address:                j.Address,
			Type:                   j.Type,
			Status:                 j.Status,
			CurrentStage:           j.CurrentStage,
			Value:                  j.Value,
			StartDate:              j.StartDate,
			FinishDate:             j.FinishDate,
			AssignedTeam:           orEmpty(j.AssignedTeam),
			ProjectManager:         j.ProjectManager,
			Builder:                j.Builder,
			Electrician:            j.Electrician,
			Plumber:                j.Plumber,
			Architect:              j.Architect,
			ArchitectPlans:         orEmpty(j.ArchitectPlans),
			StructuralCalculations: orEmpty(j.StructuralCalculations),
			BuildingControlRef:     j.BuildingControlRef,
			AgreedExtras:           j.AgreedExtras,
			Description:            j.Description,
			NextAction:             j.NextAction,
			GalleryImages:          orEmpty(j.GalleryImages),
			Messages:               make([]models.Message, 0, len(j.Messages)),
			SiteNotes:              make([]models.Note, 0, len(j.SiteNotes)),
		}
		if j.FinishToday {
			job.FinishDate = models.FormatDate(now)
		}
		for _, m := range j.Messages {
			job.Messages = append(job.Messages, models.Message{
				ID:        m.ID,
				SenderID:  m.SenderID,
				Text:      m.Text,
				Timestamp: ago(m.AgeSeconds),
				Type:      m.Type,
			})
		}
		for _, n := range j.SiteNotes {
			job.SiteNotes = append(job.SiteNotes, models.Note{
				ID:        n.ID,
				UserID:    n.UserID,
				Content:   n.Content,
				Timestamp: ago(n.AgeSeconds),
			})
		}
		ds.Jobs = append(ds.Jobs, job)
	}

	for _, t := range doc.Tasks {
		task := models.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			AssignedTo:  t.AssignedTo,
			AssignedBy:  t.AssignedBy,
			ProjectID:   t.ProjectID,
			Status:      t.Status,
			Priority:    t.Priority,
			DueDate:     models.FormatDate(now.AddDate(0, 0, t.DueInDays)),
			CreatedAt:   now,
			ActivityLog: make([]models.TaskActivity, 0, len(t.ActivityLog)),
			Attachments: []models.TaskAttachment{},
		}
		for _, a := range t.ActivityLog {
			task.ActivityLog = append(task.ActivityLog, models.TaskActivity{
				ID:        a.ID,
				UserID:    a.UserID,
				Type:      a.Type,
				Details:   a.Details,
				Timestamp: ago(a.AgeSeconds),
			})
		}
		ds.Tasks = append(ds.Tasks, task)
	}

	return ds, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
