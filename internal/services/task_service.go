package services

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/wmhi/site-portal/internal/activity"
	"github.com/wmhi/site-portal/internal/aggregate"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/taskview"
)

// TaskKind is the creation mode of a task.
type TaskKind string

const (
	TaskKindSelf       TaskKind = "self"
	TaskKindIndividual TaskKind = "individual"
	TaskKindProject    TaskKind = "project"
)

// TaskService handles task business logic
type TaskService struct {
	ws *Workspace
}

func NewTaskService(ws *Workspace) *TaskService {
	return &TaskService{ws: ws}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Kind        TaskKind
	Title       string
	Description string
	AssigneeID  string
	ProjectID   string
	Priority    models.TaskPriority
	DueDate     string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssigneeID  *string
	ProjectID   *string
	Priority    *models.TaskPriority
	DueDate     *string
}

// Directory returns the users and jobs that task ids refer to.
func (s *TaskService) Directory() ([]models.User, []models.Job) {
	return s.ws.Users(), s.ws.Jobs()
}

// Board returns the task board for viewingUserID. Only admins may look at
// someone else's board; everyone else always sees their own.
func (s *TaskService) Board(actor models.User, viewingUserID string, filter taskview.Filter) (taskview.Board, error) {
	if err := filter.Validate(); err != nil {
		return taskview.Board{}, err
	}
	if viewingUserID == "" || !actor.IsAdmin() {
		viewingUserID = actor.ID
	}
	viewing := models.ResolveUser(s.ws.Users(), viewingUserID)
	return taskview.BuildBoard(s.ws.Tasks(), viewing, filter, s.ws.Now()), nil
}

// Get returns a task the actor participates in. Admins can read any task.
func (s *TaskService) Get(actor models.User, taskID string) (*models.Task, error) {
	task, ok := s.ws.FindTask(taskID)
	if !ok || !canAccessTask(task, actor) {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

// AssignableUsers lists who may take a task. For a project that is its team
// plus every admin; without a project it is everyone.
func (s *TaskService) AssignableUsers(actor models.User, projectID string) ([]models.User, error) {
	users := s.ws.Users()
	if projectID == "" {
		return users, nil
	}
	job, ok := s.ws.FindJob(projectID)
	if !ok || !aggregate.CanView(job, actor) {
		return nil, ErrJobNotFound
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsAdmin() || job.HasMember(u.ID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *TaskService) Create(actor models.User, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	now := s.ws.Now()
	dueDate := input.DueDate
	if dueDate == "" {
		dueDate = models.FormatDate(now)
	}
	if !models.ValidDate(dueDate) {
		return nil, ErrInvalidDate
	}

	var assignee, project string
	switch input.Kind {
	case TaskKindSelf, "":
		assignee = actor.ID
	case TaskKindIndividual:
		if input.AssigneeID == "" {
			return nil, ErrAssigneeRequired
		}
		if _, ok := s.ws.FindUser(input.AssigneeID); !ok {
			return nil, ErrUserNotFound
		}
		assignee = input.AssigneeID
	case TaskKindProject:
		if input.ProjectID == "" {
			return nil, ErrProjectRequired
		}
		if input.AssigneeID == "" {
			return nil, ErrAssigneeRequired
		}
		if err := projectAssignee(s.ws.Jobs(), s.ws.Users(), actor, input.ProjectID, input.AssigneeID); err != nil {
			return nil, err
		}
		assignee, project = input.AssigneeID, input.ProjectID
	default:
		return nil, ErrInvalidTaskKind
	}

	task := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: input.Description,
		AssignedTo:  assignee,
		AssignedBy:  actor.ID,
		ProjectID:   project,
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		ActivityLog: []models.TaskActivity{activity.Creation(actor.ID, now)},
		Attachments: []models.TaskAttachment{},
	}

	err := s.ws.UpdateTasks(func(tasks []models.Task) ([]models.Task, error) {
		return append([]models.Task{task}, tasks...), nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update edits a task and logs priority, assignee and due date changes.
func (s *TaskService) Update(actor models.User, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Title != nil {
		t := strings.TrimSpace(*input.Title)
		if t == "" {
			return nil, ErrTitleEmpty
		}
		input.Title = &t
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}
	if input.DueDate != nil && !models.ValidDate(*input.DueDate) {
		return nil, ErrInvalidDate
	}
	if input.AssigneeID != nil && *input.AssigneeID == "" {
		return nil, ErrAssigneeRequired
	}

	// Snapshots are taken up front; the workspace lock is held inside mutate.
	users := s.ws.Users()
	jobs := s.ws.Jobs()
	now := s.ws.Now()

	return s.mutate(actor, taskID, func(task *models.Task) error {
		before := *task
		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.AssigneeID != nil {
			if _, ok := models.FindUser(users, *input.AssigneeID); !ok {
				return ErrUserNotFound
			}
			task.AssignedTo = *input.AssigneeID
		}
		if input.ProjectID != nil {
			task.ProjectID = *input.ProjectID
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.DueDate != nil {
			task.DueDate = *input.DueDate
		}
		if task.ProjectID != "" && (task.ProjectID != before.ProjectID || task.AssignedTo != before.AssignedTo) {
			if err := projectAssignee(jobs, users, actor, task.ProjectID, task.AssignedTo); err != nil {
				return err
			}
		}

		assigneeName := models.ResolveUser(users, task.AssignedTo).Name
		task.ActivityLog = activity.Prepend(task.ActivityLog, activity.Diff(before, *task, actor.ID, assigneeName, now)...)
		return nil
	})
}

// ToggleStatus flips a task between Completed and Pending.
func (s *TaskService) ToggleStatus(actor models.User, taskID string) (*models.Task, error) {
	now := s.ws.Now()
	return s.mutate(actor, taskID, func(task *models.Task) error {
		next := models.TaskStatusCompleted
		if task.Status == models.TaskStatusCompleted {
			next = models.TaskStatusPending
		}
		task.Status = next
		task.ActivityLog = activity.Prepend(task.ActivityLog, activity.StatusChange(actor.ID, next, now))
		return nil
	})
}

// SetStatus moves a task to any valid status.
func (s *TaskService) SetStatus(actor models.User, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	now := s.ws.Now()
	return s.mutate(actor, taskID, func(task *models.Task) error {
		if !task.Status.CanTransitionTo(status) {
			return ErrInvalidTaskStatus
		}
		task.Status = status
		task.ActivityLog = activity.Prepend(task.ActivityLog, activity.StatusChange(actor.ID, status, now))
		return nil
	})
}

// Attach records an uploaded file on the task with an upload log entry.
func (s *TaskService) Attach(actor models.User, taskID, name, mediaType, url string) (*models.Task, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFileNameRequired
	}
	now := s.ws.Now()
	attachment := models.TaskAttachment{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       models.AttachmentTypeFor(mediaType),
		URL:        url,
		UploadedBy: actor.ID,
		UploadedAt: now,
	}
	return s.mutate(actor, taskID, func(task *models.Task) error {
		task.Attachments = append([]models.TaskAttachment{attachment}, task.Attachments...)
		task.ActivityLog = activity.Prepend(task.ActivityLog, activity.Upload(actor.ID, name, now))
		return nil
	})
}

func (s *TaskService) Comment(actor models.User, taskID, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	now := s.ws.Now()
	return s.mutate(actor, taskID, func(task *models.Task) error {
		task.ActivityLog = activity.Prepend(task.ActivityLog, activity.Comment(actor.ID, text, now))
		return nil
	})
}

func (s *TaskService) Delete(actor models.User, taskID string) error {
	return s.ws.UpdateTasks(func(tasks []models.Task) ([]models.Task, error) {
		task, i, ok := models.FindTask(tasks, taskID)
		if !ok || !canAccessTask(task, actor) {
			return nil, ErrTaskNotFound
		}
		return slices.Delete(tasks, i, i+1), nil
	})
}

// projectAssignee checks that assigneeID may work on a task for projectID.
func projectAssignee(jobs []models.Job, users []models.User, actor models.User, projectID, assigneeID string) error {
	job, _, ok := models.FindJob(jobs, projectID)
	if !ok || !aggregate.CanView(job, actor) {
		return ErrJobNotFound
	}
	assignee, ok := models.FindUser(users, assigneeID)
	if !ok {
		return ErrUserNotFound
	}
	if !assignee.IsAdmin() && !job.HasMember(assignee.ID) {
		return ErrAssigneeNotOnTeam
	}
	return nil
}

func (s *TaskService) mutate(actor models.User, taskID string, fn func(task *models.Task) error) (*models.Task, error) {
	var updated models.Task
	err := s.ws.UpdateTasks(func(tasks []models.Task) ([]models.Task, error) {
		task, i, ok := models.FindTask(tasks, taskID)
		if !ok || !canAccessTask(task, actor) {
			return nil, ErrTaskNotFound
		}
		if err := fn(&task); err != nil {
			return nil, err
		}
		tasks[i] = task
		updated = task.Clone()
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func canAccessTask(task models.Task, actor models.User) bool {
	return actor.IsAdmin() || task.IsParticipant(actor.ID)
}
