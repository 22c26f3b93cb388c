package services

import (
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/wmhi/site-portal/internal/metrics"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/repository"
	"github.com/wmhi/site-portal/internal/seed"
	"go.uber.org/zap"
)

// Workspace owns the authoritative users, jobs, tasks, session and credentials.
// Readers get copies; every write goes through one Update method per entity,
// which applies the change to a copy, persists the whole collection and only
// then swaps it in.
type Workspace struct {
	mu sync.RWMutex

	repo   repository.PortalRepository
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location

	users       []models.User
	jobs        []models.Job
	tasks       []models.Task
	session     *models.User
	credentials map[string]string
	selectedJob string
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithClock overrides the time source.
func WithClock(now func() time.Time) WorkspaceOption {
	return func(w *Workspace) {
		w.now = now
	}
}

// WithLocation sets the zone in which "today" is evaluated.
func WithLocation(loc *time.Location) WorkspaceOption {
	return func(w *Workspace) {
		w.loc = loc
	}
}

func NewWorkspace(repo repository.PortalRepository, logger *zap.Logger, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		repo:        repo,
		logger:      logger,
		now:         time.Now,
		loc:         time.Local,
		credentials: map[string]string{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Now returns the current time in the workspace location.
func (w *Workspace) Now() time.Time {
	return w.now().In(w.loc)
}

// Load reads every collection from the store. Collections that were never
// stored are seeded from the built-in dataset and written back.
func (w *Workspace) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ds *seed.Dataset
	dataset := func() (*seed.Dataset, error) {
		if ds == nil {
			d, err := seed.Load(w.Now())
			if err != nil {
				return nil, err
			}
			ds = &d
		}
		return ds, nil
	}

	users, found, err := w.repo.LoadUsers()
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	if !found {
		d, err := dataset()
		if err != nil {
			return err
		}
		users = d.Users
		if err := w.repo.SaveUsers(users); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		w.logger.Info("seeded collection", zap.String("key", repository.KeyUsers), zap.Int("count", len(users)))
	}

	jobs, found, err := w.repo.LoadJobs()
	if err != nil {
		return fmt.Errorf("failed to load jobs: %w", err)
	}
	if !found {
		d, err := dataset()
		if err != nil {
			return err
		}
		jobs = d.Jobs
		if err := w.repo.SaveJobs(jobs); err != nil {
			return fmt.Errorf("failed to seed jobs: %w", err)
		}
		w.logger.Info("seeded collection", zap.String("key", repository.KeyJobs), zap.Int("count", len(jobs)))
	}

	tasks, found, err := w.repo.LoadTasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if !found {
		d, err := dataset()
		if err != nil {
			return err
		}
		tasks = d.Tasks
		if err := w.repo.SaveTasks(tasks); err != nil {
			return fmt.Errorf("failed to seed tasks: %w", err)
		}
		w.logger.Info("seeded collection", zap.String("key", repository.KeyTasks), zap.Int("count", len(tasks)))
	}

	session, _, err := w.repo.LoadSession()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	credentials, _, err := w.repo.LoadCredentials()
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if credentials == nil {
		credentials = map[string]string{}
	}

	w.users = users
	w.jobs = jobs
	w.tasks = tasks
	w.session = session
	w.credentials = credentials
	return nil
}

// Reset overwrites every collection with the built-in dataset and clears the
// session and stored credentials.
func (w *Workspace) Reset() error {
	ds, err := seed.Load(w.Now())
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.repo.SaveUsers(ds.Users); err != nil {
		return fmt.Errorf("failed to reset users: %w", err)
	}
	if err := w.repo.SaveJobs(ds.Jobs); err != nil {
		return fmt.Errorf("failed to reset jobs: %w", err)
	}
	if err := w.repo.SaveTasks(ds.Tasks); err != nil {
		return fmt.Errorf("failed to reset tasks: %w", err)
	}
	if err := w.repo.SaveCredentials(map[string]string{}); err != nil {
		return fmt.Errorf("failed to reset credentials: %w", err)
	}
	if err := w.repo.ClearSession(); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}

	w.users = ds.Users
	w.jobs = ds.Jobs
	w.tasks = ds.Tasks
	w.session = nil
	w.credentials = map[string]string{}
	w.selectedJob = ""
	return nil
}

// Users returns a copy of the user collection.
func (w *Workspace) Users() []models.User {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.User(nil), w.users...)
}

// Jobs returns a deep copy of the job collection.
func (w *Workspace) Jobs() []models.Job {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneJobs(w.jobs)
}

// Tasks returns a deep copy of the task collection.
func (w *Workspace) Tasks() []models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneTasks(w.tasks)
}

func (w *Workspace) FindUser(id string) (models.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return models.FindUser(w.users, id)
}

func (w *Workspace) FindJob(id string) (models.Job, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	job, _, ok := models.FindJob(w.jobs, id)
	return job.Clone(), ok
}

func (w *Workspace) FindTask(id string) (models.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	task, _, ok := models.FindTask(w.tasks, id)
	return task.Clone(), ok
}

// Session returns the last signed-in user, if any.
func (w *Workspace) Session() (models.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.session == nil {
		return models.User{}, false
	}
	return *w.session, true
}

// UpdateUsers applies fn to a copy of the users and persists the result.
// An error from fn leaves the workspace untouched.
func (w *Workspace) UpdateUsers(fn func(users []models.User) ([]models.User, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := fn(append([]models.User(nil), w.users...))
	if err != nil {
		return err
	}
	if err := w.repo.SaveUsers(next); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	w.users = next
	metrics.MutationsTotal.WithLabelValues("user").Inc()
	return nil
}

// UpdateJobs applies fn to a copy of the jobs and persists the result.
func (w *Workspace) UpdateJobs(fn func(jobs []models.Job) ([]models.Job, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := fn(cloneJobs(w.jobs))
	if err != nil {
		return err
	}
	if err := w.repo.SaveJobs(next); err != nil {
		return fmt.Errorf("failed to save jobs: %w", err)
	}
	w.jobs = next
	if _, _, ok := models.FindJob(next, w.selectedJob); !ok {
		w.selectedJob = ""
	}
	metrics.MutationsTotal.WithLabelValues("job").Inc()
	return nil
}

// UpdateTasks applies fn to a copy of the tasks and persists the result.
func (w *Workspace) UpdateTasks(fn func(tasks []models.Task) ([]models.Task, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, err := fn(cloneTasks(w.tasks))
	if err != nil {
		return err
	}
	if err := w.repo.SaveTasks(next); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	w.tasks = next
	metrics.MutationsTotal.WithLabelValues("task").Inc()
	return nil
}

// UpdateCredentials applies fn to a copy of the credential map and persists it.
func (w *Workspace) UpdateCredentials(fn func(credentials map[string]string) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := maps.Clone(w.credentials)
	if err := fn(next); err != nil {
		return err
	}
	if err := w.repo.SaveCredentials(next); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	w.credentials = next
	metrics.MutationsTotal.WithLabelValues("credential").Inc()
	return nil
}

// Credential returns the stored password hash for a user.
func (w *Workspace) Credential(userID string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	hash, ok := w.credentials[userID]
	return hash, ok
}

// SetSession records the signed-in user, or clears it when user is nil.
func (w *Workspace) SetSession(user *models.User) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if user == nil {
		if err := w.repo.ClearSession(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		w.session = nil
		return nil
	}

	if err := w.repo.SaveSession(*user); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	u := *user
	w.session = &u
	metrics.MutationsTotal.WithLabelValues("session").Inc()
	return nil
}

// SelectJob sets the currently selected job pointer.
func (w *Workspace) SelectJob(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedJob = id
}

// SelectedJob returns the currently selected job id, or "" when none.
func (w *Workspace) SelectedJob() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selectedJob
}

func cloneJobs(jobs []models.Job) []models.Job {
	out := make([]models.Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
