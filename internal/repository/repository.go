package repository

import (
	"errors"

	"github.com/wmhi/site-portal/internal/models"
)

// ErrKeyNotFound is returned by KVRepository.Get for an absent key.
var ErrKeyNotFound = errors.New("key not found")

// Store keys.
const (
	KeySessionUser = "current-session-user"
	KeyJobs        = "jobs"
	KeyTasks       = "tasks"
	KeyUsers       = "users"
	KeyCredentials = "credentials"
)

// KVRepository defines the interface for the key to JSON blob store
type KVRepository interface {
	// Get returns the blob stored under key
	Get(key string) ([]byte, error)

	// Set overwrites the blob stored under key
	Set(key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(key string) error

	// Keys lists every stored key in ascending order
	Keys() ([]string, error)
}

// PortalRepository defines typed access to the portal's collections. Each
// Load reports found=false when nothing has been stored yet.
type PortalRepository interface {
	LoadUsers() ([]models.User, bool, error)
	SaveUsers(users []models.User) error

	LoadJobs() ([]models.Job, bool, error)
	SaveJobs(jobs []models.Job) error

	LoadTasks() ([]models.Task, bool, error)
	SaveTasks(tasks []models.Task) error

	LoadSession() (*models.User, bool, error)
	SaveSession(user models.User) error
	ClearSession() error

	// Credentials map user ids to bcrypt hashes
	LoadCredentials() (map[string]string, bool, error)
	SaveCredentials(credentials map[string]string) error
}
