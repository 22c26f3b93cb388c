package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wmhi/site-portal/internal/dto"
	"github.com/wmhi/site-portal/internal/metrics"
	"github.com/wmhi/site-portal/internal/models"
)

// KVPortalRepository stores each collection as one JSON blob, overwritten whole
// on every save.
type KVPortalRepository struct {
	kv KVRepository
}

// NewPortalRepository creates a new PortalRepository backed by kv
func NewPortalRepository(kv KVRepository) PortalRepository {
	return &KVPortalRepository{kv: kv}
}

func (r *KVPortalRepository) load(key string, v any) (bool, error) {
	raw, err := r.kv.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *KVPortalRepository) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.kv.Set(key, raw); err != nil {
		metrics.StoreWritesTotal.WithLabelValues(key, "error").Inc()
		return err
	}
	metrics.StoreWritesTotal.WithLabelValues(key, "ok").Inc()
	return nil
}

func (r *KVPortalRepository) LoadUsers() ([]models.User, bool, error) {
	var records []dto.UserRecord
	found, err := r.load(KeyUsers, &records)
	if err != nil || !found {
		return nil, found, err
	}
	return dto.FromUserRecords(records), true, nil
}

func (r *KVPortalRepository) SaveUsers(users []models.User) error {
	return r.save(KeyUsers, dto.ToUserRecords(users))
}

func (r *KVPortalRepository) LoadJobs() ([]models.Job, bool, error) {
	var records []dto.JobRecord
	found, err := r.load(KeyJobs, &records)
	if err != nil || !found {
		return nil, found, err
	}
	jobs, err := dto.FromJobRecords(records)
	if err != nil {
		return nil, true, fmt.Errorf("failed to rehydrate jobs: %w", err)
	}
	return jobs, true, nil
}

func (r *KVPortalRepository) SaveJobs(jobs []models.Job) error {
	return r.save(KeyJobs, dto.ToJobRecords(jobs))
}

func (r *KVPortalRepository) LoadTasks() ([]models.Task, bool, error) {
	var records []dto.TaskRecord
	found, err := r.load(KeyTasks, &records)
	if err != nil || !found {
		return nil, found, err
	}
	tasks, err := dto.FromTaskRecords(records)
	if err != nil {
		return nil, true, fmt.Errorf("failed to rehydrate tasks: %w", err)
	}
	return tasks, true, nil
}

func (r *KVPortalRepository) SaveTasks(tasks []models.Task) error {
	return r.save(KeyTasks, dto.ToTaskRecords(tasks))
}

func (r *KVPortalRepository) LoadSession() (*models.User, bool, error) {
	var record dto.UserRecord
	found, err := r.load(KeySessionUser, &record)
	if err != nil || !found {
		return nil, found, err
	}
	user := dto.FromUserRecord(record)
	return &user, true, nil
}

func (r *KVPortalRepository) SaveSession(user models.User) error {
	return r.save(KeySessionUser, dto.ToUserRecord(user))
}

func (r *KVPortalRepository) ClearSession() error {
	return r.kv.Delete(KeySessionUser)
}

func (r *KVPortalRepository) LoadCredentials() (map[string]string, bool, error) {
	credentials := map[string]string{}
	found, err := r.load(KeyCredentials, &credentials)
	if err != nil || !found {
		return nil, found, err
	}
	return credentials, true, nil
}

func (r *KVPortalRepository) SaveCredentials(credentials map[string]string) error {
	return r.save(KeyCredentials, credentials)
}
