package services

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/models"
)

// TeamService manages the user directory.
type TeamService struct {
	ws *Workspace
}

func NewTeamService(ws *Workspace) *TeamService {
	return &TeamService{ws: ws}
}

// AddUserInput represents input for adding a team member
type AddUserInput struct {
	Name  string
	Email string
	Role  models.Role
}

// UpdateUserInput represents the admin-editable user fields
type UpdateUserInput struct {
	Role  *models.Role
	Email *string
}

func (s *TeamService) List() []models.User {
	return s.ws.Users()
}

// Lookup resolves an id, degrading to the Unknown placeholder.
func (s *TeamService) Lookup(id string) models.User {
	if u, ok := s.ws.FindUser(id); ok {
		return u
	}
	return models.UnknownUser(id)
}

// DefaultEmail derives first.last@domain from a display name.
func DefaultEmail(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), ".") + "@" + constants.EmailDomain
}

// Add creates a team member. Admin only.
func (s *TeamService) Add(actor models.User, input AddUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		email = DefaultEmail(name)
	}
	role := input.Role
	if role == "" {
		role = models.RoleBuilder
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user := models.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  email,
		Role:   role,
		Avatar: constants.AvatarURLPrefix + url.QueryEscape(name),
	}

	err := s.ws.UpdateUsers(func(users []models.User) ([]models.User, error) {
		if emailTaken(users, email, "") {
			return nil, ErrEmailTaken
		}
		return append(users, user), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update edits a member's role or email. Admin only.
func (s *TeamService) Update(actor models.User, userID string, input UpdateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	var email string
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
	}

	var updated models.User
	err := s.ws.UpdateUsers(func(users []models.User) ([]models.User, error) {
		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if input.Role != nil {
				users[i].Role = *input.Role
			}
			if input.Email != nil {
				if emailTaken(users, email, userID) {
					return nil, ErrEmailTaken
				}
				users[i].Email = email
			}
			updated = users[i]
			return users, nil
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes a member. Jobs and tasks keep referencing the removed id.
func (s *TeamService) Remove(actor models.User, userID string) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if actor.ID == userID {
		return ErrCannotRemoveSelf
	}

	return s.ws.UpdateUsers(func(users []models.User) ([]models.User, error) {
		for i, u := range users {
			if u.ID == userID {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, ErrUserNotFound
	})
}

func emailTaken(users []models.User, email, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
