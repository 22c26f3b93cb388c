package services

import (
	"fmt"
	"strings"

	"github.com/wmhi/site-portal/internal/constants"
	"github.com/wmhi/site-portal/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles sign-in and admin password resets.
type AuthService struct {
	ws *Workspace
}

// NewAuthService creates a new AuthService.
func NewAuthService(ws *Workspace) *AuthService {
	return &AuthService{ws: ws}
}

// Login finds the user by email, ignoring case, and records the session.
// Any non-empty password is accepted until an admin has set one.
func (s *AuthService) Login(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if password == "" {
		return nil, ErrPasswordRequired
	}

	var (
		user  models.User
		found bool
	)
	for _, u := range s.ws.Users() {
		if strings.EqualFold(u.Email, email) {
			user, found = u, true
			break
		}
	}
	if !found {
		return nil, ErrInvalidCredentials
	}

	if hash, ok := s.ws.Credential(user.ID); ok {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	if err := s.ws.SetSession(&user); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	return &user, nil
}

// Logout clears the recorded session.
func (s *AuthService) Logout() error {
	return s.ws.SetSession(nil)
}

// CurrentUser returns the last signed-in user.
func (s *AuthService) CurrentUser() (models.User, bool) {
	return s.ws.Session()
}

// GetUser returns the user with the given id.
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	user, ok := s.ws.FindUser(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// ResetPassword stores a new password for a user. Admin only.
func (s *AuthService) ResetPassword(actor models.User, userID, newPassword string) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	if _, ok := s.ws.FindUser(userID); !ok {
		return ErrUserNotFound
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	return s.ws.UpdateCredentials(func(credentials map[string]string) error {
		credentials[userID] = string(hashed)
		return nil
	})
}
