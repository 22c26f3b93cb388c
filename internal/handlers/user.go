package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wmhi/site-portal/internal/dto"
	apierrors "github.com/wmhi/site-portal/internal/errors"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/services"
)

// UserHandler serves the team directory and admin user management.
type UserHandler struct {
	teamService *services.TeamService
	authService *services.AuthService
}

func NewUserHandler(teamService *services.TeamService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		teamService: teamService,
		authService: authService,
	}
}

// ListUsers returns every team member
func (h *UserHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(h.teamService.List()),
	})
}

// AddUser creates a team member. Email defaults to first.last@ the company domain.
func (h *UserHandler) AddUser(c *gin.Context) {
	actor, ok := requireUser(c)
	if !ok {
		return
	}

	type AddUserRequest struct {
		Name  string      `json:"name" binding:"required"`
		Email string      `json:"email"`
		Role  models.Role `json:"role"`
	}

	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.teamService.Add(actor, services.AddUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser edits a member's role or email
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := requireUser(c)
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Role  *models.Role `json:"role"`
		Email *string      `json:"email"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.teamService.Update(actor, c.Param("id"), services.UpdateUserInput{
		Role:  req.Role,
		Email: req.Email,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// RemoveUser deletes a member. Their jobs and tasks are left as they are.
func (h *UserHandler) RemoveUser(c *gin.Context) {
	actor, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.teamService.Remove(actor, c.Param("id")); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User removed successfully",
	})
}

// ResetPassword sets a new password for a member
func (h *UserHandler) ResetPassword(c *gin.Context) {
	actor, ok := requireUser(c)
	if !ok {
		return
	}

	type ResetPasswordRequest struct {
		Password string `json:"password" binding:"required"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authService.ResetPassword(actor, c.Param("id"), req.Password); err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrCannotRemoveSelf):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
