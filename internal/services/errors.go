package services

import "errors"

var (
	ErrAdminRequired = errors.New("only admins can perform this action")

	ErrInvalidCredentials   = errors.New("no user found with that email address")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")

	ErrNameRequired     = errors.New("name is required")
	ErrEmailRequired    = errors.New("email cannot be empty")
	ErrEmailTaken       = errors.New("email already in use")
	ErrInvalidRole      = errors.New("invalid role")
	ErrCannotRemoveSelf = errors.New("you cannot remove yourself")

	ErrJobNotFound          = errors.New("job not found")
	ErrClientNameRequired   = errors.New("client name is required")
	ErrAddressRequired      = errors.New("address is required")
	ErrInvalidJobType       = errors.New("invalid job type")
	ErrInvalidJobStatus     = errors.New("invalid job status")
	ErrInvalidJobStage      = errors.New("invalid job stage")
	ErrInvalidDate          = errors.New("dates must be YYYY-MM-DD")
	ErrInvalidDateRange     = errors.New("from date must not be after to date")
	ErrInvalidValue         = errors.New("job value cannot be negative")
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrEmptyNote            = errors.New("note cannot be empty")
	ErrFileNameRequired     = errors.New("file name is required")
	ErrInvalidDocumentField = errors.New("invalid document field")
	ErrInvalidFormField     = errors.New("invalid form field")
	ErrDocumentNotFound     = errors.New("document not found")

	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleEmpty          = errors.New("title cannot be empty")
	ErrInvalidTaskKind     = errors.New("task kind must be self, individual or project")
	ErrAssigneeRequired    = errors.New("an assignee is required")
	ErrProjectRequired     = errors.New("a project is required")
	ErrAssigneeNotOnTeam   = errors.New("assignee must be on the project team or an admin")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrEmptyComment        = errors.New("comment cannot be empty")
)

// IsValidationError reports whether err is a declined-input error that leaves
// state untouched.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrPasswordRequired, ErrPasswordTooShort, ErrNameRequired, ErrEmailRequired, ErrInvalidRole,
		ErrClientNameRequired, ErrAddressRequired, ErrInvalidJobType, ErrInvalidJobStatus,
		ErrInvalidJobStage, ErrInvalidDate, ErrInvalidDateRange, ErrInvalidValue, ErrEmptyMessage,
		ErrEmptyNote, ErrFileNameRequired, ErrInvalidDocumentField, ErrInvalidFormField,
		ErrTitleRequired, ErrTitleEmpty, ErrInvalidTaskKind, ErrAssigneeRequired, ErrProjectRequired,
		ErrAssigneeNotOnTeam, ErrInvalidTaskPriority, ErrInvalidTaskStatus, ErrEmptyComment,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
