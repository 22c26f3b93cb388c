package constants

const (
	// ContextKeyUserID is the session and gin context key holding the signed-in user id.
	ContextKeyUserID = "user_id"
	// ContextKeyCurrentUser holds the resolved models.User for the request.
	ContextKeyCurrentUser = "current_user"
	ContextKeyJob         = "job"
	ContextKeyTask        = "task"

	SessionCookieName = "portal_session"

	// MinPasswordLength applies to admin password resets.
	MinPasswordLength = 4

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// RecentNotesForDraft is how many diary notes feed a client update draft.
	RecentNotesForDraft = 5

	// MaxUploadBytes caps multipart uploads stored inline as data URLs.
	MaxUploadBytes = 5 << 20

	EmailDomain     = "wmhi.co.uk"
	AvatarURLPrefix = "https://i.pravatar.cc/150?u="
)
