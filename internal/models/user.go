package models

type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleSiteManager Role = "Site Manager"
	RoleBuilder     Role = "Builder"
	RoleSurveyor    Role = "Surveyor"
	RoleElectrician Role = "Electrician"
	RolePlumber     Role = "Plumber"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleSiteManager, RoleBuilder, RoleSurveyor, RoleElectrician, RolePlumber}

func (r Role) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// UnknownUserName is shown wherever an id no longer resolves to a user.
const UnknownUserName = "Unknown"

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar"`
}

// IsAdmin is the only permission check in the portal.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UnknownUser is the placeholder returned for dangling user ids.
func UnknownUser(id string) User {
	return User{ID: id, Name: UnknownUserName}
}

// FindUser looks a user up by id.
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ResolveUser never fails: an unknown id yields the Unknown placeholder.
func ResolveUser(users []User, id string) User {
	if u, ok := FindUser(users, id); ok {
		return u
	}
	return UnknownUser(id)
}
