package model

import "strings"

// AdministratorRoleID is the roles.id value the upstream API assigns to
// administrators.  Every other role id is treated as a regular member.
const AdministratorRoleID = 1

// Role is the capability level of an authenticated principal.  The
// upstream API only exposes a numeric role id; RoleFromID maps it onto
// this enumeration so the rest of the code never compares raw ids.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleMember        Role = "MEMBER"
)

// RoleFromID converts an upstream role id into a Role.
func RoleFromID(id int) Role {
	if id == AdministratorRoleID {
		return RoleAdministrator
	}
	return RoleMember
}

// Principal is the authenticated user returned by the login and register
// endpoints.  JSON tags follow the upstream API so the record can be
// echoed back to durable storage unchanged.
//
// Fields:
//
//	ID        – users.id, unique.
//	FirstName – given name.
//	LastName  – family name.
//	Email     – unique per account.
//	RoleID    – roles.id; see AdministratorRoleID.
//	Username  – optional login name (statistics API only).
//	IsAdmin   – optional flag some API versions send alongside RoleID.
type Principal struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	RoleID    int    `json:"roleId"`
	Username  string `json:"username,omitempty"`
	IsAdmin   *bool  `json:"isAdmin,omitempty"`
}

// Role reports the principal's capability level.  An explicit isAdmin
// flag wins over the role id when the API sends one.
func (p Principal) Role() Role {
	if p.IsAdmin != nil && *p.IsAdmin {
		return RoleAdministrator
	}
	return RoleFromID(p.RoleID)
}

// IsAdministrator is shorthand for Role() == RoleAdministrator.
func (p Principal) IsAdministrator() bool { return p.Role() == RoleAdministrator }

// DisplayName returns "First Last", falling back to the username or email.
func (p Principal) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	switch {
	case name != "":
		return name
	case p.Username != "":
		return p.Username
	default:
		return p.Email
	}
}

// Credentials are submitted by the login form.  The statistics API accepts
// a username or an email; the vacations API only an email.  Exactly one
// identifier is sent, the other is omitted from the JSON body.
type Credentials struct {
	Username string `json:"username,omitempty" form:"username"`
	Email    string `json:"email,omitempty" form:"email"`
	Password string `json:"password" form:"password"`
}

// Identifier returns the username-or-email the user typed.
func (c Credentials) Identifier() string {
	if strings.TrimSpace(c.Email) != "" {
		return c.Email
	}
	return c.Username
}

// Complete reports whether both an identifier and a password are present.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Identifier()) != "" && c.Password != ""
}

// Registration is the signup form payload sent to /users/register.
type Registration struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}
