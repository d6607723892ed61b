package user

import (
	"time"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// createInput is the payload accepted on user creation. The password is
// write-only: accepted here, hashed before persistence, never serialized back.
type createInput struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
}

// updateInput is the partial-update payload. Nil fields are left untouched.
// Read-only fields (is_superuser, date_joined, last_login) have no counterpart
// here, so posting them is silently ignored.
type updateInput struct {
	Email     *string `json:"email"      validate:"omitempty,email,max=255"`
	Password  *string `json:"password"   validate:"omitempty,min=8"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active"`
	IsStaff   *bool   `json:"is_staff"`
}

// setGroupsInput carries the full replacement membership set. An absent or
// empty list clears all memberships.
type setGroupsInput struct {
	Groups []uint64 `json:"groups"`
}

// setPermissionsInput carries the full replacement grant set. An absent or
// empty list clears all direct grants.
type setPermissionsInput struct {
	Permissions []uint64 `json:"permissions"`
}

// summary is the list shape of a user: identifying fields plus nested group
// summaries. Permission detail and the superuser flag are reserved for the
// detail shape.
type summary struct {
	ID         uint64                 `json:"id"`
	Email      string                 `json:"email"`
	FirstName  string                 `json:"first_name"`
	LastName   string                 `json:"last_name"`
	IsActive   bool                   `json:"is_active"`
	IsStaff    bool                   `json:"is_staff"`
	Groups     []handler.GroupSummary `json:"groups"`
	DateJoined time.Time              `json:"date_joined"`
	LastLogin  *time.Time             `json:"last_login"`
}

// detail is the retrieve shape: the summary plus the superuser flag and the
// user's direct permission grants in full detail.
type detail struct {
	summary
	IsSuperuser     bool                       `json:"is_superuser"`
	UserPermissions []handler.PermissionDetail `json:"user_permissions"`
}

func newSummary(u *models.User, groups []models.Group) summary {
	return summary{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsActive:   u.IsActive,
		IsStaff:    u.IsStaff,
		Groups:     handler.NewGroupSummaries(groups),
		DateJoined: u.DateJoined,
		LastLogin:  u.LastLogin,
	}
}

func newDetail(u *models.User, groups []models.Group, permissions []models.Permission) detail {
	return detail{
		summary:         newSummary(u, groups),
		IsSuperuser:     u.IsSuperuser,
		UserPermissions: handler.NewPermissionDetails(permissions),
	}
}
