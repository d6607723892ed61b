package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	permissioncontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/permission"
	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

// ErrSuperuserExists is returned when provisioning a superuser with an email
// that is already taken.
var ErrSuperuserExists = errors.New("superuser email already taken")

// builtinPermissions is the permission catalogue provisioned at startup.
// Permissions are read-only over HTTP; this is the only place they come from.
var builtinPermissions = []struct {
	codename    string
	name        string
	contentType string
}{
	{"add_user", "Can add user", "user"},
	{"change_user", "Can change user", "user"},
	{"delete_user", "Can delete user", "user"},
	{"view_user", "Can view user", "user"},
	{"add_group", "Can add group", "group"},
	{"change_group", "Can change group", "group"},
	{"delete_group", "Can delete group", "group"},
	{"view_group", "Can view group", "group"},
	{"view_permission", "Can view permission", "permission"},
}

// seed upserts the built-in permission catalogue.
func seed(db *gorm.DB) {
	for _, p := range builtinPermissions {
		if _, err := permissioncontroller.Ensure(db, p.codename, p.name, p.contentType); err != nil {
			log.Fatal().Err(err).Str("codename", p.codename).Msg("failed to seed permission")
		}
	}

	log.Info().Int("count", len(builtinPermissions)).Msg("permission catalogue seeded")
}

// CreateSuperuser provisions an active staff superuser account. This is the
// only path that sets the superuser flag; the HTTP surface treats it as
// read-only.
func CreateSuperuser(db *gorm.DB, email, password, firstName, lastName string) (*models.User, error) {
	u, err := usercontroller.Create(db, email, models.HashPassword(password), firstName, lastName)
	if err != nil {
		if errors.Is(err, usercontroller.ErrEmailExists) {
			return nil, ErrSuperuserExists
		}
		return nil, err
	}

	err = db.Model(&models.User{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{"is_staff": true, "is_superuser": true}).Error
	if err != nil {
		return nil, err
	}

	u.IsStaff = true
	u.IsSuperuser = true

	return u, nil
}
