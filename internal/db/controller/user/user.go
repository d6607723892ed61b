// Package user provides CRUD operations for managing user accounts.
package user

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
	userIDPattern     = "user_id = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailEmpty is returned when attempting to create a user with an empty email.
	ErrEmailEmpty = errors.New("user email cannot be empty")
	// ErrEmailExists is returned when the email is already taken by another account.
	ErrEmailExists = errors.New("user with email already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a user by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetByEmail retrieves a user by its email address.
func GetByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" {
		return nil, ErrEmailEmpty
	}

	var u models.User
	result := db.Where(emailQueryPattern, email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &u, nil
}

// GetAll retrieves all users ordered by ID.
func GetAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	result := db.Order("id ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Create creates a new user account. The password must already be hashed by
// the caller (see models.HashPassword). DateJoined is set here, once.
func Create(db *gorm.DB, email, hashedPassword, firstName, lastName string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" {
		return nil, ErrEmailEmpty
	}

	// Check if the email is already taken
	var existing models.User
	result := db.Where(emailQueryPattern, email).First(&existing)
	if result.Error == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	u := &models.User{
		Email:      email,
		Password:   hashedPassword,
		FirstName:  firstName,
		LastName:   lastName,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}

	result = db.Create(u)
	if result.Error != nil {
		return nil, result.Error
	}

	return u, nil
}

// Update describes a partial update of a user. Nil fields are left untouched.
// IsSuperuser, DateJoined and LastLogin have no counterpart here on purpose:
// they are not settable through the mutation surface.
type Update struct {
	Email     *string
	Password  *string // already hashed
	FirstName *string
	LastName  *string
	IsActive  *bool
	IsStaff   *bool
}

// Apply applies a partial update to the user with the given ID and returns the
// updated record.
func Apply(db *gorm.DB, id uint64, update Update) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	if update.Email != nil && *update.Email != u.Email {
		// Changing the login identifier must not collide with another account
		var count int64
		if err := db.Model(&models.User{}).
			Where("email = ? AND id <> ?", *update.Email, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}

		u.Email = *update.Email
	}

	if update.Password != nil {
		u.Password = *update.Password
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.IsActive != nil {
		u.IsActive = *update.IsActive
	}
	if update.IsStaff != nil {
		u.IsStaff = *update.IsStaff
	}

	result = db.Save(&u)
	if result.Error != nil {
		return nil, result.Error
	}

	return &u, nil
}

// Delete deletes a user by ID together with its group memberships and direct
// permission grants. The explicit junction cleanup keeps the store free of
// dangling references on engines that do not enforce foreign keys.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		if err := tx.Where(userIDPattern, id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Where(userIDPattern, id).Delete(&models.UserPermission{}).Error
	})
}

// RecordLogin stamps the user's LastLogin. Called by the authentication issuer
// after a successful token grant.
func RecordLogin(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", time.Now().UTC()).Error
}

// Groups retrieves all groups the user is a member of.
func Groups(db *gorm.DB, id uint64) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group
	err := db.Table("groups").
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", id).
		Order("groups.id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Permissions retrieves the permissions granted directly to the user.
// Grants inherited through groups are not included.
func Permissions(db *gorm.DB, id uint64) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var permissions []models.Permission
	err := db.Table("permissions").
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ?", id).
		Order("permissions.id ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	return permissions, nil
}
