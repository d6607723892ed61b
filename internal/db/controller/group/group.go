// Package group provides CRUD operations for managing groups.
package group

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
	groupIDPattern   = "group_id = ?"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupNameEmpty is returned when attempting to create/rename a group with an empty name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
	// ErrGroupNameExists is returned when the group name is already taken.
	ErrGroupNameExists = errors.New("group with name already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a group by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var g models.Group
	result := db.First(&g, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &g, nil
}

// GetAll retrieves all groups ordered by ID.
func GetAll(db *gorm.DB) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group
	result := db.Order("id ASC").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Create creates a new group with the given name.
func Create(db *gorm.DB, name string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	// Check if the name is already taken
	var existing models.Group
	result := db.Where(nameQueryPattern, name).First(&existing)
	if result.Error == nil {
		return nil, ErrGroupNameExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	g := &models.Group{Name: name}

	result = db.Create(g)
	if result.Error != nil {
		return nil, result.Error
	}

	return g, nil
}

// Rename changes the name of an existing group.
func Rename(db *gorm.DB, id uint, name string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	var g models.Group
	result := db.First(&g, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	if name != g.Name {
		var count int64
		if err := db.Model(&models.Group{}).
			Where("name = ? AND id <> ?", name, id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrGroupNameExists
		}
	}

	g.Name = name

	result = db.Save(&g)
	if result.Error != nil {
		return nil, result.Error
	}

	return &g, nil
}

// Delete deletes a group by ID together with all user memberships and
// permission grants, so no user keeps a reference to a vanished group.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Group{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}

		if err := tx.Where(groupIDPattern, id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Where(groupIDPattern, id).Delete(&models.GroupPermission{}).Error
	})
}

// Permissions retrieves all permissions granted to the group.
func Permissions(db *gorm.DB, id uint) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var permissions []models.Permission
	err := db.Table("permissions").
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Where("group_permissions.group_id = ?", id).
		Order("permissions.id ASC").
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	return permissions, nil
}
