// Package permission provides read access and provisioning for permissions.
// Permissions are not created or deleted over HTTP; the daemon seeds the
// catalogue at startup and handlers only read it.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

const codenameQueryPattern = "codename = ?"

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrCodenameEmpty is returned when provisioning a permission with an empty codename.
	ErrCodenameEmpty = errors.New("permission codename cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a permission by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Permission
	result := db.First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetByCodename retrieves a permission by its unique codename.
func GetByCodename(db *gorm.DB, codename string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if codename == "" {
		return nil, ErrCodenameEmpty
	}

	var p models.Permission
	result := db.Where(codenameQueryPattern, codename).First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// GetAll retrieves all permissions ordered by ID.
func GetAll(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var permissions []models.Permission
	result := db.Order("id ASC").Find(&permissions)
	if result.Error != nil {
		return nil, result.Error
	}

	return permissions, nil
}

// Ensure creates the permission if it does not exist yet, or updates its name
// and content type if it does (upsert by codename). Used by the seed step.
func Ensure(db *gorm.DB, codename, name, contentType string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if codename == "" {
		return nil, ErrCodenameEmpty
	}

	var p models.Permission
	result := db.Where(codenameQueryPattern, codename).First(&p)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		p = models.Permission{
			Codename:    codename,
			Name:        name,
			ContentType: contentType,
		}
		if err := db.Create(&p).Error; err != nil {
			return nil, err
		}

		return &p, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	p.Name = name
	p.ContentType = contentType

	if err := db.Save(&p).Error; err != nil {
		return nil, err
	}

	return &p, nil
}
