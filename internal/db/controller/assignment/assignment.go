// Package assignment implements bulk replacement of the three relation sets:
// a user's group memberships, a user's direct permission grants, and a group's
// permission grants. All three share one replace algorithm: clear the existing
// set, then re-add a row per supplied target id that resolves, skipping
// unknown ids. The whole replace runs inside a single transaction so a
// concurrent reader never observes the cleared intermediate state.
package assignment

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

var (
	// ErrSubjectNotFound is returned when the user or group whose relation set
	// is being replaced does not exist. Unknown target ids never produce an
	// error; they are skipped.
	ErrSubjectNotFound = errors.New("assignment subject not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// SetUserGroups replaces the full group-membership set of a user with the
// given group ids. An empty list clears all memberships.
func SetUserGroups(db *gorm.DB, userID uint64, groupIDs []uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if err := subjectExists(db, &models.User{}, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return replaceSet(groupIDs,
			func() error {
				return tx.Where("user_id = ?", userID).Delete(&models.UserGroup{}).Error
			},
			func(id uint64) (bool, error) {
				return targetExists(tx, &models.Group{}, id)
			},
			func(id uint64) error {
				return tx.Create(&models.UserGroup{UserID: userID, GroupID: uint(id)}).Error
			},
		)
	})
}

// SetUserPermissions replaces the full direct-permission-grant set of a user
// with the given permission ids. An empty list clears all direct grants.
func SetUserPermissions(db *gorm.DB, userID uint64, permissionIDs []uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if err := subjectExists(db, &models.User{}, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return replaceSet(permissionIDs,
			func() error {
				return tx.Where("user_id = ?", userID).Delete(&models.UserPermission{}).Error
			},
			func(id uint64) (bool, error) {
				return targetExists(tx, &models.Permission{}, id)
			},
			func(id uint64) error {
				return tx.Create(&models.UserPermission{UserID: userID, PermissionID: uint(id)}).Error
			},
		)
	})
}

// SetGroupPermissions replaces the full permission-grant set of a group with
// the given permission ids. An empty list clears all grants.
func SetGroupPermissions(db *gorm.DB, groupID uint, permissionIDs []uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if err := subjectExists(db, &models.Group{}, uint64(groupID)); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return replaceSet(permissionIDs,
			func() error {
				return tx.Where("group_id = ?", groupID).Delete(&models.GroupPermission{}).Error
			},
			func(id uint64) (bool, error) {
				return targetExists(tx, &models.Permission{}, id)
			},
			func(id uint64) error {
				return tx.Create(&models.GroupPermission{GroupID: groupID, PermissionID: uint(id)}).Error
			},
		)
	})
}

// replaceSet is the shared replace algorithm: full replace, not a merge.
// Omitted ids are removed even if present before the call, duplicate input ids
// collapse (the relation is a set), and ids that do not resolve are skipped
// without error.
func replaceSet(
	ids []uint64,
	clear func() error,
	resolve func(id uint64) (bool, error),
	add func(id uint64) error,
) error {
	if err := clear(); err != nil {
		return err
	}

	seen := make(map[uint64]struct{}, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		found, err := resolve(id)
		if err != nil {
			return err
		}
		if !found {
			// best-effort: unknown targets are silently skipped
			continue
		}

		if err := add(id); err != nil {
			return err
		}
	}

	return nil
}

// subjectExists verifies that the entity whose relation set is being replaced
// exists, translating absence into ErrSubjectNotFound.
func subjectExists(db *gorm.DB, model any, id uint64) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSubjectNotFound
	}

	return nil
}

// targetExists reports whether a candidate relation target exists.
func targetExists(tx *gorm.DB, model any, id uint64) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
