package models

import "time"

// UserPermission represents a permission granted directly to a user,
// independent of any group membership. The composite primary key keeps the
// relation free of duplicate (user, permission) pairs.
type UserPermission struct {
	// UserID is the ID of the user holding the grant.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// PermissionID is the ID of the granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, all their direct grants are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the grant was made (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the UserPermission model.
// This overrides GORM's default pluralized table naming.
func (UserPermission) TableName() string {
	return "user_permissions"
}
