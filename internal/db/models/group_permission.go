package models

import "time"

// GroupPermission represents a permission granted to a group. Every member of
// the group inherits the grant. The composite primary key keeps the relation
// free of duplicate (group, permission) pairs.
type GroupPermission struct {
	// GroupID is the ID of the group holding the grant.
	GroupID uint `gorm:"primaryKey;column:group_id"`
	// PermissionID is the ID of the granted permission.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, all its grants are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the grant was made (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupPermission model.
// This overrides GORM's default pluralized table naming.
func (GroupPermission) TableName() string {
	return "group_permissions"
}
