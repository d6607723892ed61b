package models

import "time"

// Permission represents an atomic capability in the authorization system.
// Permissions are provisioned by the daemon's seed step and are read-only over
// the HTTP surface. They are granted directly to users or through groups.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey"`
	// Codename is the unique machine key in action_resource format (e.g., "add_user").
	Codename string `gorm:"unique;size:100;not null"`
	// Name is the human-readable permission label (e.g., "Can add user").
	Name string `gorm:"size:255;not null"`
	// ContentType is the entity kind this permission governs (e.g., "user", "group").
	ContentType string `gorm:"size:100;not null"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
// This overrides GORM's default pluralized table naming.
func (Permission) TableName() string {
	return "permissions"
}
