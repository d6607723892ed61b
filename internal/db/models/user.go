package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents an account in the identity store.
// The email address doubles as the login identifier. Staff accounts may call
// the management API; superusers implicitly hold every permission and can only
// be provisioned through the createsuperuser command, never over HTTP.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is the unique login identifier.
	Email string `gorm:"unique;size:255;not null"`
	// Password is the Argon2id hashed password. Never serialized.
	Password string `gorm:"size:255"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// IsActive gates login. Inactive accounts are refused a token.
	IsActive bool `gorm:"not null;default:true"`
	// IsStaff gates access to the management API.
	IsStaff bool `gorm:"not null;default:false"`
	// IsSuperuser marks an account as implicitly holding all permissions.
	// Read-only over the HTTP surface.
	IsSuperuser bool `gorm:"not null;default:false"`
	// DateJoined is set once at account creation.
	DateJoined time.Time `gorm:"not null"`
	// LastLogin is maintained by the authentication issuer on token grants.
	LastLogin *time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
