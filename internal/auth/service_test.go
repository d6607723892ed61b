package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

// setupTestService creates an auth service backed by an in-memory SQLite
// database.
func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return NewService(db, NewTokenIssuer("test-secret", time.Hour)), db
}

func TestAuthenticate(t *testing.T) {
	svc, db := setupTestService(t)

	active, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	disabled, err := usercontroller.Create(db, "mallory@example.com", models.HashPassword("s3cret-pw"), "Mallory", "Brown")
	require.NoError(t, err)
	inactive := false
	_, err = usercontroller.Apply(db, disabled.ID, usercontroller.Update{IsActive: &inactive})
	require.NoError(t, err)

	testCases := []struct {
		name          string
		email         string
		password      string
		expectedError error
	}{
		{
			name:          "unknown email",
			email:         "nobody@example.com",
			password:      "s3cret-pw",
			expectedError: ErrUserNotFound,
		},
		{
			name:          "disabled account",
			email:         "mallory@example.com",
			password:      "s3cret-pw",
			expectedError: ErrUserAccountDisabled,
		},
		{
			name:          "wrong password",
			email:         "alice@example.com",
			password:      "wrong-pw",
			expectedError: ErrInvalidPassword,
		},
		{
			name:     "successful authentication",
			email:    "alice@example.com",
			password: "s3cret-pw",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, token, err := svc.Authenticate(tc.email, tc.password)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, u)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, u)
			require.NotEmpty(t, token)
			assert.Equal(t, active.ID, u.ID)
		})
	}
}

func TestAuthenticateStampsLastLogin(t *testing.T) {
	svc, db := setupTestService(t)

	u, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)
	require.Nil(t, u.LastLogin)

	_, _, err = svc.Authenticate("alice@example.com", "s3cret-pw")
	require.NoError(t, err)

	u, err = usercontroller.GetByID(db, u.ID)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
}

func TestPrincipal(t *testing.T) {
	svc, db := setupTestService(t)

	u, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	_, token, err := svc.Authenticate("alice@example.com", "s3cret-pw")
	require.NoError(t, err)

	principal, err := svc.Principal(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, principal.ID)

	_, err = svc.Principal("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalRejectsDeactivatedAccount(t *testing.T) {
	svc, db := setupTestService(t)

	u, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	_, token, err := svc.Authenticate("alice@example.com", "s3cret-pw")
	require.NoError(t, err)

	// A token issued before deactivation must stop working
	inactive := false
	_, err = usercontroller.Apply(db, u.ID, usercontroller.Update{IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Principal(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestPrincipalRejectsDeletedAccount(t *testing.T) {
	svc, db := setupTestService(t)

	u, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	_, token, err := svc.Authenticate("alice@example.com", "s3cret-pw")
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, u.ID).Error)

	_, err = svc.Principal(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
