package user

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Permission{},
		&models.UserGroup{},
		&models.UserPermission{},
	))

	cfg := &config.Config{
		Auth:      config.Auth{Secret: "test-secret", TokenTTLMinutes: 60},
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	app := fiber.New()
	authService := auth.NewService(db, auth.NewTokenIssuer(cfg.Auth.Secret, time.Hour))

	var s Service
	s.Init(app, cfg, db, authService)

	return app, db
}

// staffToken provisions a staff account and returns a token for it.
func staffToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	u, err := usercontroller.Create(db, "admin@example.com", models.HashPassword("admin-pw-123"), "Admin", "User")
	require.NoError(t, err)

	staff := true
	_, err = usercontroller.Apply(db, u.ID, usercontroller.Update{IsStaff: &staff})
	require.NoError(t, err)

	token, err := auth.NewTokenIssuer("test-secret", time.Hour).Generate(u.ID)
	require.NoError(t, err)

	return token
}

func doRequest(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestGuard(t *testing.T) {
	app, db := newTestApp(t)

	// No token
	resp := doRequest(t, app, http.MethodGet, Path, "", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Garbage token
	resp = doRequest(t, app, http.MethodGet, Path, "not-a-token", "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Valid token, but not staff
	u, err := usercontroller.Create(db, "plain@example.com", models.HashPassword("plain-pw-123"), "Plain", "User")
	require.NoError(t, err)
	token, err := auth.NewTokenIssuer("test-secret", time.Hour).Generate(u.ID)
	require.NoError(t, err)

	resp = doRequest(t, app, http.MethodGet, Path, token, "")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Staff passes
	resp = doRequest(t, app, http.MethodGet, Path, staffToken(t, db), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreate(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	resp := doRequest(t, app, http.MethodPost, Path, token,
		`{"email":"alice@example.com","password":"s3cret-pw","first_name":"Alice","last_name":"Smith"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// The credential must never appear in a response
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "s3cret-pw")

	var body detail
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotZero(t, body.ID)
	assert.Equal(t, "alice@example.com", body.Email)
	assert.True(t, body.IsActive)
	assert.False(t, body.IsStaff)
	assert.False(t, body.IsSuperuser)
	assert.NotNil(t, body.Groups)
	assert.Empty(t, body.Groups)
	assert.NotNil(t, body.UserPermissions)
	assert.Empty(t, body.UserPermissions)
}

func TestCreateFailures(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	resp := doRequest(t, app, http.MethodPost, Path, token,
		`{"email":"alice@example.com","password":"s3cret-pw"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	testCases := []struct {
		name     string
		body     string
		expected int
	}{
		{"duplicate email", `{"email":"alice@example.com","password":"s3cret-pw"}`, fiber.StatusConflict},
		{"missing password", `{"email":"bob@example.com"}`, fiber.StatusBadRequest},
		{"short password", `{"email":"bob@example.com","password":"short"}`, fiber.StatusBadRequest},
		{"not an email", `{"email":"bob","password":"s3cret-pw"}`, fiber.StatusBadRequest},
		{"malformed json", `{"email":`, fiber.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, Path, token, tc.body)
			require.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}

func TestListAndRetrieveShapes(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	u, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	g := models.Group{Name: "admins"}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Create(&models.UserGroup{UserID: u.ID, GroupID: g.ID}).Error)

	p := models.Permission{Codename: "view_user", Name: "Can view user", ContentType: "user"}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.UserPermission{UserID: u.ID, PermissionID: p.ID}).Error)

	// List: summary shape carries groups but no permission detail
	resp := doRequest(t, app, http.MethodGet, Path, token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []map[string]any
	decodeJSON(t, resp, &list)
	require.Len(t, list, 2) // the staff account and alice

	var aliceRow map[string]any
	for _, row := range list {
		if row["email"] == "alice@example.com" {
			aliceRow = row
		}
	}
	require.NotNil(t, aliceRow)
	assert.Contains(t, aliceRow, "groups")
	assert.NotContains(t, aliceRow, "user_permissions")
	assert.NotContains(t, aliceRow, "is_superuser")

	// Retrieve: detail shape adds the superuser flag and permission detail
	resp = doRequest(t, app, http.MethodGet, fmt.Sprintf("%s/%d", Path, u.ID), token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body detail
	decodeJSON(t, resp, &body)
	assert.Equal(t, u.ID, body.ID)
	assert.False(t, body.IsSuperuser)
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "admins", body.Groups[0].Name)
	require.Len(t, body.UserPermissions, 1)
	assert.Equal(t, "view_user", body.UserPermissions[0].Codename)
}

func TestRetrieveNotFound(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	testCases := []struct {
		name   string
		target string
	}{
		{"unknown id", Path + "/99999"},
		{"zero id", Path + "/0"},
		{"malformed id", Path + "/abc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, tc.target, token, "")
			require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestUpdate(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)
	_, err = usercontroller.Create(db, "bob@example.com", models.HashPassword("s3cret-pw"), "Bob", "Jones")
	require.NoError(t, err)

	target := fmt.Sprintf("%s/%d", Path, alice.ID)

	// Partial update
	resp := doRequest(t, app, http.MethodPatch, target, token, `{"first_name":"Alicia","is_staff":true}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body detail
	decodeJSON(t, resp, &body)
	assert.Equal(t, "Alicia", body.FirstName)
	assert.Equal(t, "Smith", body.LastName)
	assert.True(t, body.IsStaff)

	// Email collision
	resp = doRequest(t, app, http.MethodPatch, target, token, `{"email":"bob@example.com"}`)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Unknown id
	resp = doRequest(t, app, http.MethodPatch, Path+"/99999", token, `{"first_name":"Nobody"}`)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUpdateIgnoresReadOnlyFields(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodPatch, fmt.Sprintf("%s/%d", Path, alice.ID), token,
		`{"is_superuser":true,"date_joined":"1999-01-01T00:00:00Z","first_name":"Alicia"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body detail
	decodeJSON(t, resp, &body)
	// The writable field applies, the read-only ones do not
	assert.Equal(t, "Alicia", body.FirstName)
	assert.False(t, body.IsSuperuser)
	assert.WithinDuration(t, alice.DateJoined, body.DateJoined, time.Second)
}

func TestUpdatePassword(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("old-password"), "Alice", "Smith")
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodPatch, fmt.Sprintf("%s/%d", Path, alice.ID), token,
		`{"password":"new-password"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	updated, err := usercontroller.GetByID(db, alice.ID)
	require.NoError(t, err)
	assert.True(t, updated.VerifyPassword("new-password"))
	assert.False(t, updated.VerifyPassword("old-password"))
	assert.NotEqual(t, "new-password", updated.Password)
}

func TestDelete(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", Path, alice.ID), token, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	_, err = usercontroller.GetByID(db, alice.ID)
	require.ErrorIs(t, err, usercontroller.ErrUserNotFound)

	// Delete is not idempotent: the second call is a miss
	resp = doRequest(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", Path, alice.ID), token, "")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetGroups(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	g1 := models.Group{Name: "admins"}
	g2 := models.Group{Name: "auditors"}
	require.NoError(t, db.Create(&g1).Error)
	require.NoError(t, db.Create(&g2).Error)

	target := fmt.Sprintf("%s/%d/set_groups", Path, alice.ID)

	// Unknown ids are skipped, known ones apply
	resp := doRequest(t, app, http.MethodPost, target, token,
		fmt.Sprintf(`{"groups":[%d,%d,99999]}`, g1.ID, g2.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ack map[string]string
	decodeJSON(t, resp, &ack)
	assert.Equal(t, "groups set", ack["status"])

	groups, err := usercontroller.Groups(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Absent list clears everything
	resp = doRequest(t, app, http.MethodPost, target, token, `{}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	groups, err = usercontroller.Groups(db, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)

	// Unknown subject
	resp = doRequest(t, app, http.MethodPost, Path+"/99999/set_groups", token, `{"groups":[]}`)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetPermissions(t *testing.T) {
	app, db := newTestApp(t)
	token := staffToken(t, db)

	alice, err := usercontroller.Create(db, "alice@example.com", models.HashPassword("s3cret-pw"), "Alice", "Smith")
	require.NoError(t, err)

	p := models.Permission{Codename: "view_user", Name: "Can view user", ContentType: "user"}
	require.NoError(t, db.Create(&p).Error)

	target := fmt.Sprintf("%s/%d/set_permissions", Path, alice.ID)

	resp := doRequest(t, app, http.MethodPost, target, token,
		fmt.Sprintf(`{"permissions":[%d,%d]}`, p.ID, p.ID))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ack map[string]string
	decodeJSON(t, resp, &ack)
	assert.Equal(t, "permissions set", ack["status"])

	// Duplicate input ids collapse to one grant
	permissions, err := usercontroller.Permissions(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, permissions, 1)
	assert.Equal(t, "view_user", permissions[0].Codename)
}
