package permission

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	permissioncontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/permission"
	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Permission{}))

	cfg := &config.Config{
		Auth:      config.Auth{Secret: "test-secret", TokenTTLMinutes: 60},
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost:8080"},
	}

	app := fiber.New()
	authService := auth.NewService(db, auth.NewTokenIssuer(cfg.Auth.Secret, time.Hour))

	var s Service
	s.Init(app, cfg, db, authService)

	u, err := usercontroller.Create(db, "admin@example.com", models.HashPassword("admin-pw-123"), "Admin", "User")
	require.NoError(t, err)
	staff := true
	_, err = usercontroller.Apply(db, u.ID, usercontroller.Update{IsStaff: &staff})
	require.NoError(t, err)

	token, err := auth.NewTokenIssuer("test-secret", time.Hour).Generate(u.ID)
	require.NoError(t, err)

	return app, db, token
}

func doRequest(t *testing.T, app *fiber.App, target, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test failed")

	return resp
}

func TestGuard(t *testing.T) {
	app, _, token := newTestApp(t)

	resp := doRequest(t, app, Path, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, Path, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestList(t *testing.T) {
	app, db, token := newTestApp(t)

	resp := doRequest(t, app, Path, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var list []handler.PermissionDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list)

	_, err := permissioncontroller.Ensure(db, "add_user", "Can add user", "user")
	require.NoError(t, err)
	_, err = permissioncontroller.Ensure(db, "view_user", "Can view user", "user")
	require.NoError(t, err)

	resp = doRequest(t, app, Path, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	assert.Equal(t, "add_user", list[0].Codename)
	assert.Equal(t, "view_user", list[1].Codename)
}

func TestRetrieve(t *testing.T) {
	app, db, token := newTestApp(t)

	p, err := permissioncontroller.Ensure(db, "view_user", "Can view user", "user")
	require.NoError(t, err)

	resp := doRequest(t, app, fmt.Sprintf("%s/%d", Path, p.ID), token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body handler.PermissionDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, p.ID, body.ID)
	assert.Equal(t, "view_user", body.Codename)
	assert.Equal(t, "Can view user", body.Name)
	assert.Equal(t, "user", body.ContentType)

	for _, target := range []string{Path + "/99999", Path + "/0", Path + "/abc"} {
		resp := doRequest(t, app, target, token)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	}
}

func TestNoMutationRoutes(t *testing.T) {
	app, _, token := newTestApp(t)

	// The catalogue is read-only: no POST, PATCH or DELETE is registered
	for _, method := range []string{http.MethodPost, http.MethodPatch, http.MethodDelete} {
		req := httptest.NewRequest(method, Path+"/1", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	}
}
