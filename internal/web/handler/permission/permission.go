// Package permission provides the read-only endpoints for permissions.
// The catalogue is provisioned by the daemon's seed step; this API never
// creates, updates or deletes permissions.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	permissioncontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/permission"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// Path is the collection path for permissions.
const Path = handler.APIRootPath + "/permissions"

// Service provides read access to the permission catalogue.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. Every route sits behind the staff guard.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	guard := auth.RequireStaff(authService)

	app.Get(Path, guard, s.List)
	app.Get(Path+"/:id", guard, s.Retrieve)
}

// List returns the full permission catalogue.
func (s *Service) List(c *fiber.Ctx) error {
	permissions, err := permissioncontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list permissions")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to list permissions")
	}

	return c.JSON(handler.NewPermissionDetails(permissions))
}

// Retrieve returns one permission.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "permission not found")
	}

	p, err := permissioncontroller.GetByID(s.db, uint(id))
	if err != nil {
		if errors.Is(err, permissioncontroller.ErrPermissionNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "permission not found")
		}

		log.Error().Err(err).Uint64("permission_id", id).Msg("failed to load permission")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load permission")
	}

	return c.JSON(handler.NewPermissionDetail(p))
}
