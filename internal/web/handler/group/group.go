// Package group provides the management endpoints for groups.
package group

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/assignment"
	groupcontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/group"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// Path is the collection path for group management.
const Path = handler.APIRootPath + "/groups"

// Service provides CRUD and assignment operations for groups.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
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
	s.validator = validator.New()

	guard := auth.RequireStaff(authService)

	app.Get(Path, guard, s.List)
	app.Post(Path, guard, s.Create)
	app.Get(Path+"/:id", guard, s.Retrieve)
	app.Patch(Path+"/:id", guard, s.Update)
	app.Delete(Path+"/:id", guard, s.Delete)
	app.Post(Path+"/:id/set_permissions", guard, s.SetPermissions)
}

// List returns all groups in summary shape (id and name only).
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := groupcontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list groups")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to list groups")
	}

	return c.JSON(handler.NewGroupSummaries(groups))
}

// Create creates a new group with a unique name.
func (s *Service) Create(c *fiber.Ctx) error {
	var in nameInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "name is required")
	}

	created, err := groupcontroller.Create(s.db, in.Name)
	if err != nil {
		if errors.Is(err, groupcontroller.ErrGroupNameExists) {
			return handler.Detail(c, fiber.StatusConflict, "group with name already exists")
		}

		log.Error().Err(err).Msg("failed to create group")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to create group")
	}

	return c.Status(fiber.StatusCreated).JSON(handler.NewGroupSummary(created))
}

// Retrieve returns one group in detail shape with its full permission list.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "group not found")
	}

	g, err := groupcontroller.GetByID(s.db, uint(id))
	if err != nil {
		if errors.Is(err, groupcontroller.ErrGroupNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "group not found")
		}

		log.Error().Err(err).Uint64("group_id", id).Msg("failed to load group")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load group")
	}

	permissions, err := groupcontroller.Permissions(s.db, g.ID)
	if err != nil {
		log.Error().Err(err).Uint64("group_id", id).Msg("failed to load group permissions")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load group")
	}

	return c.JSON(newDetail(g, permissions))
}

// Update renames a group.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "group not found")
	}

	var in nameInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "name is required")
	}

	g, err := groupcontroller.Rename(s.db, uint(id), in.Name)
	if err != nil {
		switch {
		case errors.Is(err, groupcontroller.ErrGroupNotFound):
			return handler.Detail(c, fiber.StatusNotFound, "group not found")
		case errors.Is(err, groupcontroller.ErrGroupNameExists):
			return handler.Detail(c, fiber.StatusConflict, "group with name already exists")
		}

		log.Error().Err(err).Uint64("group_id", id).Msg("failed to update group")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to update group")
	}

	return c.JSON(handler.NewGroupSummary(g))
}

// Delete removes a group. Memberships and grants referencing it go with it,
// so no user keeps a dangling reference.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "group not found")
	}

	if err := groupcontroller.Delete(s.db, uint(id)); err != nil {
		if errors.Is(err, groupcontroller.ErrGroupNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "group not found")
		}

		log.Error().Err(err).Uint64("group_id", id).Msg("failed to delete group")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to delete group")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetPermissions replaces the group's full permission-grant set. Unknown
// permission ids are skipped; an absent or empty list clears every grant.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "group not found")
	}

	var in setPermissionsInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := assignment.SetGroupPermissions(s.db, uint(id), in.Permissions); err != nil {
		if errors.Is(err, assignment.ErrSubjectNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "group not found")
		}

		log.Error().Err(err).Uint64("group_id", id).Msg("failed to set group permissions")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to set permissions")
	}

	return handler.Status(c, "permissions set")
}
