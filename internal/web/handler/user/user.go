// Package user provides the management endpoints for user accounts.
package user

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// Path is the collection path for user management.
const Path = handler.APIRootPath + "/users"

// Service provides CRUD and assignment operations for users.
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
	app.Post(Path+"/:id/set_groups", guard, s.SetGroups)
	app.Post(Path+"/:id/set_permissions", guard, s.SetPermissions)
}

// List returns all users in summary shape.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := usercontroller.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to list users")
	}

	out := make([]summary, 0, len(users))

	for i := range users {
		groups, err := usercontroller.Groups(s.db, users[i].ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", users[i].ID).Msg("failed to load user groups")
			return handler.Detail(c, fiber.StatusInternalServerError, "failed to list users")
		}

		out = append(out, newSummary(&users[i], groups))
	}

	return c.JSON(out)
}

// Create creates a new user account from email and password.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "email and a password of at least 8 characters are required")
	}

	created, err := usercontroller.Create(s.db, in.Email, models.HashPassword(in.Password), in.FirstName, in.LastName)
	if err != nil {
		if errors.Is(err, usercontroller.ErrEmailExists) {
			return handler.Detail(c, fiber.StatusConflict, "user with email already exists")
		}

		log.Error().Err(err).Msg("failed to create user")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to create user")
	}

	// A fresh account has no memberships or grants yet.
	return c.Status(fiber.StatusCreated).JSON(newDetail(created, nil, nil))
}

// Retrieve returns one user in detail shape, including the superuser flag and
// direct permission grants.
func (s *Service) Retrieve(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "user not found")
	}

	u, err := usercontroller.GetByID(s.db, id)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to load user")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load user")
	}

	return s.renderDetail(c, u)
}

// Update applies a partial update. Read-only fields posted in the payload are
// ignored rather than rejected.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "user not found")
	}

	var in updateInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid field value")
	}

	update := usercontroller.Update{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  in.IsActive,
		IsStaff:   in.IsStaff,
	}

	if in.Password != nil {
		hashed := models.HashPassword(*in.Password)
		update.Password = &hashed
	}

	u, err := usercontroller.Apply(s.db, id, update)
	if err != nil {
		switch {
		case errors.Is(err, usercontroller.ErrUserNotFound):
			return handler.Detail(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, usercontroller.ErrEmailExists):
			return handler.Detail(c, fiber.StatusConflict, "user with email already exists")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to update user")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return s.renderDetail(c, u)
}

// Delete removes a user and its membership and grant relations.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "user not found")
	}

	if err := usercontroller.Delete(s.db, id); err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to delete user")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to delete user")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// renderDetail loads the user's relations and writes the detail shape.
func (s *Service) renderDetail(c *fiber.Ctx, u *models.User) error {
	groups, err := usercontroller.Groups(s.db, u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to load user groups")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load user")
	}

	permissions, err := usercontroller.Permissions(s.db, u.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to load user permissions")
		return handler.Detail(c, fiber.StatusInternalServerError, "failed to load user")
	}

	return c.JSON(newDetail(u, groups, permissions))
}
