package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/assignment"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// SetGroups replaces the user's full group-membership set. Ids that do not
// resolve to a group are skipped; an absent or empty list clears every
// membership. Callers re-fetch the user to see the new state.
func (s *Service) SetGroups(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "user not found")
	}

	var in setGroupsInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := assignment.SetUserGroups(s.db, id, in.Groups); err != nil {
		if errors.Is(err, assignment.ErrSubjectNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to set user groups")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to set groups")
	}

	return handler.Status(c, "groups set")
}

// SetPermissions replaces the user's full direct-permission-grant set with
// the same best-effort semantics as SetGroups.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	id, ok := handler.ParseID(c)
	if !ok {
		return handler.Detail(c, fiber.StatusNotFound, "user not found")
	}

	var in setPermissionsInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := assignment.SetUserPermissions(s.db, id, in.Permissions); err != nil {
		if errors.Is(err, assignment.ErrSubjectNotFound) {
			return handler.Detail(c, fiber.StatusNotFound, "user not found")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to set user permissions")

		return handler.Detail(c, fiber.StatusInternalServerError, "failed to set permissions")
	}

	return handler.Status(c, "permissions set")
}
