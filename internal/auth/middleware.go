package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

// principalLocalKey is the fiber.Locals key the middleware stores the
// authenticated account under.
const principalLocalKey = "principal"

const bearerPrefix = "Bearer "

// RequireStaff creates Fiber middleware implementing the access control
// guard: a missing or invalid bearer token yields 401, a valid token for a
// non-staff account yields 403, a staff account proceeds. The resolved
// principal is attached to the request locals for handlers to read.
func RequireStaff(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "authentication required",
			})
		}

		principal, err := authService.Principal(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				log.Error().Err(err).Msg("failed to resolve principal")

				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"detail": "internal server error",
				})
			}

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "authentication required",
			})
		}

		if !principal.IsStaff {
			log.Warn().Uint64("user_id", principal.ID).Str("path", c.Path()).
				Msg("non-staff account denied on management API")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "forbidden",
			})
		}

		c.Locals(principalLocalKey, principal)

		return c.Next()
	}
}

// PrincipalFromContext returns the authenticated account attached by
// RequireStaff, or nil when the request never passed the guard.
func PrincipalFromContext(c *fiber.Ctx) *models.User {
	principal, _ := c.Locals(principalLocalKey).(*models.User)
	return principal
}
