// Package login provides the token endpoint of the authentication issuer.
package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoIAM-Admin/GoIAM-Admin/internal/auth"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/config"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/web/handler"
)

// Path is the token issuance path.
const Path = handler.APIRootPath + "/auth/token"

// Service exchanges email/password credentials for bearer tokens.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// tokenInput is the credential payload.
type tokenInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Init registers the token route. It is the one route without the staff
// guard: callers authenticate here to obtain the token the guard wants.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	app.Post(Path, s.Token)
}

// Token verifies the credentials and returns a signed access token.
// Unknown accounts, wrong passwords and disabled accounts all map to the same
// 401 so the endpoint does not leak which of the three occurred.
func (s *Service) Token(c *fiber.Ctx) error {
	var in tokenInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.validator.Struct(in); err != nil {
		return handler.Detail(c, fiber.StatusBadRequest, "email and password are required")
	}

	_, token, err := s.authService.Authenticate(in.Email, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound),
			errors.Is(err, auth.ErrInvalidPassword),
			errors.Is(err, auth.ErrUserAccountDisabled):
			return handler.Detail(c, fiber.StatusUnauthorized, "invalid credentials")
		}

		log.Error().Err(err).Msg("token issuance failed")

		return handler.Detail(c, fiber.StatusInternalServerError, "token issuance failed")
	}

	return c.JSON(fiber.Map{"access": token})
}
