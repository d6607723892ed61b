package auth

import (
	"errors"

	"gorm.io/gorm"

	usercontroller "github.com/GoIAM-Admin/GoIAM-Admin/internal/db/controller/user"
	"github.com/GoIAM-Admin/GoIAM-Admin/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db     *gorm.DB
	issuer *TokenIssuer
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, issuer *TokenIssuer) *Service {
	return &Service{db: db, issuer: issuer}
}

// Authenticate verifies an email/password pair and returns the account with a
// freshly signed access token. LastLogin is stamped on success.
func (s *Service) Authenticate(email, password string) (*models.User, string, error) {
	u, err := usercontroller.GetByEmail(s.db, email)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if !u.IsActive {
		return nil, "", ErrUserAccountDisabled
	}

	if !u.VerifyPassword(password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := s.issuer.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}

	if err := usercontroller.RecordLogin(s.db, u.ID); err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Principal resolves a bearer token to the account it was issued for.
// Tokens for deleted or deactivated accounts are rejected.
func (s *Service) Principal(tokenString string) (*models.User, error) {
	userID, err := s.issuer.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := usercontroller.GetByID(s.db, userID)
	if err != nil {
		if errors.Is(err, usercontroller.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInvalidToken
	}

	return u, nil
}
