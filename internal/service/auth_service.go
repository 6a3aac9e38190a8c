package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/config"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/repository"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterInput describes a signup payload.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Phone     string
	Role      domain.Role
	Profile   domain.Profile
	Location  domain.Point
	Skills    []string
	Interests []string
}

func (in *RegisterInput) validate() error {
	details := map[string]any{}
	if strings.TrimSpace(in.Username) == "" {
		details["username"] = "required"
	}
	if strings.TrimSpace(in.Email) == "" || !strings.Contains(in.Email, "@") {
		details["email"] = "valid email required"
	}
	if len(in.Password) < 6 {
		details["password"] = "minimum 6 characters"
	}
	if !in.Role.Valid() {
		details["role"] = "must be volunteer, ngo or government"
	}
	if !in.Location.Valid() {
		details["location"] = "coordinates out of range"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid signup payload", details)
	}
	return nil
}

// profileForRole keeps only the profile branch matching the account role.
func profileForRole(role domain.Role, p domain.Profile) domain.Profile {
	switch role {
	case domain.RoleVolunteer:
		return domain.Profile{Volunteer: p.Volunteer}
	case domain.RoleNgo:
		return domain.Profile{Ngo: p.Ngo}
	case domain.RoleGovernment:
		return domain.Profile{Government: p.Government}
	}
	return domain.Profile{}
}

// Register creates a new account. Username and email are unique
// (case-sensitive exact match); the plaintext password is never stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if err := input.validate(); err != nil {
		return nil, "", time.Time{}, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("username or email already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if _, err := s.users.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("username or email already exists", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
		Profile:      profileForRole(input.Role, input.Profile),
		Location:     input.Location,
		Skills:       input.Skills,
		Interests:    input.Interests,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique index closes the pre-check race
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password fail identically so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
