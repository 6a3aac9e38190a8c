package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/connect4change/platform/internal/auth"
	"github.com/connect4change/platform/internal/domain"
	"github.com/connect4change/platform/internal/repository"
	apperrors "github.com/connect4change/platform/pkg/util"
)

// UserService serves profile reads and updates.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ProfilePatch is a partial update; nil fields keep their previous value.
// Field deletion is not supported.
type ProfilePatch struct {
	Username  *string
	Email     *string
	Phone     *string
	Profile   *domain.Profile
	Location  *domain.Point
	Skills    []string
	Interests []string
}

// GetProfile returns a profile, restricted to its owner.
func (s *UserService) GetProfile(ctx context.Context, caller auth.Caller, userID string) (*domain.User, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProfileRead, auth.Resource{OwnerID: userID})); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile merges the patch into the stored profile.
func (s *UserService) UpdateProfile(ctx context.Context, caller auth.Caller, userID string, patch ProfilePatch) (*domain.User, error) {
	if err := auth.DecisionError(auth.Authorize(caller, auth.ActionProfileUpdate, auth.Resource{OwnerID: userID})); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if patch.Username != nil && *patch.Username != "" {
		user.Username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != "" {
		user.Email = *patch.Email
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Profile != nil {
		user.Profile = profileForRole(user.Role, *patch.Profile)
	}
	if patch.Location != nil {
		if !patch.Location.Valid() {
			return nil, apperrors.NewValidationError("coordinates out of range", nil)
		}
		user.Location = *patch.Location
	}
	if patch.Skills != nil {
		user.Skills = patch.Skills
	}
	if patch.Interests != nil {
		user.Interests = patch.Interests
	}

	if err := s.users.Update(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
