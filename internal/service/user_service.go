package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatmart/internal/identity"
	"chatmart/internal/model"
	"chatmart/internal/repository"

	"github.com/rs/zerolog"
)

type userService struct {
	userRepo repository.UserRepository
	provider identity.Provider
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, provider identity.Provider, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		provider: provider,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// VerifyAccessToken validates the token upstream before touching storage.
// The provider's profile wins over client-supplied fields.
func (s *userService) VerifyAccessToken(ctx context.Context, req *model.VerifyAccessTokenRequest) (string, error) {
	if req == nil || strings.TrimSpace(req.AccessToken) == "" {
		return "", model.NewValidationError("accessToken is required")
	}

	profile, err := s.provider.Profile(ctx, req.AccessToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("access token rejected")
		return "", err
	}

	user := &model.User{
		ID:            profile.UserID,
		DisplayName:   firstNonEmpty(profile.DisplayName, req.DisplayName),
		PictureURL:    firstNonEmpty(profile.PictureURL, req.PictureURL),
		StatusMessage: firstNonEmpty(profile.StatusMessage, req.StatusMessage),
	}

	role, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to save user")
		return "", fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("user verified")
	return role, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile sets address and phone for the user with the given display name.
func (s *userService) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) error {
	if req == nil || strings.TrimSpace(req.DisplayName) == "" {
		return model.NewValidationError("displayName is required")
	}
	if strings.TrimSpace(req.Address) == "" && strings.TrimSpace(req.Phone) == "" {
		return model.NewValidationError("address or phone is required")
	}

	if err := s.userRepo.UpdateProfile(ctx, req); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		s.logger.Error().Err(err).Str("display_name", req.DisplayName).Msg("failed to update profile")
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
