package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/auth"
	"github.com/okandemir/studenthub/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user by username and password and issues a token pair.
// Disabled accounts are rejected even with correct credentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a bad password so usernames cannot be probed.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn().Str("username", req.Username).Msg("Login attempt on disabled account")
		return nil, apperrors.ErrAccountDisabled
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken exchanges a valid refresh token for a new token pair. The used
// token is revoked, refresh tokens are single-use.
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	userID, err := s.tokenRepo.GetTokenUser(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, req.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke used refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Register creates a new account with the given role. Student accounts are
// not created here, the student service composes account and profile together.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if req.Role == models.RoleStudent {
		return nil, apperrors.NewBadRequestError("student accounts must be created through the students endpoint")
	}
	if !req.Role.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown role %q", req.Role))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  validation.SanitizeString(req.Username, 50),
		Email:     validation.SanitizeString(req.Email, 120),
		Password:  hashed,
		FirstName: validation.SanitizeString(req.FirstName, 100),
		LastName:  validation.SanitizeString(req.LastName, 100),
		Role:      req.Role,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("Account registered")
	return user, nil
}

// ChangePassword verifies the current password and replaces it. All refresh
// tokens are revoked so other sessions must log in again.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": hashed}); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllUserTokens(ctx, userID); err != nil {
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Failed to revoke sessions after password change")
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// Logout revokes the given refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// GetProfile retrieves the account for the authenticated user
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: dto.FromUser(user),
	}, nil
}
