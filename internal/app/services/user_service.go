package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/auth"
	"github.com/okandemir/studenthub/internal/pkg/validation"
)

// UserService handles administrative account management
type UserService struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.IUserRepository,
	tokenRepo repositories.ITokenRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// GetUser retrieves an account by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers retrieves accounts matching the filter
func (s *UserService) ListUsers(ctx context.Context, req *dto.UserFilterRequest) (*dto.UserListResponse, error) {
	filter := repositories.UserFilter{
		Search:   validation.SanitizeString(req.Search, 100),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Role != nil {
		role, ok := models.RoleFromName(*req.Role)
		if !ok {
			return nil, apperrors.NewValidationError("unknown role filter")
		}
		filter.Role = &role
	}

	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(users)),
		Pagination: paginationInfo(total, req.Page, req.PageSize),
	}
	for _, user := range users {
		resp.Users = append(resp.Users, dto.FromUser(user))
	}
	return resp, nil
}

// UpdateUser applies a partial account update. Disabling an account also
// revokes its refresh tokens.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) (*models.User, error) {
	fields := map[string]interface{}{}
	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		fields["email"] = validation.SanitizeString(*req.Email, 120)
	}
	if req.FirstName != nil {
		fields["first_name"] = validation.SanitizeString(*req.FirstName, 100)
	}
	if req.LastName != nil {
		fields["last_name"] = validation.SanitizeString(*req.LastName, 100)
	}
	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = hashed
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) > 0 {
		if err := s.userRepo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	// A reset password or a disabled account invalidates existing sessions.
	if req.Password != nil || (req.IsActive != nil && !*req.IsActive) {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, id); err != nil {
			s.logger.Error().Err(err).Int64("userID", id).Msg("Failed to revoke sessions after account update")
		}
	}

	return s.userRepo.GetByID(ctx, id)
}

// DeleteUser removes an account. A student profile owned by the account goes
// with it via cascade.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Msg("Account deleted")
	return nil
}

// Roles returns the fixed role set
func (s *UserService) Roles() *dto.RoleListResponse {
	resp := &dto.RoleListResponse{Roles: make([]string, 0, len(models.AllRoles))}
	for _, role := range models.AllRoles {
		resp.Roles = append(resp.Roles, string(role))
	}
	return resp
}

// Stats returns aggregate account counts
func (s *UserService) Stats(ctx context.Context) (*dto.UserStatsResponse, error) {
	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count
	}

	return &dto.UserStatsResponse{
		TotalUsers:    total,
		TotalAdmins:   counts[models.RoleAdmin],
		TotalTeachers: counts[models.RoleTeacher],
		TotalStudents: counts[models.RoleStudent],
		ActiveUsers:   active,
	}, nil
}
