package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/auth"
	"github.com/okandemir/studenthub/internal/pkg/helpers"
	"github.com/okandemir/studenthub/internal/pkg/studentid"
	"github.com/okandemir/studenthub/internal/pkg/validation"
)

// maxIdentifierAttempts bounds the regenerate-and-retry loop when a
// concurrently created student claims the same identifier first.
const maxIdentifierAttempts = 3

// StudentService composes student accounts and profiles. A student record is
// one account row plus one profile row; creation is account first, profile
// second, with a compensating account delete if the profile cannot be created.
type StudentService struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	generator   *studentid.Generator
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	generator *studentid.Generator,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		generator:   generator,
		logger:      logger,
	}
}

// CreateStudent validates the request, creates the account, assigns a student
// identifier and creates the profile. No partial record survives a failure:
// if the profile cannot be created the account is deleted again.
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.StudentProfile, error) {
	dateOfBirth, admissionDate, err := s.validateCreateRequest(req)
	if err != nil {
		return nil, err
	}

	// Pre-checks give clean conflict errors before anything is written. The
	// unique constraints still back them up under concurrency.
	if taken, err := s.userRepo.UsernameExists(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrUsernameAlreadyExists
	}
	if taken, err := s.userRepo.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrEmailAlreadyExists
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
		Role:      models.RoleStudent,
		IsActive:  true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile, err := s.createProfileWithIdentifier(ctx, user, dateOfBirth, admissionDate, req)
	if err != nil {
		return nil, s.compensate(ctx, user, err)
	}

	profile.User = user
	s.logger.Info().
		Str("studentID", profile.StudentID).
		Str("username", user.Username).
		Msg("Student record created")
	return profile, nil
}

// createProfileWithIdentifier assigns an identifier and inserts the profile,
// regenerating when a concurrent creation wins the same identifier.
func (s *StudentService) createProfileWithIdentifier(
	ctx context.Context,
	user *models.User,
	dateOfBirth, admissionDate time.Time,
	req *dto.CreateStudentRequest,
) (*models.StudentProfile, error) {
	var lastErr error
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		identifier, err := s.generator.Next(ctx, admissionDate)
		if err != nil {
			if errors.Is(err, studentid.ErrSequenceExhausted) {
				return nil, apperrors.NewCustomError(apperrors.ErrSequenceExhausted, err.Error())
			}
			return nil, err
		}

		profile := &models.StudentProfile{
			UserID:        user.ID,
			StudentID:     identifier,
			DateOfBirth:   dateOfBirth,
			Gender:        req.Gender,
			Address:       req.Address,
			Phone:         req.Phone,
			AdmissionDate: admissionDate,
		}

		err = s.studentRepo.Create(ctx, profile)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil, err
		}

		s.logger.Warn().
			Str("studentID", identifier).
			Int("attempt", attempt+1).
			Msg("Student identifier claimed concurrently, regenerating")
		lastErr = err
	}
	return nil, fmt.Errorf("exhausted identifier attempts: %w", lastErr)
}

// compensate deletes the account created for a profile that could not be
// created. A failed delete leaves an orphaned account and is reported as
// ErrCompensationFailed.
func (s *StudentService) compensate(ctx context.Context, user *models.User, cause error) error {
	if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
		s.logger.Error().
			Err(delErr).
			Int64("userID", user.ID).
			Str("username", user.Username).
			AnErr("cause", cause).
			Msg("Compensating account delete failed, orphaned account remains")
		return fmt.Errorf("%w: user %d: %v", apperrors.ErrCompensationFailed, user.ID, cause)
	}

	s.logger.Warn().
		Int64("userID", user.ID).
		Err(cause).
		Msg("Profile creation failed, account rolled back")
	return cause
}

// GetStudent retrieves a student record by its row ID
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetStudentByUserID retrieves the student record owned by an account
func (s *StudentService) GetStudentByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return s.studentRepo.GetByUserID(ctx, userID)
}

// ListStudents searches student records. The search term matches the student
// identifier, first name, last name and email, case-insensitively.
func (s *StudentService) ListStudents(ctx context.Context, req *dto.StudentFilterRequest) (*dto.StudentListResponse, error) {
	if req.Gender != nil {
		if err := validation.ValidateGender(*req.Gender); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	filter := repositories.StudentFilter{
		Search:   validation.SanitizeString(req.Search, 100),
		Gender:   req.Gender,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	students, total, err := s.studentRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.StudentListResponse{
		Students:   make([]dto.StudentResponse, 0, len(students)),
		Pagination: paginationInfo(total, req.Page, req.PageSize),
	}
	for _, profile := range students {
		resp.Students = append(resp.Students, dto.FromStudentProfile(profile))
	}
	return resp, nil
}

// UpdateStudent applies a partial update. Only the allowed fields can change;
// username, student identifier and role are immutable.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.StudentProfile, error) {
	profile, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	userFields := map[string]interface{}{}
	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		userFields["email"] = validation.SanitizeString(*req.Email, 120)
	}
	if req.FirstName != nil {
		userFields["first_name"] = validation.SanitizeString(*req.FirstName, 100)
	}
	if req.LastName != nil {
		userFields["last_name"] = validation.SanitizeString(*req.LastName, 100)
	}

	studentFields := map[string]interface{}{}
	if req.DateOfBirth != nil {
		dob, err := helpers.ParseDateOnly(*req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid date of birth, expected YYYY-MM-DD")
		}
		studentFields["date_of_birth"] = dob
	}
	if req.Gender != nil {
		if err := validation.ValidateGender(*req.Gender); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		studentFields["gender"] = *req.Gender
	}
	if req.Address != nil {
		studentFields["address"] = validation.SanitizeString(*req.Address, 255)
	}
	if req.Phone != nil {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		studentFields["phone"] = *req.Phone
	}

	if len(userFields) > 0 {
		if err := s.userRepo.Update(ctx, profile.UserID, userFields); err != nil {
			return nil, err
		}
	}
	if len(studentFields) > 0 {
		if err := s.studentRepo.Update(ctx, id, studentFields); err != nil {
			return nil, err
		}
	}

	return s.studentRepo.GetByID(ctx, id)
}

// DeleteStudent removes a student record. Deleting the account cascades to
// the profile, so both halves go together.
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	profile, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, profile.UserID); err != nil {
		return err
	}

	s.logger.Info().Str("studentID", profile.StudentID).Msg("Student record deleted")
	return nil
}

// Analytics returns aggregate student statistics
func (s *StudentService) Analytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	total, err := s.studentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	distribution, err := s.studentRepo.GenderDistribution(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.studentRepo.RecentAdmissions(ctx, 5)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyticsResponse{
		TotalStudents:      total,
		GenderDistribution: distribution,
		RecentAdmissions:   make([]dto.StudentResponse, 0, len(recent)),
	}
	for _, profile := range recent {
		resp.RecentAdmissions = append(resp.RecentAdmissions, dto.FromStudentProfile(profile))
	}
	return resp, nil
}

func (s *StudentService) validateCreateRequest(req *dto.CreateStudentRequest) (dateOfBirth, admissionDate time.Time, err error) {
	if err := validation.ValidateUsername(req.Username); err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
	}

	dateOfBirth, err = helpers.ParseDateOnly(req.DateOfBirth)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid date of birth, expected YYYY-MM-DD")
	}

	admissionDate = time.Now()
	if req.AdmissionDate != nil && *req.AdmissionDate != "" {
		admissionDate, err = helpers.ParseDateOnly(*req.AdmissionDate)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid admission date, expected YYYY-MM-DD")
		}
	}

	if req.Gender != nil {
		if err := validation.ValidateGender(*req.Gender); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
		}
	}
	if req.Phone != nil && *req.Phone != "" {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError(err.Error())
		}
	}

	return dateOfBirth, admissionDate, nil
}

// paginationInfo derives pagination metadata from a total row count
func paginationInfo(total, page, pageSize int) dto.PaginationInfo {
	if page < 1 {
		page = 1
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalItems:  total,
	}
}
