package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/dberrors"
	"github.com/okandemir/studenthub/internal/pkg/logger"
)

// studentColumns are the columns selected for every composed student query.
// The joined account columns follow the profile columns.
var studentColumns = []string{
	"s.id", "s.user_id", "s.student_id", "s.date_of_birth", "s.gender",
	"s.address", "s.phone", "s.admission_date", "s.created_at", "s.updated_at",
	"u.id", "u.username", "u.email", "u.password", "u.first_name", "u.last_name",
	"u.role_id", "r.name", "u.is_active", "u.created_at", "u.updated_at",
}

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.StudentProfile, error) {
	profile := &models.StudentProfile{User: &models.User{}}
	err := row.Scan(
		&profile.ID, &profile.UserID, &profile.StudentID, &profile.DateOfBirth,
		&profile.Gender, &profile.Address, &profile.Phone, &profile.AdmissionDate,
		&profile.CreatedAt, &profile.UpdatedAt,
		&profile.User.ID, &profile.User.Username, &profile.User.Email, &profile.User.Password,
		&profile.User.FirstName, &profile.User.LastName, &profile.User.RoleID, &profile.User.Role,
		&profile.User.IsActive, &profile.User.CreatedAt, &profile.User.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.sb.Select(studentColumns...).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Join("roles r ON r.id = u.role_id")
}

// Create inserts a new student profile. A student_id collision surfaces as
// apperrors.ErrStudentIDAlreadyExists so callers can regenerate and retry.
func (r *StudentRepository) Create(ctx context.Context, profile *models.StudentProfile) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "student_id", "date_of_birth", "gender", "address", "phone", "admission_date", "created_at", "updated_at").
		Values(profile.UserID, profile.StudentID, profile.DateOfBirth, profile.Gender,
			profile.Address, profile.Phone, profile.AdmissionDate, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_user_id_key") {
			return apperrors.NewConflictError("user already has a student profile")
		}
		logger.Error().Err(err).Str("studentID", profile.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

func (r *StudentRepository) getBy(ctx context.Context, pred squirrel.Eq) (*models.StudentProfile, error) {
	sql, args, err := r.selectStudents().
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	profile, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return profile, nil
}

// GetByID retrieves a student profile by its row ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return r.getBy(ctx, squirrel.Eq{"s.id": id})
}

// GetByUserID retrieves a student profile by the owning account's ID
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return r.getBy(ctx, squirrel.Eq{"s.user_id": userID})
}

// GetByStudentID retrieves a student profile by its public identifier
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	return r.getBy(ctx, squirrel.Eq{"s.student_id": studentID})
}

// Search retrieves student profiles matching the filter ordered by last name
// then first name, with the total count before paging.
func (r *StudentRepository) Search(ctx context.Context, filter StudentFilter) ([]*models.StudentProfile, int, error) {
	base := r.sb.Select().
		From("students s").
		Join("users u ON u.id = s.user_id").
		Join("roles r ON r.id = u.role_id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"s.student_id": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
			squirrel.ILike{"u.email": pattern},
		})
	}
	if filter.Gender != nil {
		base = base.Where(squirrel.Eq{"s.gender": *filter.Gender})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	listQuery := base.Columns(studentColumns...).
		OrderBy("u.last_name", "u.first_name")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		listQuery = listQuery.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error searching students: %w", err)
	}
	defer rows.Close()

	var students []*models.StudentProfile
	for rows.Next() {
		profile, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}

// MaxIdentifierForPrefix returns the highest assigned student identifier with
// the given prefix, or an empty string when none exist yet.
func (r *StudentRepository) MaxIdentifierForPrefix(ctx context.Context, prefix string) (string, error) {
	var max *string
	err := r.db.QueryRow(ctx, `
		SELECT MAX(student_id) FROM students WHERE student_id LIKE $1`,
		prefix+"%").Scan(&max)
	if err != nil {
		return "", fmt.Errorf("error retrieving max student identifier: %w", err)
	}
	if max == nil {
		return "", nil
	}
	return *max, nil
}

// Update applies the given column/value pairs to a student row. Callers are
// responsible for restricting fields to the allowed set.
func (r *StudentRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("students").
		SetMap(fields).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentRowID", id).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student profile row. The owning account is left alone.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentRowID", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// CountAll returns the number of student profiles
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// GenderDistribution returns student counts grouped by gender. Profiles
// without a gender are grouped under "Unspecified".
func (r *StudentRepository) GenderDistribution(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(gender, 'Unspecified'), COUNT(*)
		FROM students
		GROUP BY COALESCE(gender, 'Unspecified')`)
	if err != nil {
		return nil, fmt.Errorf("error retrieving gender distribution: %w", err)
	}
	defer rows.Close()

	distribution := make(map[string]int64)
	for rows.Next() {
		var gender string
		var count int64
		if err := rows.Scan(&gender, &count); err != nil {
			return nil, fmt.Errorf("error scanning gender distribution row: %w", err)
		}
		distribution[gender] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gender distribution rows: %w", err)
	}
	return distribution, nil
}

// RecentAdmissions retrieves the most recently admitted students
func (r *StudentRepository) RecentAdmissions(ctx context.Context, limit int) ([]*models.StudentProfile, error) {
	sql, args, err := r.selectStudents().
		OrderBy("s.admission_date DESC", "s.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent admissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent admissions: %w", err)
	}
	defer rows.Close()

	var students []*models.StudentProfile
	for rows.Next() {
		profile, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}
