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

// userColumns are the columns selected for every user query, role name joined in.
var userColumns = []string{
	"u.id", "u.username", "u.email", "u.password", "u.first_name", "u.last_name",
	"u.role_id", "r.name", "u.is_active", "u.created_at", "u.updated_at",
}

// UserRepository handles account database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.FirstName, &user.LastName, &user.RoleID, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user. The user's Role is resolved to a role_id and the
// generated ID is written back on success.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	role, err := r.GetRoleByName(ctx, user.Role)
	if err != nil {
		return err
	}
	user.RoleID = role.ID

	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("username", "email", "password", "first_name", "last_name", "role_id", "is_active", "created_at", "updated_at").
		Values(user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.RoleID, user.IsActive, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users u").
		Join("roles r ON r.id = u.role_id").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"u.id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"u.username": username})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"u.email": email})
}

func (r *UserRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM users WHERE %s = $1)`, column)
	err := r.db.QueryRow(ctx, query, value).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking %s: %w", column, err)
	}
	return exists, nil
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// EmailExists checks if an email is already taken
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

// List retrieves users matching the filter, with the total count before paging.
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]*models.User, int, error) {
	base := r.sb.Select().
		From("users u").
		Join("roles r ON r.id = u.role_id")

	if filter.Role != nil {
		base = base.Where(squirrel.Eq{"r.name": *filter.Role})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"u.username": pattern},
			squirrel.ILike{"u.email": pattern},
			squirrel.ILike{"u.first_name": pattern},
			squirrel.ILike{"u.last_name": pattern},
		})
	}

	countSQL, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	listQuery := base.Columns(userColumns...).
		OrderBy("u.username")
	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		listQuery = listQuery.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, total, nil
}

// Update applies the given column/value pairs to a user row. Callers are
// responsible for restricting fields to the allowed set.
func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sql, args, err := r.sb.Update("users").
		SetMap(fields).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables a user account
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.Update(ctx, id, map[string]interface{}{"is_active": active})
}

// Delete removes a user. The student profile, if any, goes with it via cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRoleByName retrieves a role by its name
func (r *UserRepository) GetRoleByName(ctx context.Context, name models.RoleType) (*models.Role, error) {
	role := &models.Role{}
	err := r.db.QueryRow(ctx, `SELECT id, name FROM roles WHERE name = $1`, string(name)).
		Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, fmt.Errorf("error retrieving role: %w", err)
	}
	return role, nil
}

// CountByRole returns the number of users per role
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.RoleType]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.name, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.id
		GROUP BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("error counting users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.RoleType]int64)
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("error scanning role count row: %w", err)
		}
		counts[models.RoleType(name)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role count rows: %w", err)
	}
	return counts, nil
}

// CountActive returns the number of active users
func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting active users: %w", err)
	}
	return count, nil
}
