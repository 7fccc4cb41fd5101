package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okandemir/studenthub/internal/app/models"
)

// UserFilter narrows user listing queries
type UserFilter struct {
	Role     *models.RoleType
	Search   string
	Page     int
	PageSize int
}

// StudentFilter narrows student listing and search queries
type StudentFilter struct {
	Search   string
	Gender   *string
	Page     int
	PageSize int
}

// IUserRepository defines the interface for account database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*models.User, int, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	GetRoleByName(ctx context.Context, name models.RoleType) (*models.Role, error)
	CountByRole(ctx context.Context) (map[models.RoleType]int64, error)
	CountActive(ctx context.Context) (int64, error)
}

// IStudentRepository defines the interface for student profile database operations
type IStudentRepository interface {
	Create(ctx context.Context, profile *models.StudentProfile) error
	GetByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
	Search(ctx context.Context, filter StudentFilter) ([]*models.StudentProfile, int, error)
	MaxIdentifierForPrefix(ctx context.Context, prefix string) (string, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int64, error)
	GenderDistribution(ctx context.Context) (map[string]int64, error)
	RecentAdmissions(ctx context.Context, limit int) ([]*models.StudentProfile, error)
}

// ITokenRepository defines the interface for refresh token database operations
type ITokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	GetTokenUser(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	StudentRepository *StudentRepository
	TokenRepository   *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		StudentRepository: NewStudentRepository(db),
		TokenRepository:   NewTokenRepository(db),
	}
}
