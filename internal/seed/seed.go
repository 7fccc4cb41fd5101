package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/okandemir/studenthub/internal/app/models"
	appRepos "github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/auth"
)

// DefaultAdminUsername is the bootstrap admin account created on first start.
const DefaultAdminUsername = "admin"

// CreateDefaultData seeds the fixed role set and the bootstrap admin account.
// Every step is idempotent, reruns are no-ops.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, adminPassword string, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (roles, admin account)...")
	var finalErr error

	for _, role := range appModels.AllRoles {
		if _, err := dbPool.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			string(role)); err != nil {
			lgr.Error().Err(err).Str("role", string(role)).Msg("Error seeding role")
			finalErr = errors.Join(finalErr, err)
		}
	}

	exists, err := userRepo.UsernameExists(ctx, DefaultAdminUsername)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	if adminPassword == "" {
		lgr.Warn().Msg("No admin password configured, skipping bootstrap admin account")
		return finalErr
	}

	hashed, err := auth.HashPassword(adminPassword)
	if err != nil {
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Username:  DefaultAdminUsername,
		Email:     "admin@studenthub.local",
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating bootstrap admin account")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Str("username", DefaultAdminUsername).Msg("Bootstrap admin account created")
	return finalErr
}
