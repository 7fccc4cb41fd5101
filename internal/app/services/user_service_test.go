package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/auth"
)

func newUserFixture(t *testing.T) (*UserService, *memUserRepo, *memTokenRepo) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	return NewUserService(users, tokens, zerolog.Nop()), users, tokens
}

func TestUpdateUserPasswordRevokesSessions(t *testing.T) {
	svc, users, tokens := newUserFixture(t)
	ctx := context.Background()
	user := seedAccount(t, users, "teacher1", "passw0rd1", true)

	if err := tokens.CreateToken(ctx, "refresh-1", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("seeding token failed: %v", err)
	}

	newPassword := "newpassw0rd"
	if _, err := svc.UpdateUser(ctx, user.ID, &dto.UpdateUserRequest{Password: &newPassword}); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	if _, err := tokens.GetTokenUser(ctx, "refresh-1"); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked after password reset, got %v", err)
	}

	stored, err := users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !auth.CheckPassword(stored.Password, newPassword) {
		t.Error("stored hash does not verify against the new password")
	}
	if auth.CheckPassword(stored.Password, "passw0rd1") {
		t.Error("old password still verifies after reset")
	}
}

func TestUpdateUserRejectsWeakPassword(t *testing.T) {
	svc, users, _ := newUserFixture(t)
	user := seedAccount(t, users, "teacher1", "passw0rd1", true)

	weak := "short"
	_, err := svc.UpdateUser(context.Background(), user.ID, &dto.UpdateUserRequest{Password: &weak})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestUpdateUserDeactivateRevokesSessions(t *testing.T) {
	svc, users, tokens := newUserFixture(t)
	ctx := context.Background()
	user := seedAccount(t, users, "teacher1", "passw0rd1", true)

	if err := tokens.CreateToken(ctx, "refresh-1", user.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("seeding token failed: %v", err)
	}

	inactive := false
	updated, err := svc.UpdateUser(ctx, user.ID, &dto.UpdateUserRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.IsActive {
		t.Error("expected account to be inactive")
	}
	if _, err := tokens.GetTokenUser(ctx, "refresh-1"); !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked after deactivation, got %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	email := "nobody@example.com"
	_, err := svc.UpdateUser(context.Background(), 42, &dto.UpdateUserRequest{Email: &email})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsersRejectsUnknownRoleFilter(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	role := "janitor"
	_, err := svc.ListUsers(context.Background(), &dto.UserFilterRequest{Role: &role, Page: 1, PageSize: 20})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected ErrValidationFailed, got %v", err)
	}
}

func TestStatsCountsByRoleAndActivity(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	seedAccount(t, users, "teacher1", "passw0rd1", true)
	seedAccount(t, users, "teacher2", "passw0rd1", false)

	hashed, err := auth.HashPassword("passw0rd1")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	admin := &models.User{
		Username: "admin1",
		Email:    "admin1@example.com",
		Password: hashed,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := users.Create(context.Background(), admin); err != nil {
		t.Fatalf("seeding admin failed: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalUsers != 3 {
		t.Errorf("expected 3 users total, got %d", stats.TotalUsers)
	}
	if stats.TotalTeachers != 2 {
		t.Errorf("expected 2 teachers, got %d", stats.TotalTeachers)
	}
	if stats.TotalAdmins != 1 {
		t.Errorf("expected 1 admin, got %d", stats.TotalAdmins)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("expected 2 active users, got %d", stats.ActiveUsers)
	}
}

func TestRolesReturnsFixedSet(t *testing.T) {
	svc, _, _ := newUserFixture(t)

	resp := svc.Roles()
	want := []string{"admin", "teacher", "student"}
	if len(resp.Roles) != len(want) {
		t.Fatalf("expected %d roles, got %d", len(want), len(resp.Roles))
	}
	for i, name := range want {
		if resp.Roles[i] != name {
			t.Errorf("expected role %q at position %d, got %q", name, i, resp.Roles[i])
		}
	}
}
