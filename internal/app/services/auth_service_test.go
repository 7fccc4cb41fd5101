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

func newAuthFixture(t *testing.T) (*AuthService, *memUserRepo, *memTokenRepo) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenRepo()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	return NewAuthService(users, tokens, jwtService, zerolog.Nop()), users, tokens
}

func seedAccount(t *testing.T, users *memUserRepo, username, password string, active bool) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: hashed,
		Role:     models.RoleTeacher,
		IsActive: active,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding account failed: %v", err)
	}
	return user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedAccount(t, users, "teacher1", "passw0rd1", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "teacher1", Password: "passw0rd1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.User.Username != "teacher1" {
		t.Errorf("expected user teacher1 in response, got %s", resp.User.Username)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedAccount(t, users, "teacher1", "passw0rd1", true)

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "teacher1", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "passw0rd1"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedAccount(t, users, "teacher1", "passw0rd1", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "teacher1", Password: "passw0rd1"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestRefreshTokenIsSingleUse(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	seedAccount(t, users, "teacher1", "passw0rd1", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "teacher1", Password: "passw0rd1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}
	if refreshed.Token.RefreshToken == login.Token.RefreshToken {
		t.Error("expected a new refresh token after use")
	}

	_, err = svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	if !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Errorf("expected reused token to be revoked, got %v", err)
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	user := seedAccount(t, users, "teacher1", "passw0rd1", true)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "teacher1", Password: "passw0rd1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	wrong := &dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpassw0rd"}
	if err := svc.ChangePassword(ctx, user.ID, wrong); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	req := &dto.ChangePasswordRequest{CurrentPassword: "passw0rd1", NewPassword: "newpassw0rd"}
	if err := svc.ChangePassword(ctx, user.ID, req); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if _, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken}); err == nil {
		t.Error("expected old refresh token to be revoked after password change")
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "teacher1", Password: "newpassw0rd"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestRegisterRejectsStudentRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username: "sneaky",
		Email:    "sneaky@example.com",
		Password: "passw0rd1",
		Role:     models.RoleStudent,
	})
	if err == nil {
		t.Fatal("expected student registration through auth to be rejected")
	}
}

func TestRegisterCreatesTeacherAccount(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Username:  "new.teacher",
		Email:     "teacher@example.com",
		Password:  "passw0rd1",
		FirstName: "New",
		LastName:  "Teacher",
		Role:      models.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected an assigned account ID")
	}
	if !auth.CheckPassword(user.Password, "passw0rd1") {
		t.Error("stored password must be a verifiable hash")
	}
	if users.count() != 1 {
		t.Errorf("expected 1 account, got %d", users.count())
	}
}
