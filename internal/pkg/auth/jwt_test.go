package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okandemir/studenthub/internal/app/models"
)

func testService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := testService()
	user := &models.User{ID: 7, Username: "jane.doe", Role: models.RoleTeacher}

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "jane.doe", claims.Username)
	assert.Equal(t, string(models.RoleTeacher), claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := testService()
	user := &models.User{ID: 7, Username: "jane.doe", Role: models.RoleTeacher}

	accessToken, _, _, _, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: -time.Minute,
	})
	user := &models.User{ID: 7, Username: "jane.doe", Role: models.RoleTeacher}

	accessToken, _, _, _, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken("")
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPassword("passw0rd1")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "passw0rd1"))
	assert.False(t, CheckPassword(hashed, "wrong"))
}
