package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Conflicts come
// back as 409, validation problems as 400, missing records as 404; anything
// unrecognized is a 500 with the details kept out of the response.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrRoleNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	case errors.Is(err, apperrors.ErrUsernameAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrStudentIDAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error())

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password")

	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")

	case errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	case errors.Is(err, apperrors.ErrSequenceExhausted):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceInvalid, err.Error())

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
