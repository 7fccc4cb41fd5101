package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/models/dto"
)

// bindError answers a malformed request body or query string with a 400
func bindError(ctx *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
		WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// idParam parses the numeric :id path parameter, answering a 400 on failure
func idParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
			WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
