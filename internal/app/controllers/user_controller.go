package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/services"
	"github.com/okandemir/studenthub/internal/middleware"
)

// UserController handles administrative account endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// List retrieves accounts
// @Summary List accounts
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter (admin, teacher, student)"
// @Param search query string false "Search term"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Accounts"
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	var req dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		bindError(ctx, err)
		return
	}

	resp, err := c.userService.ListUsers(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Accounts retrieved"))
}

// Get retrieves one account
// @Summary Get account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Account"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromUser(user), "Account retrieved"))
}

// Update applies a partial update to an account
// @Summary Update account
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Account updated"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	user, err := c.userService.UpdateUser(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromUser(user), "Account updated"))
}

// Delete removes an account
// @Summary Delete account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} dto.SuccessResponse "Account deleted"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Account deleted"})
}

// Roles returns the fixed role set
// @Summary List roles
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RoleListResponse} "Roles"
// @Router /users/roles [get]
func (c *UserController) Roles(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.userService.Roles(), "Roles retrieved"))
}

// Stats returns aggregate account counts
// @Summary Account statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserStatsResponse} "Statistics"
// @Router /users/stats [get]
func (c *UserController) Stats(ctx *gin.Context) {
	resp, err := c.userService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Statistics retrieved"))
}
