package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/services"
	"github.com/okandemir/studenthub/internal/middleware"
)

// StudentController handles student record endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new student controller
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Create creates a student record: account plus profile with a generated identifier
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student details"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	profile, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromStudentProfile(profile), "Student created"))
}

// List searches student records
// @Summary List students
// @Description Lists students, optionally filtered by a search term over identifier, name and email
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param gender query string false "Gender filter"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var req dto.StudentFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		bindError(ctx, err)
		return
	}

	resp, err := c.studentService.ListStudents(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Students retrieved"))
}

// Get retrieves one student record
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	profile, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudentProfile(profile), "Student retrieved"))
}

// Update applies a partial update to a student record
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	profile, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudentProfile(profile), "Student updated"))
}

// Delete removes a student record and its account
// @Summary Delete student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Success 200 {object} dto.SuccessResponse "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Student deleted"})
}

// MyProfile returns the student record owned by the authenticated account
// @Summary Own student record
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student"
// @Failure 404 {object} dto.ErrorResponse "No student record for this account"
// @Router /students/me [get]
func (c *StudentController) MyProfile(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	profile, err := c.studentService.GetStudentByUserID(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudentProfile(profile), "Student retrieved"))
}

// Analytics returns aggregate student statistics
// @Summary Student analytics
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsResponse} "Analytics"
// @Router /students/analytics [get]
func (c *StudentController) Analytics(ctx *gin.Context) {
	resp, err := c.studentService.Analytics(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, "Analytics retrieved"))
}
