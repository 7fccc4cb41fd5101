package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/services"
	"github.com/okandemir/studenthub/internal/middleware"
)

// WarningHeader carries the degradation notice when a report falls back to
// plain text.
const WarningHeader = "X-Report-Warning"

// ReportController handles report generation endpoints
type ReportController struct {
	reportService *services.ReportService
}

// NewReportController creates a new report controller
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// Students generates a student listing report and serves it as a download
// @Summary Generate students report
// @Description Renders the students matching the filter as pdf, excel or text. When the requested format is unavailable a text report is served with a warning header.
// @Tags reports
// @Produce application/octet-stream
// @Security BearerAuth
// @Param format query string false "Report format (pdf, excel, text)" default(pdf)
// @Param search query string false "Search term"
// @Param gender query string false "Gender filter"
// @Success 200 {file} file "Report artifact"
// @Failure 400 {object} dto.ErrorResponse "Unknown format"
// @Router /reports/students [get]
func (c *ReportController) Students(ctx *gin.Context) {
	var req dto.GenerateReportRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		bindError(ctx, err)
		return
	}

	result, err := c.reportService.GenerateStudentsReport(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if result.Degraded {
		ctx.Header(WarningHeader, result.Warning)
	}
	ctx.FileAttachment(result.Path, result.FileName)
}

// StudentProfile generates a single-student report
// @Summary Generate student profile report
// @Tags reports
// @Produce application/octet-stream
// @Security BearerAuth
// @Param id path int true "Student row ID"
// @Param format query string false "Report format (pdf, excel, text)" default(pdf)
// @Success 200 {file} file "Report artifact"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /reports/students/{id} [get]
func (c *ReportController) StudentProfile(ctx *gin.Context) {
	id, ok := idParam(ctx)
	if !ok {
		return
	}

	format := ctx.DefaultQuery("format", "pdf")
	result, err := c.reportService.GenerateStudentProfileReport(ctx, id, format)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if result.Degraded {
		ctx.Header(WarningHeader, result.Warning)
	}
	ctx.FileAttachment(result.Path, result.FileName)
}
