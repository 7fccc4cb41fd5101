package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models"
	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/app/repositories"
	"github.com/okandemir/studenthub/internal/pkg/apperrors"
	"github.com/okandemir/studenthub/internal/pkg/helpers"
	"github.com/okandemir/studenthub/internal/pkg/report"
	"github.com/okandemir/studenthub/internal/pkg/validation"
)

// ReportResult describes a generated report artifact on disk
type ReportResult struct {
	Path        string
	FileName    string
	Format      report.Format
	RecordCount int
	GeneratedAt time.Time
	Degraded    bool
	Warning     string
}

// ReportService assembles student listings into report documents and renders
// them through whichever renderer the registry resolves. An unavailable
// renderer degrades to plain text rather than failing the request.
type ReportService struct {
	studentRepo repositories.IStudentRepository
	registry    *report.Registry
	store       *report.Store
	logger      zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	studentRepo repositories.IStudentRepository,
	registry *report.Registry,
	store *report.Store,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{
		studentRepo: studentRepo,
		registry:    registry,
		store:       store,
		logger:      logger,
	}
}

// GenerateStudentsReport renders the students matching the filter into the
// requested format. The filter semantics match the student listing endpoint.
func (s *ReportService) GenerateStudentsReport(ctx context.Context, req *dto.GenerateReportRequest) (*ReportResult, error) {
	format, err := report.ParseFormat(req.Format)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if req.Gender != nil {
		if err := validation.ValidateGender(*req.Gender); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	filter := repositories.StudentFilter{
		Search: validation.SanitizeString(req.Search, 100),
		Gender: req.Gender,
	}
	students, _, err := s.studentRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	doc := &report.Document{
		Title:       "Students Report",
		GeneratedAt: time.Now(),
		Rows:        assembleRows(students),
	}

	return s.render(format, doc, "students_report")
}

// GenerateStudentProfileReport renders a single student record
func (s *ReportService) GenerateStudentProfileReport(ctx context.Context, studentRowID int64, formatValue string) (*ReportResult, error) {
	format, err := report.ParseFormat(formatValue)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	profile, err := s.studentRepo.GetByID(ctx, studentRowID)
	if err != nil {
		return nil, err
	}

	doc := &report.Document{
		Title:       fmt.Sprintf("Student Profile - %s", profile.StudentID),
		GeneratedAt: time.Now(),
		Rows:        assembleRows([]*models.StudentProfile{profile}),
	}

	return s.render(format, doc, fmt.Sprintf("student_%s", profile.StudentID))
}

func (s *ReportService) render(format report.Format, doc *report.Document, baseName string) (*ReportResult, error) {
	renderer, degraded := s.registry.Resolve(format)

	result := &ReportResult{
		Format:      renderer.Format(),
		RecordCount: len(doc.Rows),
		GeneratedAt: doc.GeneratedAt,
		Degraded:    degraded,
	}
	if degraded {
		result.Warning = fmt.Sprintf("%s output is not available, generated a text report instead", format)
		s.logger.Warn().
			Str("requested", string(format)).
			Str("served", string(renderer.Format())).
			Msg("Report format unavailable, falling back to text")
	}

	path, filename, err := s.store.Write(renderer, doc, baseName)
	if err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	result.Path = path
	result.FileName = filename
	return result, nil
}

// assembleRows converts student records to report rows in fixed column order,
// substituting N/A for missing optional fields.
func assembleRows(students []*models.StudentProfile) []report.Row {
	rows := make([]report.Row, 0, len(students))
	for _, profile := range students {
		row := report.Row{
			StudentID:     report.Value(profile.StudentID),
			Name:          report.NotAvailable,
			Email:         report.NotAvailable,
			Gender:        report.OptionalValue(profile.Gender),
			Phone:         report.OptionalValue(profile.Phone),
			AdmissionDate: report.Value(helpers.FormatDateOnly(profile.AdmissionDate)),
		}
		if profile.User != nil {
			row.Name = report.Value(profile.User.FullName())
			row.Email = report.Value(profile.User.Email)
		}
		rows = append(rows, row)
	}
	return rows
}
