package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/okandemir/studenthub/internal/app/models/dto"
	"github.com/okandemir/studenthub/internal/pkg/report"
	"github.com/okandemir/studenthub/internal/pkg/studentid"
)

func newReportFixture(t *testing.T, registry *report.Registry) (*ReportService, *StudentService) {
	t.Helper()
	users := newMemUserRepo()
	students := newMemStudentRepo(users)
	studentSvc := NewStudentService(users, students, studentid.NewGenerator(students), zerolog.Nop())

	store, err := report.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	return NewReportService(students, registry, store, zerolog.Nop()), studentSvc
}

func textOnlyRegistry() *report.Registry {
	return report.NewRegistry(report.NewTextRenderer())
}

func fullRegistry() *report.Registry {
	return report.NewRegistry(report.NewTextRenderer(), report.NewPDFRenderer(), report.NewExcelRenderer())
}

func TestGenerateStudentsReportFallsBackToText(t *testing.T) {
	svc, studentSvc := newReportFixture(t, textOnlyRegistry())
	ctx := context.Background()

	if _, err := studentSvc.CreateStudent(ctx, createStudentRequest("jane.doe", "jane@example.com", "Jane", "Doe")); err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	result, err := svc.GenerateStudentsReport(ctx, &dto.GenerateReportRequest{Format: "pdf"})
	if err != nil {
		t.Fatalf("expected fallback instead of failure, got %v", err)
	}
	if !result.Degraded {
		t.Error("expected degraded result when pdf is not registered")
	}
	if result.Warning == "" {
		t.Error("degraded result must carry a warning")
	}
	if result.Format != report.FormatText {
		t.Errorf("expected text format, got %s", result.Format)
	}
	if filepath.Ext(result.Path) != ".txt" {
		t.Errorf("expected a .txt artifact, got %s", result.Path)
	}
}

func TestGenerateStudentsReportFullRegistry(t *testing.T) {
	svc, studentSvc := newReportFixture(t, fullRegistry())
	ctx := context.Background()

	if _, err := studentSvc.CreateStudent(ctx, createStudentRequest("jane.doe", "jane@example.com", "Jane", "Doe")); err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	result, err := svc.GenerateStudentsReport(ctx, &dto.GenerateReportRequest{Format: "pdf"})
	if err != nil {
		t.Fatalf("GenerateStudentsReport returned error: %v", err)
	}
	if result.Degraded {
		t.Error("pdf is registered, result must not be degraded")
	}
	if result.RecordCount != 1 {
		t.Errorf("expected 1 record, got %d", result.RecordCount)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("reading artifact failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("expected a PDF artifact")
	}
}

func TestGenerateStudentsReportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newReportFixture(t, fullRegistry())

	if _, err := svc.GenerateStudentsReport(context.Background(), &dto.GenerateReportRequest{Format: "docx"}); err == nil {
		t.Fatal("expected unknown format to be rejected")
	}
}

func TestReportSubstitutesNotAvailable(t *testing.T) {
	svc, studentSvc := newReportFixture(t, textOnlyRegistry())
	ctx := context.Background()

	// No gender, phone or address on this record.
	if _, err := studentSvc.CreateStudent(ctx, createStudentRequest("jane.doe", "jane@example.com", "Jane", "Doe")); err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	result, err := svc.GenerateStudentsReport(ctx, &dto.GenerateReportRequest{Format: "text"})
	if err != nil {
		t.Fatalf("GenerateStudentsReport returned error: %v", err)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("reading artifact failed: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, report.NotAvailable) {
		t.Error("expected missing optional fields to render as N/A")
	}
	if !strings.Contains(content, "240001") {
		t.Error("expected the student identifier in the report")
	}
	if !strings.Contains(content, "Jane Doe") {
		t.Error("expected the student name in the report")
	}
}

func TestGenerateStudentProfileReport(t *testing.T) {
	svc, studentSvc := newReportFixture(t, textOnlyRegistry())
	ctx := context.Background()

	profile, err := studentSvc.CreateStudent(ctx, createStudentRequest("jane.doe", "jane@example.com", "Jane", "Doe"))
	if err != nil {
		t.Fatalf("CreateStudent returned error: %v", err)
	}

	result, err := svc.GenerateStudentProfileReport(ctx, profile.ID, "text")
	if err != nil {
		t.Fatalf("GenerateStudentProfileReport returned error: %v", err)
	}
	if result.RecordCount != 1 {
		t.Errorf("expected 1 record, got %d", result.RecordCount)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("reading artifact failed: %v", err)
	}
	if !strings.Contains(string(data), profile.StudentID) {
		t.Error("expected the profile report to reference the student identifier")
	}
}
