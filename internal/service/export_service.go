package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-core/internal/models"
	appErrors "github.com/noah-isme/school-core/pkg/errors"
	"github.com/noah-isme/school-core/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type gradeReportSource interface {
	GetStudentGrades(ctx context.Context, studentID string) (*models.StudentGradesReport, error)
	GetCourseStudentsWithGrades(ctx context.Context, courseID string) (*models.CourseGradesReport, error)
}

// ExportService renders grade reports into downloadable documents.
type ExportService struct {
	grades gradeReportSource
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(grades gradeReportSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{grades: grades, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter(), logger: logger}
}

// ExportStudentTranscript renders a student's transcript in the requested
// format.
func (s *ExportService) ExportStudentTranscript(ctx context.Context, studentID, format string) ([]byte, error) {
	report, err := s.grades.GetStudentGrades(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Course", "Grade"}}
	for _, entry := range report.Grades {
		data.Rows = append(data.Rows, map[string]string{
			"Course": entry.CourseName,
			"Grade":  formatGrade(entry.Grade),
		})
	}

	title := "Transcript - " + report.StudentName
	summary := "Average grade: " + formatGrade(report.AverageGrade)
	return s.render(data, title, summary, format)
}

// ExportCourseRoster renders a course's student roster in the requested
// format.
func (s *ExportService) ExportCourseRoster(ctx context.Context, courseID, format string) ([]byte, error) {
	report, err := s.grades.GetCourseStudentsWithGrades(ctx, courseID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Student", "Grade"}}
	for _, entry := range report.Students {
		data.Rows = append(data.Rows, map[string]string{
			"Student": entry.StudentName,
			"Grade":   formatGrade(entry.Grade),
		})
	}

	title := "Roster - " + report.CourseName
	summary := "Average grade: " + formatGrade(report.AverageGrade)
	return s.render(data, title, summary, format)
}

func (s *ExportService) render(data export.Dataset, title, summary string, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return s.csv.Render(data)
	case FormatPDF:
		return s.pdf.Render(data, title, summary)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func formatGrade(grade *float64) string {
	if grade == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *grade)
}
