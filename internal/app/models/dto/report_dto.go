package dto

// GenerateReportRequest represents report generation parameters
type GenerateReportRequest struct {
	Format string  `form:"format,default=pdf"`
	Search string  `form:"search"`
	Gender *string `form:"gender"`
}

// ReportResponse describes a generated report file
type ReportResponse struct {
	FileName    string `json:"fileName"`
	Format      string `json:"format"`
	RecordCount int    `json:"recordCount"`
	GeneratedAt string `json:"generatedAt"`
	Warning     string `json:"warning,omitempty"`
}

// AnalyticsResponse represents aggregate student statistics
type AnalyticsResponse struct {
	TotalStudents      int64             `json:"totalStudents"`
	GenderDistribution map[string]int64  `json:"genderDistribution"`
	RecentAdmissions   []StudentResponse `json:"recentAdmissions"`
}
