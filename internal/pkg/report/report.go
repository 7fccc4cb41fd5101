// Package report renders student record listings into downloadable
// artifacts. Renderers are capability providers registered at startup; when
// a requested capability is not registered the registry degrades to the
// plain-text renderer, which is always available.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Format selects an output encoding.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatText  Format = "text"
)

// ParseFormat parses a format selector from a request.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatExcel:
		return FormatExcel, nil
	case FormatText:
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown report format %q", value)
}

// NotAvailable is rendered for every missing optional field. Blank cells
// never appear in the output.
const NotAvailable = "N/A"

// Columns is the fixed column order of every student report.
var Columns = []string{"Student ID", "Name", "Email", "Gender", "Phone", "Admission Date"}

// Row is one student line in a report. All values are already formatted;
// optional fields carry NotAvailable when absent.
type Row struct {
	StudentID     string
	Name          string
	Email         string
	Gender        string
	Phone         string
	AdmissionDate string
}

// Cells returns the row values in Columns order.
func (r Row) Cells() []string {
	return []string{r.StudentID, r.Name, r.Email, r.Gender, r.Phone, r.AdmissionDate}
}

// Value substitutes NotAvailable for empty values.
func Value(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// OptionalValue substitutes NotAvailable for nil or empty optional values.
func OptionalValue(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return Value(*s)
}

// Document is a fully assembled report ready for rendering.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Rows        []Row
}

// Renderer encodes a document into one output format.
type Renderer interface {
	// Format identifies the encoding this renderer produces.
	Format() Format
	// Extension is the filename extension including the leading dot.
	Extension() string
	// Render writes the encoded document to w.
	Render(w io.Writer, doc *Document) error
}

// Registry holds the renderers enabled at configuration time.
type Registry struct {
	renderers map[Format]Renderer
	fallback  Renderer
}

// NewRegistry creates a registry with the guaranteed fallback renderer and
// any optional renderers enabled by configuration.
func NewRegistry(fallback Renderer, renderers ...Renderer) *Registry {
	reg := &Registry{
		renderers: make(map[Format]Renderer),
		fallback:  fallback,
	}
	reg.renderers[fallback.Format()] = fallback
	for _, r := range renderers {
		reg.renderers[r.Format()] = r
	}
	return reg
}

// Resolve returns the renderer for a format. When the format is not
// registered the fallback renderer is returned with degraded=true; the
// caller must surface the degradation as a warning, not a failure.
func (reg *Registry) Resolve(format Format) (renderer Renderer, degraded bool) {
	if r, ok := reg.renderers[format]; ok {
		return r, false
	}
	return reg.fallback, true
}
