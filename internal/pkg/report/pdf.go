package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer writes a tabular PDF document: fixed title, generation
// timestamp, a styled header row and one row per record.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (*PDFRenderer) Format() Format {
	return FormatPDF
}

func (*PDFRenderer) Extension() string {
	return ".pdf"
}

// Column widths in millimeters, matching the Columns order.
var pdfColumnWidths = []float64{24, 40, 48, 20, 30, 28}

// Render writes the document as a PDF.
func (*PDFRenderer) Render(w io.Writer, doc *Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(26, 26, 26)
	pdf.CellFormat(0, 12, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on: "+doc.GeneratedAt.Format("January 2, 2006 at 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(74, 144, 226)
	pdf.SetTextColor(255, 255, 255)
	for i, column := range Columns {
		pdf.CellFormat(pdfColumnWidths[i], 9, column, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Data rows with alternating backgrounds
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for rowIdx, row := range doc.Rows {
		if rowIdx%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(211, 211, 211)
		}
		for i, cell := range row.Cells() {
			pdf.CellFormat(pdfColumnWidths[i], 8, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
