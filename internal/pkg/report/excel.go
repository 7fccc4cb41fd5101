package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Students Report"

// Column width bounds in characters.
const (
	excelMinColumnWidth = 10
	excelMaxColumnWidth = 50
)

// ExcelRenderer writes an XLSX workbook: one styled header row, one row per
// record, columns sized to their content.
type ExcelRenderer struct{}

// NewExcelRenderer creates an ExcelRenderer.
func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (*ExcelRenderer) Format() Format {
	return FormatExcel
}

func (*ExcelRenderer) Extension() string {
	return ".xlsx"
}

// Render writes the document as an XLSX workbook.
func (*ExcelRenderer) Render(w io.Writer, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", excelSheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4A90E2"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(Columns))
	for i, column := range Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(excelSheetName, cell, column); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
		widths[i] = len(column)
	}

	lastHeaderCell, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return fmt.Errorf("failed to compute header range: %w", err)
	}
	if err := f.SetCellStyle(excelSheetName, "A1", lastHeaderCell, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for rowIdx, row := range doc.Rows {
		for colIdx, value := range row.Cells() {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := f.SetCellValue(excelSheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
			if len(value) > widths[colIdx] {
				widths[colIdx] = len(value)
			}
		}
	}

	for i, width := range widths {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}
		adjusted := width + 2
		if adjusted < excelMinColumnWidth {
			adjusted = excelMinColumnWidth
		}
		if adjusted > excelMaxColumnWidth {
			adjusted = excelMaxColumnWidth
		}
		if err := f.SetColWidth(excelSheetName, colName, colName, float64(adjusted)); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
