package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 80

// TextRenderer writes the universal fallback encoding: fixed label/value
// lines per record separated by a rule. It has no external dependencies and
// is always registered.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (*TextRenderer) Format() Format {
	return FormatText
}

func (*TextRenderer) Extension() string {
	return ".txt"
}

// Render writes the document as plain text.
func (*TextRenderer) Render(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n", doc.Title)
	fmt.Fprintf(bw, "%s\n\n", strings.Repeat("=", ruleWidth))
	fmt.Fprintf(bw, "Generated on: %s\n\n", doc.GeneratedAt.Format("January 2, 2006 at 15:04"))

	for _, row := range doc.Rows {
		cells := row.Cells()
		for i, column := range Columns {
			fmt.Fprintf(bw, "%s: %s\n", column, cells[i])
		}
		fmt.Fprintf(bw, "%s\n\n", strings.Repeat("-", ruleWidth))
	}

	return bw.Flush()
}
