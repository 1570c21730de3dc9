package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// Section is one titled table in a report.
type Section struct {
	Heading string
	Data    Dataset
}

// Report is a multi-section document.
type Report struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders reports into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render lays out every section as a bordered table under its heading.
// Sections without headers are skipped; a report with no renderable section fails.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	renderable := 0
	for _, s := range report.Sections {
		if len(s.Data.Headers) > 0 {
			renderable++
		}
	}
	if renderable == 0 {
		return nil, fmt.Errorf("pdf requires at least one section with headers")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetTitle(report.Title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if report.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, tr(report.Title), "", 1, "C", false, 0, "")
	}
	if report.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range report.Sections {
		if len(section.Data.Headers) == 0 {
			continue
		}
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", false, 0, "")
		}

		colWidth := pageWidth / float64(len(section.Data.Headers))
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(235, 235, 235)
		for _, header := range section.Data.Headers {
			pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		if len(section.Data.Rows) == 0 {
			pdf.CellFormat(pageWidth, 7, "No data", "1", 1, "C", false, 0, "")
		}
		for _, row := range section.Data.Rows {
			for _, header := range section.Data.Headers {
				pdf.CellFormat(colWidth, 7, tr(row[header]), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
