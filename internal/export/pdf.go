package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 7.0
	pdfFontSize  = 9.0
)

// pdfWriter lays the rows out as a bordered table on landscape A4 pages,
// repeating the header row at the top of every page.
type pdfWriter struct {
	out       io.Writer
	pdf       *gofpdf.Fpdf
	translate func(string) string
	headers   []string
	widths    []float64
}

func newPDFWriter(out io.Writer) *pdfWriter {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTextColor(33, 37, 41)
	pdf.AddPage()
	return &pdfWriter{
		out:       out,
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (p *pdfWriter) WriteHeader(headers []string) error {
	p.headers = headers
	p.widths = make([]float64, len(headers))
	if len(headers) > 0 {
		pageWidth, _ := p.pdf.GetPageSize()
		col := (pageWidth - 2*pdfMargin) / float64(len(headers))
		for i := range p.widths {
			p.widths[i] = col
		}
	}
	p.headerRow()
	return p.pdf.Error()
}

func (p *pdfWriter) headerRow() {
	p.pdf.SetFont("Arial", "B", pdfFontSize)
	p.pdf.SetFillColor(240, 240, 240)
	for i, h := range p.headers {
		p.cell(i, h, true)
	}
	p.pdf.Ln(pdfRowHeight)
	p.pdf.SetFont("Arial", "", pdfFontSize)
}

func (p *pdfWriter) WriteRow(values []any) error {
	_, pageHeight := p.pdf.GetPageSize()
	if p.pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
		p.pdf.AddPage()
		p.headerRow()
	}
	for i, v := range values {
		if i >= len(p.widths) {
			break
		}
		p.cell(i, fmt.Sprint(v), false)
	}
	p.pdf.Ln(pdfRowHeight)
	return p.pdf.Error()
}

// cell writes text clipped to the column width.
func (p *pdfWriter) cell(col int, text string, fill bool) {
	text = p.translate(text)
	width := p.widths[col]
	if p.pdf.GetStringWidth(text) > width-2 {
		runes := []rune(text)
		for len(runes) > 0 && p.pdf.GetStringWidth(string(runes)+"...") > width-2 {
			runes = runes[:len(runes)-1]
		}
		text = string(runes) + "..."
	}
	p.pdf.CellFormat(width, pdfRowHeight, text, "1", 0, "L", fill, 0, "")
}

func (p *pdfWriter) Close() error {
	if err := p.pdf.Output(p.out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
