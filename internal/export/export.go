// Package export writes list results as CSV, Excel or PDF downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

const (
	contentTypeCSV   = "text/csv"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"
)

// ParseFormat accepts the values of the export query parameter.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case FormatCSV, FormatExcel, FormatPDF:
		return Format(raw), true
	}
	return "", false
}

func (f Format) ContentType() string {
	switch f {
	case FormatExcel:
		return contentTypeExcel
	case FormatPDF:
		return contentTypePDF
	}
	return contentTypeCSV
}

func (f Format) Extension() string {
	switch f {
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	}
	return "csv"
}

// Filename returns base with the extension of the format, e.g. "treatments.xlsx".
func (f Format) Filename(base string) string {
	return base + "." + f.Extension()
}

// Writer receives one header row followed by data rows. Close flushes the
// document to the underlying io.Writer.
type Writer interface {
	WriteHeader(headers []string) error
	WriteRow(values []any) error
	Close() error
}

func NewWriter(format Format, w io.Writer) (Writer, error) {
	switch format {
	case FormatCSV:
		return &csvWriter{w: csv.NewWriter(w)}, nil
	case FormatExcel:
		return newExcelWriter(w)
	case FormatPDF:
		return newPDFWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

type csvWriter struct {
	w *csv.Writer
}

func (c *csvWriter) WriteHeader(headers []string) error {
	return c.w.Write(headers)
}

func (c *csvWriter) WriteRow(values []any) error {
	record := make([]string, len(values))
	for i, v := range values {
		record[i] = fmt.Sprint(v)
	}
	return c.w.Write(record)
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}

const sheetName = "Sheet1"

type excelWriter struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	bold   int
	row    int
}

func newExcelWriter(out io.Writer) (*excelWriter, error) {
	f := excelize.NewFile()
	stream, err := f.NewStreamWriter(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create stream writer: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return &excelWriter{out: out, file: f, stream: stream, bold: bold}, nil
}

func (e *excelWriter) WriteHeader(headers []string) error {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = excelize.Cell{StyleID: e.bold, Value: h}
	}
	return e.next(cells)
}

func (e *excelWriter) WriteRow(values []any) error {
	return e.next(values)
}

func (e *excelWriter) next(cells []any) error {
	e.row++
	cell, err := excelize.CoordinatesToCellName(1, e.row)
	if err != nil {
		return err
	}
	if err := e.stream.SetRow(cell, cells); err != nil {
		return fmt.Errorf("write row %d: %w", e.row, err)
	}
	return nil
}

func (e *excelWriter) Close() error {
	defer e.file.Close()

	if err := e.stream.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := e.file.WriteTo(e.out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
