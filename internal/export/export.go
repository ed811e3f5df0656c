// Package export serializes report rows to CSV and XLSX files and delivers
// them as HTTP attachments or files on disk.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fleet-dashboard/internal/metrics"
	"fleet-dashboard/internal/models"
)

// ErrUnknownFormat is returned for formats other than csv and xlsx
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export file format
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// Content types of the export formats
const (
	CSVContentType  = "text/csv;charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// maxSheetName is the longest sheet name Excel accepts
const maxSheetName = 31

// ParseFormat reads a format name, defaulting to CSV when empty
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// File is one export ready to be encoded
type File struct {
	// Report is the id of the exported report, used for metrics
	Report string
	// Filename is the canonical .csv name; other formats swap the extension
	Filename string
	Format   Format
	Rows     []models.Record
}

// Name is the filename for the file format
func (f File) Name() string {
	base := strings.TrimSuffix(f.Filename, filepath.Ext(f.Filename))
	if base == "" {
		base = "export"
	}
	return base + "." + string(f.format())
}

// ContentType is the MIME type of the file format
func (f File) ContentType() string {
	if f.format() == XLSX {
		return XLSXContentType
	}
	return CSVContentType
}

func (f File) format() Format {
	if f.Format == "" {
		return CSV
	}
	return f.Format
}

// Encode writes the file to w
func (f File) Encode(w io.Writer) error {
	switch f.format() {
	case CSV:
		return WriteCSV(w, f.Rows)
	case XLSX:
		return WriteXLSX(w, sheetName(f.Filename), f.Rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f.Format)
}

// Header is the key set of the first row
func Header(rows []models.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	fields := rows[0].Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Key
	}
	return out
}

// values returns the values of r in header order
func values(header []string, r models.Record) []any {
	byKey := make(map[string]any, len(header))
	for _, f := range r.Fields() {
		byKey[f.Key] = f.Value
	}
	out := make([]any, len(header))
	for i, k := range header {
		out[i] = byKey[k]
	}
	return out
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// WriteCSV writes rows as comma separated values with a header line.
// Fields are quoted as needed. No rows produce an empty document.
func WriteCSV(w io.Writer, rows []models.Record) error {
	header := Header(rows)
	if header == nil {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, r := range rows {
		for i, v := range values(header, r) {
			record[i] = stringify(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes rows to a workbook with a single sheet and a bold header
func WriteXLSX(w io.Writer, sheet string, rows []models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Relatorio"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if f.GetSheetName(0) != sheet {
		f.DeleteSheet("Sheet1")
	}

	header := Header(rows)
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	if len(header) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
		})
		if err == nil {
			_ = f.SetRowStyle(sheet, 1, 1, style)
		}
	}

	for r, rec := range rows {
		for c, v := range values(header, rec) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("error writing cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func sheetName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" || name == "." {
		return "Relatorio"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// Serve sends f as an attachment
func Serve(w http.ResponseWriter, r *http.Request, f File) error {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return err
	}
	metrics.RecordExport(r.Context(), f.Report, string(f.format()), len(f.Rows))

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name()))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}

// Save writes f into dir and returns its path
func Save(ctx context.Context, dir string, f File) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, f.Name())

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := f.Encode(out); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	metrics.RecordExport(ctx, f.Report, string(f.format()), len(f.Rows))
	return path, nil
}
