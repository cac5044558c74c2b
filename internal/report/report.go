// Package report exports the document inventory for offline review.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/intecdocs/docfinder/internal/models"
	"github.com/intecdocs/docfinder/internal/stats"
)

// Report is a point-in-time snapshot of the collection: every record plus
// the derived statistics.
type Report struct {
	GeneratedAt string                  `json:"generated_at"`
	Statistics  models.Statistics       `json:"statistics"`
	Documents   []models.DocumentRecord `json:"documentos"`
}

// Build assembles a report from the index.
func Build(index *models.Index, now time.Time) *Report {
	return &Report{
		GeneratedAt: now.Format(models.TimestampLayout),
		Statistics:  stats.Compute(index),
		Documents:   index.Documents,
	}
}

// WriteJSON writes the report as indented JSON. HTML escaping is off so
// accented names survive verbatim.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, picking the format by extension:
// ".xlsx" gets a workbook, anything else gets JSON.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return r.WriteXLSX(f)
	}
	return r.WriteJSON(f)
}

var xlsxHeader = []string{"ID", "Nombre original", "Categoría", "Confianza", "Fecha de subida", "Tamaño (KB)", "Extensión"}

// WriteXLSX writes the report as a workbook with a document sheet and a
// summary sheet.
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const docSheet = "Documentos"
	if err := f.SetSheetName("Sheet1", docSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for col, title := range xlsxHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(docSheet, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for row, doc := range r.Documents {
		values := []any{doc.ID, doc.OriginalName, doc.Category, doc.Confidence, doc.UploadedAt, doc.SizeKB, doc.Extension}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("document cell: %w", err)
			}
			if err := f.SetCellValue(docSheet, cell, v); err != nil {
				return fmt.Errorf("write document row %d: %w", row+1, err)
			}
		}
	}

	const sumSheet = "Resumen"
	if _, err := f.NewSheet(sumSheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"Generado", r.GeneratedAt},
		{"Total de documentos", r.Statistics.Total},
		{"Tamaño total (MB)", r.Statistics.TotalSizeMB},
		{"Confianza promedio (%)", r.Statistics.AvgConfidencePct},
	}
	for row, pair := range summary {
		for col, v := range pair {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return fmt.Errorf("summary cell: %w", err)
			}
			if err := f.SetCellValue(sumSheet, cell, v); err != nil {
				return fmt.Errorf("write summary row %d: %w", row+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
