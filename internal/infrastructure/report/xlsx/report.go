// Package xlsx renders a batch outcome as an Excel workbook with Summary,
// Documents and Failures sheets.
package xlsx

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/dept-intake/internal/core/domain"
)

const (
	sheetSummary   = "Summary"
	sheetDocuments = "Documents"
	sheetFailures  = "Failures"
)

var (
	summaryHeaders  = []string{"department", "documents", "high_priority", "with_deadline"}
	documentHeaders = []string{"department", "original_filename", "processed_filename", "document_type", "priority", "deadline", "summary", "key_points", "action_items", "processed_at"}
	failureHeaders  = []string{"file", "reason"}
)

// Build lays out the workbook. Departments appear in declaration order.
func Build(outcome *domain.BatchOutcome) (*excelize.File, error) {
	if outcome == nil {
		outcome = domain.NewBatchOutcome()
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, sheet := range []string{sheetDocuments, sheetFailures} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}

	if err := writeRow(f, sheetSummary, 1, toCells(summaryHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, sheetDocuments, 1, toCells(documentHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, sheetFailures, 1, toCells(failureHeaders)); err != nil {
		return nil, err
	}

	summaryRow, docRow := 2, 2
	for _, dept := range domain.AllDepartments() {
		results := outcome.ByDepartment[dept]
		high, withDeadline := 0, 0
		for _, result := range results {
			if result.Priority == domain.PriorityHigh {
				high++
			}
			if result.HasDeadline() {
				withDeadline++
			}
			if err := writeRow(f, sheetDocuments, docRow, documentCells(result)); err != nil {
				return nil, err
			}
			docRow++
		}
		if err := writeRow(f, sheetSummary, summaryRow, []any{string(dept), len(results), high, withDeadline}); err != nil {
			return nil, err
		}
		summaryRow++
	}

	for i, failure := range outcome.Failures {
		name := failure.File.OriginalFilename
		if name == "" {
			name = failure.File.Key
		}
		if err := writeRow(f, sheetFailures, i+2, []any{name, failure.Reason}); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(sheetSummary, "A", "A", 16)
	_ = f.SetColWidth(sheetDocuments, "B", "C", 36)
	_ = f.SetColWidth(sheetDocuments, "G", "I", 60)
	_ = f.SetColWidth(sheetFailures, "A", "B", 48)
	return f, nil
}

func Write(w io.Writer, outcome *domain.BatchOutcome) error {
	f, err := Build(outcome)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func WriteFile(path string, outcome *domain.BatchOutcome) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := Write(out, outcome); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func documentCells(result domain.ClassificationResult) []any {
	deadline := ""
	if result.Deadline != nil {
		deadline = *result.Deadline
	}
	return []any{
		string(result.Department),
		result.File.OriginalFilename,
		result.ProcessedFilename,
		string(result.DocumentType),
		string(result.Priority),
		deadline,
		result.Summary,
		strings.Join(result.KeyPoints, "\n"),
		strings.Join(result.ActionItems, "\n"),
		result.ProcessedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolve cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
