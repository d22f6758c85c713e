package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/strucdoc/strata/outline"
)

// RunRecord is one document's row in a batch report.
type RunRecord struct {
	Input      string
	Title      string
	Entries    int
	Pages      int
	Fragments  int
	Conditions string
	Elapsed    time.Duration
	Err        string
}

// NewRunRecord flattens one engine result into a report row.
func NewRunRecord(input string, res *outline.Result) RunRecord {
	return RunRecord{
		Input:      input,
		Title:      res.Outline.Title,
		Entries:    len(res.Outline.Entries),
		Pages:      res.Stats.Pages,
		Fragments:  res.Stats.Fragments,
		Conditions: res.Conditions.String(),
		Elapsed:    res.Stats.Elapsed,
	}
}

// FailedRunRecord builds a report row for an input that never reached
// the engine.
func FailedRunRecord(input string, err error) RunRecord {
	return RunRecord{Input: input, Err: err.Error()}
}

var reportHeaders = []string{
	"Input", "Title", "Entries", "Pages", "Fragments",
	"Conditions", "Elapsed (ms)", "Error",
}

// BuildReport renders batch run records into a spreadsheet.
func BuildReport(records []RunRecord, logger *slog.Logger) (*bytes.Buffer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Runs"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create report sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for r, rec := range records {
		values := []any{
			rec.Input, rec.Title, rec.Entries, rec.Pages, rec.Fragments,
			rec.Conditions, rec.Elapsed.Milliseconds(), rec.Err,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("report cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 42); err != nil {
		return nil, fmt.Errorf("size input column: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
		return nil, fmt.Errorf("size title column: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "H", 14); err != nil {
		return nil, fmt.Errorf("size data columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	logger.Info("batch report rendered", slog.Int("rows", len(records)))
	return buf, nil
}

// WriteReport writes the batch report spreadsheet to path.
func WriteReport(path string, records []RunRecord, logger *slog.Logger) error {
	buf, err := BuildReport(records, logger)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
