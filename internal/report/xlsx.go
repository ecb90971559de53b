// Package report renders a batch run as an XLSX workbook.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsort/constants"
	"github.com/joseph-ayodele/docsort/internal/pipeline"
)

const (
	documentsSheet = "Documents"
	summarySheet   = "Summary"
	skippedState   = "SKIPPED"
)

var headers = []string{
	"File",
	"Path Kind",
	"State",
	"Label",
	"Score",
	"Pages",
	"Artifact",
	"Quarantine",
	"Error",
	"Duration (ms)",
}

// XLSX returns the workbook bytes for rep: one row per document, including the
// ones left untouched by the processing cap, plus a run summary sheet.
func XLSX(rep pipeline.Report, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", documentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(documentsSheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(documentsSheet, cell, v)
	}
	for _, o := range rep.Outcomes {
		write(1, o.Name())
		write(2, string(o.Kind))
		write(3, string(o.State))
		write(4, string(o.Label))
		write(5, o.Score)
		write(6, o.Pages)
		write(7, o.Artifact)
		write(8, o.Quarantine)
		write(9, truncate(o.ErrText(), 500))
		write(10, o.Duration().Milliseconds())
		row++
	}
	for _, name := range rep.Skipped {
		write(1, name)
		write(3, skippedState)
		row++
	}

	_ = f.SetColWidth(documentsSheet, "A", "A", 32)
	_ = f.SetColWidth(documentsSheet, "B", "F", 14)
	_ = f.SetColWidth(documentsSheet, "G", "H", 60)
	_ = f.SetColWidth(documentsSheet, "I", "I", 80)
	_ = f.SetPanes(documentsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][2]any{
		{"Run ID", rep.RunID},
		{"Input Directory", rep.InputDir},
		{"Started", rep.Started.Format(time.RFC3339)},
		{"Finished", rep.Finished.Format(time.RFC3339)},
		{"Listed", rep.Listed},
		{"Processed", len(rep.Outcomes)},
		{"Done", rep.Count(constants.StateDone)},
		{"Errored", rep.Count(constants.StateErrored)},
		{"Skipped", len(rep.Skipped)},
		{"Aborted", strconv.FormatBool(rep.Aborted)},
	}
	for i, kv := range summary {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)

	idx, _ := f.GetSheetIndex(documentsSheet)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	logger.Info("report rendered", "run_id", rep.RunID, "rows", row-2, "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// WriteXLSX renders rep and writes it to path, creating parent directories.
func WriteXLSX(path string, rep pipeline.Report, logger *slog.Logger) error {
	b, err := XLSX(rep, logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
