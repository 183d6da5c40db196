package transform

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"rbmfprocessor/matching"
	"rbmfprocessor/workbook"
)

var quarterlyHeaders = []string{
	"Reporting Year - Quarter", "Indicator_ID", "Primary Outcome Area",
	"Result_Type_Data", "Indicators", "Project Output",
	"Output Target Number", "Completed Output Number",
	"Project Output Status", "Progress Notes/Comments",
	"Supporting Document", "Country",
}

func writeQuarterlyBook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(workbook.DataSheetName); err != nil {
		t.Fatalf("failed to create data sheet: %v", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("failed to delete default sheet: %v", err)
	}

	all := append([][]string{quarterlyHeaders}, rows...)
	for rowIdx, row := range all {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err := f.SetCellValue(workbook.DataSheetName, cell, value); err != nil {
				t.Fatalf("failed to set cell: %v", err)
			}
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save quarterly workbook: %v", err)
	}
	return path
}

func quarterlyTestRow(cycle, indicatorID, completed, status string) []string {
	return []string{
		cycle, indicatorID, "Improved water access", "Output",
		"Wells constructed", "Community wells",
		"10", completed, status, "On track", "photos.zip", "Timor-Leste",
	}
}

func TestTransformFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeQuarterlyBook(t, dir, "TLS_2024_Water Project.xlsx", [][]string{
		quarterlyTestRow("2024-Q1", "IND 001", "3", "In Progress"),
		quarterlyTestRow("2024-Q2", "IND 001", "2", "Completed"),
		quarterlyTestRow("2024-Q3", "IND 001", "4", "In Progress"),
	})
	dstPath := filepath.Join(dir, "out.xlsx")

	report := matching.NewMappingReport(0.6)
	report.Record("2024-Q4", "TLS_2024_Water Project.xlsx", matching.MatchResult{
		MatchedProjectID: "ETP-001-TLS-01",
		Confidence:       1.0,
		Kind:             matching.MatchExact,
	})

	tr := NewTransformer(nil)
	tr.SetMapping(report)

	result, err := tr.TransformFile(srcPath, dstPath, Options{})
	if err != nil {
		t.Fatalf("TransformFile returned error: %v", err)
	}

	if result.QuarterlyRows != 3 {
		t.Errorf("quarterly rows = %d, expected 3", result.QuarterlyRows)
	}
	// Q1+Q2 сворачиваются в одно полугодие, Q3 остается отдельным
	if result.HalfYearRows != 2 {
		t.Errorf("half year rows = %d, expected 2", result.HalfYearRows)
	}
	if result.ProjectID != "ETP-001-TLS-01" {
		t.Errorf("project id = %q, expected ETP-001-TLS-01", result.ProjectID)
	}

	final, err := workbook.ReadTable(dstPath, workbook.FinalSheetName)
	if err != nil {
		t.Fatalf("failed to read final sheet: %v", err)
	}
	if final.Len() != 2 {
		t.Fatalf("final rows = %d, expected 2", final.Len())
	}

	first := final.Rows[0]
	if first["Target Reporting Cycle"] != "2024H1" {
		t.Errorf("target cycle = %q, expected 2024H1 without dash", first["Target Reporting Cycle"])
	}
	if first["Periodical Result"] != "5" {
		t.Errorf("periodical result = %q, expected summed 5", first["Periodical Result"])
	}
	if first["Indicator Status"] != "Completed" {
		t.Errorf("indicator status = %q, expected Completed", first["Indicator Status"])
	}
	if first["Project ID"] != "ETP-001-TLS-01" {
		t.Errorf("project id = %q, expected mapped value", first["Project ID"])
	}
	if first["Indicator ID"] != "IND001" {
		t.Errorf("indicator id = %q, expected IND001", first["Indicator ID"])
	}
	if first["Strategic Outcome"] != "Improved water access" {
		t.Errorf("strategic outcome = %q, expected source value", first["Strategic Outcome"])
	}

	second := final.Rows[1]
	if second["Target Reporting Cycle"] != "2024H2" {
		t.Errorf("second target cycle = %q, expected 2024H2", second["Target Reporting Cycle"])
	}
}

func TestTransformFileWithoutMapping(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeQuarterlyBook(t, dir, "unknown.xlsx", [][]string{
		quarterlyTestRow("2024-Q1", "IND 001", "1", ""),
	})
	dstPath := filepath.Join(dir, "out.xlsx")

	result, err := NewTransformer(nil).TransformFile(srcPath, dstPath, Options{})
	if err != nil {
		t.Fatalf("TransformFile returned error: %v", err)
	}
	if result.ProjectID != UnknownProjectID {
		t.Errorf("project id = %q, expected %q", result.ProjectID, UnknownProjectID)
	}
}

func TestTransformFileIncludeSteps(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeQuarterlyBook(t, dir, "steps.xlsx", [][]string{
		quarterlyTestRow("2024-Q1", "IND 001", "1", ""),
	})
	dstPath := filepath.Join(dir, "out.xlsx")

	if _, err := NewTransformer(nil).TransformFile(srcPath, dstPath, Options{IncludeSteps: true}); err != nil {
		t.Fatalf("TransformFile returned error: %v", err)
	}

	f, err := excelize.OpenFile(dstPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	for _, name := range []string{workbook.QuarterlySheetName, workbook.HalfYearSheetName, workbook.FinalSheetName} {
		if idx, err := f.GetSheetIndex(name); err != nil || idx == -1 {
			t.Errorf("sheet %s is missing from the output", name)
		}
	}
}

func TestTransformFileApplyFilter(t *testing.T) {
	dir := t.TempDir()
	// Один показатель с достигнутым результатом и нулевым полугодием
	srcPath := writeQuarterlyBook(t, dir, "filtered.xlsx", [][]string{
		quarterlyTestRow("2024-Q1", "IND 001", "0", ""),
		quarterlyTestRow("2024-Q3", "IND 001", "4", ""),
	})
	dstPath := filepath.Join(dir, "out.xlsx")

	if _, err := NewTransformer(nil).TransformFile(srcPath, dstPath, Options{ApplyFilter: true}); err != nil {
		t.Fatalf("TransformFile returned error: %v", err)
	}

	final, err := workbook.ReadTable(dstPath, workbook.FinalSheetName)
	if err != nil {
		t.Fatalf("failed to read final sheet: %v", err)
	}

	// Нулевое полугодие теряет цель, результативное сохраняет
	if final.Rows[0]["Periodical Target"] != "" {
		t.Errorf("zero-result target = %q, expected blank", final.Rows[0]["Periodical Target"])
	}
	if final.Rows[1]["Periodical Target"] != "10" {
		t.Errorf("positive-result target = %q, expected 10", final.Rows[1]["Periodical Target"])
	}
}

func TestTransformFileMissingSource(t *testing.T) {
	dstPath := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := NewTransformer(nil).TransformFile("no-such-file.xlsx", dstPath, Options{}); err == nil {
		t.Error("expected error for missing source file")
	}
}
