package aggregation

import (
	"strings"
	"testing"
)

func quarterlyRow(cycle, indicatorID, completed, status, output string) Row {
	return Row{
		ColReportingCycle:   cycle,
		ColIndicatorID:      indicatorID,
		ColCompletedOutputs: completed,
		ColOutputStatus:     status,
		ColProjectOutput:    output,
		"Country":           "Timor-Leste",
	}
}

func quarterlyTable(rows ...Row) *Table {
	tbl := NewTable(ColReportingCycle, ColIndicatorID, ColCompletedOutputs,
		ColOutputStatus, ColProjectOutput, "Country")
	for _, r := range rows {
		tbl.Append(r)
	}
	return tbl
}

func TestPrepareQuarterly(t *testing.T) {
	tbl := quarterlyTable(
		quarterlyRow("2024-Q1", "IND 001", "3", "In Progress", "Wells drilled"),
		quarterlyRow("2024-Q3", "IND 002", "1", "Completed", "Pumps installed"),
	)

	agg := NewAggregator()
	prepared, err := agg.PrepareQuarterly(tbl)
	if err != nil {
		t.Fatalf("PrepareQuarterly returned error: %v", err)
	}

	// Производные колонки встают сразу после отчетного периода
	expected := []string{ColReportingCycle, ColYear, ColQuarter, ColHalfYear,
		ColIndicatorID, ColID, ColCompletedOutputs, ColOutputStatus,
		ColProjectOutput, "Country"}
	for i, col := range expected {
		if prepared.Columns[i] != col {
			t.Fatalf("column[%d] = %q, expected %q (all: %v)", i, prepared.Columns[i], col, prepared.Columns)
		}
	}

	first := prepared.Rows[0]
	if first[ColYear] != "2024" || first[ColQuarter] != "1" || first[ColHalfYear] != "H1" {
		t.Errorf("derived fields = %q/%q/%q, expected 2024/1/H1",
			first[ColYear], first[ColQuarter], first[ColHalfYear])
	}
	// ID - это Indicator_ID без пробелов
	if first[ColID] != "IND001" {
		t.Errorf("ID = %q, expected IND001", first[ColID])
	}

	second := prepared.Rows[1]
	if second[ColHalfYear] != "H2" {
		t.Errorf("half = %q, expected H2", second[ColHalfYear])
	}
}

func TestPrepareQuarterlyBadCycle(t *testing.T) {
	// Неразбираемый период не прерывает обработку:
	// производные поля остаются пустыми
	tbl := quarterlyTable(
		quarterlyRow("garbage", "IND 001", "3", "", ""),
		quarterlyRow("2024-Q2", "IND 002", "1", "", ""),
	)

	prepared, err := NewAggregator().PrepareQuarterly(tbl)
	if err != nil {
		t.Fatalf("PrepareQuarterly returned error: %v", err)
	}
	if prepared.Len() != 2 {
		t.Fatalf("rows = %d, expected 2", prepared.Len())
	}
	if prepared.Rows[0][ColYear] != "" || prepared.Rows[0][ColHalfYear] != "" {
		t.Errorf("bad row should have empty derived fields: %v", prepared.Rows[0])
	}
	if prepared.Rows[1][ColYear] != "2024" {
		t.Errorf("good row should still be parsed: %v", prepared.Rows[1])
	}
}

func TestPrepareQuarterlyMissingColumn(t *testing.T) {
	tbl := NewTable("Something")
	if _, err := NewAggregator().PrepareQuarterly(tbl); err == nil {
		t.Error("expected error for table without reporting cycle column")
	}
}

func TestAggregateSum(t *testing.T) {
	tbl := quarterlyTable(
		quarterlyRow("2024-Q1", "IND 001", "3", "In Progress", "Wells drilled"),
		quarterlyRow("2024-Q2", "IND 001", "2", "Completed", "Wells drilled"),
	)
	prepared, err := NewAggregator().PrepareQuarterly(tbl)
	if err != nil {
		t.Fatalf("PrepareQuarterly returned error: %v", err)
	}

	result, warnings, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if result.Len() != 1 {
		t.Fatalf("rows = %d, expected 1", result.Len())
	}

	row := result.Rows[0]
	// Суммирующая колонка переименована в итоговую
	if row[ColTotalOutputs] != "5" {
		t.Errorf("total outputs = %q, expected 5", row[ColTotalOutputs])
	}
	if _, ok := row[ColCompletedOutputs]; ok {
		t.Error("quarterly sum column should be renamed in the result")
	}
	if !result.HasColumn(ColTotalOutputs) {
		t.Error("result should contain the renamed total column")
	}

	// Полугодие получает префикс года
	if row[ColHalfYear] != "2024-H1" {
		t.Errorf("half year = %q, expected 2024-H1", row[ColHalfYear])
	}
	// Кварталы склеиваются через точку с запятой
	if row[ColReportingCycle] != "2024-Q1; 2024-Q2" {
		t.Errorf("reporting cycle = %q, expected joined quarters", row[ColReportingCycle])
	}
	// Completed побеждает In Progress
	if row[ColOutputStatus] != "Completed" {
		t.Errorf("status = %q, expected Completed", row[ColOutputStatus])
	}
	// Одинаковые описания не дублируются
	if row[ColProjectOutput] != "Wells drilled" {
		t.Errorf("project output = %q, expected single value as-is", row[ColProjectOutput])
	}
}

func TestAggregateSeparateHalves(t *testing.T) {
	// Кварталы разных полугодий не сливаются
	tbl := quarterlyTable(
		quarterlyRow("2024-Q2", "IND 001", "1", "", ""),
		quarterlyRow("2024-Q3", "IND 001", "2", "", ""),
		quarterlyRow("2025-Q1", "IND 001", "4", "", ""),
	)
	prepared, _ := NewAggregator().PrepareQuarterly(tbl)

	result, _, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if result.Len() != 3 {
		t.Fatalf("rows = %d, expected 3 separate half-year groups", result.Len())
	}

	halves := []string{"2024-H1", "2024-H2", "2025-H1"}
	for i, expected := range halves {
		if result.Rows[i][ColHalfYear] != expected {
			t.Errorf("row %d half year = %q, expected %q", i, result.Rows[i][ColHalfYear], expected)
		}
	}
}

func TestAggregateBulletMerge(t *testing.T) {
	tbl := quarterlyTable(
		quarterlyRow("2024-Q1", "IND 001", "1", "", "Wells drilled"),
		quarterlyRow("2024-Q2", "IND 001", "1", "", "Pumps installed"),
	)
	prepared, _ := NewAggregator().PrepareQuarterly(tbl)

	result, _, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	expected := "- Wells drilled\n- Pumps installed"
	if got := result.Rows[0][ColProjectOutput]; got != expected {
		t.Errorf("project output = %q, expected bullet list %q", got, expected)
	}
}

func TestAggregateFirstWinsWarning(t *testing.T) {
	rowA := quarterlyRow("2024-Q1", "IND 001", "1", "", "")
	rowA["Country"] = "Timor-Leste"
	rowB := quarterlyRow("2024-Q2", "IND 001", "1", "", "")
	rowB["Country"] = "Fiji"

	prepared, _ := NewAggregator().PrepareQuarterly(quarterlyTable(rowA, rowB))

	result, warnings, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	// Первое значение побеждает, расхождение фиксируется предупреждением
	if result.Rows[0]["Country"] != "Timor-Leste" {
		t.Errorf("country = %q, expected first value", result.Rows[0]["Country"])
	}

	found := false
	for _, w := range warnings {
		if w.Column == "Country" {
			found = true
			if w.DistinctCount != 2 {
				t.Errorf("distinct count = %d, expected 2", w.DistinctCount)
			}
			if !strings.Contains(w.GroupKey, "IND001") {
				t.Errorf("group key %q should contain the indicator ID", w.GroupKey)
			}
		}
	}
	if !found {
		t.Errorf("expected consistency warning for Country, got %v", warnings)
	}
}

func TestAggregateFirstAppearanceOrder(t *testing.T) {
	tbl := quarterlyTable(
		quarterlyRow("2024-Q1", "IND 002", "1", "", ""),
		quarterlyRow("2024-Q1", "IND 001", "1", "", ""),
		quarterlyRow("2024-Q2", "IND 002", "1", "", ""),
	)
	prepared, _ := NewAggregator().PrepareQuarterly(tbl)

	result, _, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	if result.Rows[0][ColID] != "IND002" || result.Rows[1][ColID] != "IND001" {
		t.Errorf("groups should keep first-appearance order, got %q then %q",
			result.Rows[0][ColID], result.Rows[1][ColID])
	}
}

func TestAggregateStatusPriorityInProgress(t *testing.T) {
	tbl := quarterlyTable(
		quarterlyRow("2024-Q1", "IND 001", "1", "Delayed", ""),
		quarterlyRow("2024-Q2", "IND 001", "1", "In Progress", ""),
	)
	prepared, _ := NewAggregator().PrepareQuarterly(tbl)

	result, _, err := NewAggregator().Aggregate(prepared)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if result.Rows[0][ColOutputStatus] != "In Progress" {
		t.Errorf("status = %q, expected In Progress over Delayed", result.Rows[0][ColOutputStatus])
	}
}

func TestAggregateMissingColumns(t *testing.T) {
	tbl := NewTable("A")
	if _, _, err := NewAggregator().Aggregate(tbl); err == nil {
		t.Error("expected error for table without derived columns")
	}
}
