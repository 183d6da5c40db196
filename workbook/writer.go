package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"rbmfprocessor/aggregation"
)

// Имена листов итоговой книги
const (
	InstructionsSheetName = "Instructions"
	QuarterlySheetName    = "RBMF_1"
	HalfYearSheetName     = "RBMF_2"
	FinalSheetName        = "RBMF"
)

// Sheet один лист итоговой книги
type Sheet struct {
	Name  string
	Table *aggregation.Table
}

// instructionRows содержимое листа Instructions итоговой книги
var instructionRows = [][]string{
	{"RBMF Consolidated Report"},
	{},
	{"Sheet", "Description"},
	{QuarterlySheetName, "Quarterly rows with derived Year, Quarter and Half Year columns"},
	{HalfYearSheetName, "Rows aggregated to half-year reporting cycles"},
	{FinalSheetName, "Final consolidated report with mapped columns"},
	{},
	{"Dates in the Reporting Year - Quarter column use the YYYY-Q format."},
	{"Aggregated text columns keep one bullet per distinct quarterly value."},
}

// WriteWorkbook записывает листы в новую Excel-книгу. Первым листом
// всегда идет Instructions, остальные — в порядке переданного среза.
func WriteWorkbook(filePath string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeInstructions(f); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sheet := range sheets {
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return err
		}
	}

	// Excelize создает книгу с листом Sheet1, он не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}

	idx, err := f.GetSheetIndex(InstructionsSheetName)
	if err != nil {
		return fmt.Errorf("failed to locate instructions sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// writeInstructions заполняет лист Instructions
func writeInstructions(f *excelize.File) error {
	if _, err := f.NewSheet(InstructionsSheetName); err != nil {
		return fmt.Errorf("failed to create instructions sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	for rowIdx, row := range instructionRows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			f.SetCellValue(InstructionsSheetName, cell, value)
		}
	}
	f.SetCellStyle(InstructionsSheetName, "A1", "A1", titleStyle)
	f.SetColWidth(InstructionsSheetName, "A", "A", 20)
	f.SetColWidth(InstructionsSheetName, "B", "B", 70)

	return nil
}

// writeSheet записывает таблицу на лист с оформленным заголовком
func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	if _, err := f.NewSheet(sheet.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
	}

	for i, col := range sheet.Table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet.Name, cell, col)
		f.SetCellStyle(sheet.Name, cell, cell, headerStyle)
	}

	for rowIdx, row := range sheet.Table.Rows {
		for colIdx, col := range sheet.Table.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet.Name, cell, row[col])
		}
	}

	// Ширина по длине заголовка, в разумных пределах
	for i, col := range sheet.Table.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(col)) + 4
		if width < 12 {
			width = 12
		}
		if width > 40 {
			width = 40
		}
		f.SetColWidth(sheet.Name, name, name, width)
	}

	return nil
}
