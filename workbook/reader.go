// Package workbook читает и записывает книги Excel с отчетностью
// по показателям. Данные представляются таблицей aggregation.Table,
// чтобы слои обработки не зависели от формата файла.
package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"rbmfprocessor/aggregation"
)

// DataSheetName имя листа с квартальными данными во входной книге
const DataSheetName = "RBMF"

// ReadTable читает лист Excel-книги в таблицу. Первая строка листа
// считается заголовком, полностью пустые строки пропускаются.
func ReadTable(filePath, sheetName string) (*aggregation.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return readSheet(f, filePath, sheetName)
}

// ReadDataSheet читает лист RBMF входной книги. Если листа RBMF нет,
// берется первый лист книги.
func ReadDataSheet(filePath string) (*aggregation.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := DataSheetName
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx == -1 {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("no sheets found in Excel file %s", filePath)
		}
	}

	return readSheet(f, filePath, sheetName)
}

func readSheet(f *excelize.File, filePath, sheetName string) (*aggregation.Table, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s in %s is empty, expected at least a header row", sheetName, filePath)
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}
	// Отбрасываем пустые заголовки хвоста
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("sheet %s in %s has no column headers", sheetName, filePath)
	}

	tbl := &aggregation.Table{Columns: headers}

	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		record := make(aggregation.Row, len(headers))
		for i, col := range headers {
			if i < len(row) {
				record[col] = strings.TrimSpace(row[i])
			} else {
				record[col] = ""
			}
		}
		tbl.Append(record)
	}

	return tbl, nil
}

// isEmptyRow проверяет, является ли строка пустой
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
