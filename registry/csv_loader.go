package registry

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LoadCSV загружает индекс реестра из CSV-экспорта с колонками
// project_id, project_name, status. Экспорты из старых таблиц встречаются
// не только в UTF-8, поэтому при невалидном UTF-8 пробуем cp1251 и cp1252.
func LoadCSV(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	decoded, err := decodeLegacyBytes(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV is too short, expected header row and at least one data row")
	}

	// Определяем индексы колонок по заголовку
	header := records[0]
	colID, colName, colStatus := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "project_id", "project id":
			colID = i
		case "project_name", "project name":
			colName = i
		case "status":
			colStatus = i
		}
	}
	if colID == -1 {
		return nil, fmt.Errorf("required column %q not found in CSV header", "project_id")
	}
	if colName == -1 {
		return nil, fmt.Errorf("required column %q not found in CSV header", "project_name")
	}

	idx := NewIndex()
	for _, row := range records[1:] {
		if colID >= len(row) || strings.TrimSpace(row[colID]) == "" {
			continue
		}

		record := ProjectRecord{
			ProjectID: strings.TrimSpace(row[colID]),
			Status:    StatusUnknown,
		}
		if colName < len(row) {
			record.ProjectName = strings.TrimSpace(row[colName])
		}
		if colStatus != -1 && colStatus < len(row) && strings.TrimSpace(row[colStatus]) != "" {
			record.Status = ProjectStatus(strings.TrimSpace(row[colStatus]))
		}

		if err := idx.Add(record); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// LoadCSVFile загружает индекс реестра из CSV-файла
func LoadCSVFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry CSV: %w", err)
	}
	defer file.Close()

	idx, err := LoadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry from %s: %w", path, err)
	}
	return idx, nil
}

// decodeLegacyBytes приводит данные к UTF-8. Валидный UTF-8 возвращается
// как есть, иначе пробуем однобайтовые кодировки старых экспортов.
func decodeLegacyBytes(data []byte) ([]byte, error) {
	// BOM от Excel-экспортов
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(data) {
		return data, nil
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1251, charmap.Windows1252} {
		decoded, _, err := transform.Bytes(cm.NewDecoder(), data)
		if err == nil && utf8.Valid(decoded) {
			return decoded, nil
		}
	}

	return nil, fmt.Errorf("could not decode CSV data with any supported encoding")
}
