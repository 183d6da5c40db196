package transform

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rbmfprocessor/matching"
)

// MapFolders сопоставляет файлы перечисленных папок с проектами
// реестра и собирает сводный отчет. Папка без файлов не ошибка,
// она просто не попадает в отчет.
func MapFolders(matcher *matching.Matcher, dataDir string, folders []string, threshold float64) (*matching.MappingReport, error) {
	report := matching.NewMappingReport(threshold)
	logger := slog.Default().With("component", "folder_mapper")

	for _, folder := range folders {
		files, err := ListExcelFiles(filepath.Join(dataDir, folder))
		if err != nil {
			return nil, err
		}

		for _, fileName := range files {
			result := matcher.MatchFileName(fileName)
			report.Record(folder, fileName, result)
		}

		logger.Info("Mapped folder",
			"folder", folder,
			"files", len(files))
	}

	return report, nil
}

// WriteMappingReport сохраняет отчет о сопоставлении в JSON-файл
func WriteMappingReport(path string, report *matching.MappingReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mapping report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode mapping report: %w", err)
	}

	return nil
}
