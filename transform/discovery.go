package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// excludedFolders служебные и выходные папки, не содержащие отчетов
var excludedFolders = map[string]bool{
	"2025-output":       true,
	"2025-output-final": true,
	".git":              true,
	"__pycache__":       true,
	".pytest_cache":     true,
	"node_modules":      true,
	".vscode":           true,
	".idea":             true,
}

// DiscoverFolders находит в каталоге данных папки с Excel-файлами.
// Служебные папки и папки с точкой в начале имени пропускаются,
// результат отсортирован для детерминированной обработки.
func DiscoverFolders(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dataDir, err)
	}

	var folders []string
	for _, entry := range entries {
		if !entry.IsDir() || excludedFolders[entry.Name()] || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		files, err := ListExcelFiles(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if len(files) > 0 {
			folders = append(folders, entry.Name())
		}
	}

	sort.Strings(folders)
	return folders, nil
}

// ListExcelFiles возвращает отсортированные имена Excel-файлов папки.
// Временные файлы Excel (префикс "~$") пропускаются.
func ListExcelFiles(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", folderPath, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".xlsx" || ext == ".xls" {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	return files, nil
}

// ValidateFolders делит запрошенные папки на существующие и неизвестные
func ValidateFolders(requested, available []string) (valid, invalid []string) {
	known := make(map[string]bool, len(available))
	for _, name := range available {
		known[name] = true
	}

	for _, name := range requested {
		if known[name] {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}

	return valid, invalid
}

// SuggestSimilarFolders подбирает похожие имена папок для опечаток:
// вхождение подстроки либо близкая длина с большим пересечением
// набора символов
func SuggestSimilarFolders(target string, available []string) []string {
	const maxSuggestions = 3

	var suggestions []string
	targetLower := strings.ToLower(target)
	targetChars := charSet(targetLower)

	for _, folder := range available {
		folderLower := strings.ToLower(folder)

		if strings.Contains(folderLower, targetLower) || strings.Contains(targetLower, folderLower) {
			suggestions = append(suggestions, folder)
			continue
		}

		if abs(len(target)-len(folder)) <= 2 {
			overlap := 0
			for ch := range charSet(folderLower) {
				if targetChars[ch] {
					overlap++
				}
			}
			if float64(overlap) >= float64(len(targetChars))*0.6 {
				suggestions = append(suggestions, folder)
			}
		}

		if len(suggestions) >= maxSuggestions {
			break
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
