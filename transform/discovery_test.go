package transform

import (
	"os"
	"path/filepath"
	"testing"
)

func makeFolder(t *testing.T, dataDir, name string, files ...string) {
	t.Helper()

	dir := filepath.Join(dataDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func TestDiscoverFolders(t *testing.T) {
	dataDir := t.TempDir()
	makeFolder(t, dataDir, "2024-Q4", "report.xlsx")
	makeFolder(t, dataDir, "2024-Q3", "report.xls")
	makeFolder(t, dataDir, "notes", "readme.txt")
	makeFolder(t, dataDir, "2025-output", "result.xlsx")
	makeFolder(t, dataDir, ".hidden", "data.xlsx")

	folders, err := DiscoverFolders(dataDir)
	if err != nil {
		t.Fatalf("DiscoverFolders returned error: %v", err)
	}

	// Папки без Excel, служебные и скрытые не попадают в список
	expected := []string{"2024-Q3", "2024-Q4"}
	if len(folders) != len(expected) {
		t.Fatalf("folders = %v, expected %v", folders, expected)
	}
	for i, name := range expected {
		if folders[i] != name {
			t.Errorf("folder[%d] = %q, expected %q", i, folders[i], name)
		}
	}
}

func TestListExcelFiles(t *testing.T) {
	dataDir := t.TempDir()
	makeFolder(t, dataDir, "2024-Q4",
		"b_report.xlsx", "a_report.xls", "~$a_report.xlsx", "notes.txt")

	files, err := ListExcelFiles(filepath.Join(dataDir, "2024-Q4"))
	if err != nil {
		t.Fatalf("ListExcelFiles returned error: %v", err)
	}

	// Временные файлы Excel и посторонние расширения отброшены,
	// порядок отсортирован
	expected := []string{"a_report.xls", "b_report.xlsx"}
	if len(files) != len(expected) {
		t.Fatalf("files = %v, expected %v", files, expected)
	}
	for i, name := range expected {
		if files[i] != name {
			t.Errorf("file[%d] = %q, expected %q", i, files[i], name)
		}
	}
}

func TestListExcelFilesMissingFolder(t *testing.T) {
	if _, err := ListExcelFiles(filepath.Join(t.TempDir(), "no-such-folder")); err == nil {
		t.Error("expected error for missing folder")
	}
}

func TestValidateFolders(t *testing.T) {
	available := []string{"2024-Q3", "2024-Q4", "2025-Q1"}

	valid, invalid := ValidateFolders([]string{"2024-Q4", "2024-Q5", "2025-Q1"}, available)

	if len(valid) != 2 || valid[0] != "2024-Q4" || valid[1] != "2025-Q1" {
		t.Errorf("valid = %v, expected [2024-Q4 2025-Q1]", valid)
	}
	if len(invalid) != 1 || invalid[0] != "2024-Q5" {
		t.Errorf("invalid = %v, expected [2024-Q5]", invalid)
	}
}

func TestSuggestSimilarFolders(t *testing.T) {
	available := []string{"2024-Q3", "2024-Q4", "archive"}

	// Опечатка в одном символе: близкая длина и общий набор символов
	suggestions := SuggestSimilarFolders("2024-Q5", available)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions for a near-miss folder name")
	}
	found := false
	for _, s := range suggestions {
		if s == "2024-Q4" {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions %v should contain 2024-Q4", suggestions)
	}

	// Вхождение подстроки
	suggestions = SuggestSimilarFolders("arch", available)
	if len(suggestions) != 1 || suggestions[0] != "archive" {
		t.Errorf("suggestions = %v, expected [archive]", suggestions)
	}

	// Совсем непохожее имя
	if got := SuggestSimilarFolders("zzzzzzzzzzz", available); len(got) != 0 {
		t.Errorf("expected no suggestions, got %v", got)
	}
}
