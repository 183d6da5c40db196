package matching

import (
	"time"
)

// FolderStats статистика сопоставления файлов одной папки
type FolderStats struct {
	FolderName     string            `json:"folder_name"`
	TotalFiles     int               `json:"total_files"`
	MatchedFiles   int               `json:"matched_files"`
	ExactMatches   int               `json:"exact_matches"`
	FuzzyMatches   int               `json:"fuzzy_matches"`
	UnmatchedFiles int               `json:"unmatched_files"`
	Mappings       map[string]string `json:"mappings"`
	UnmatchedList  []string          `json:"unmatched_list"`
}

// MappingReport сводный отчет о сопоставлении файлов с реестром.
// Структура повторяет формат mapping-файла, который читают
// последующие шаги обработки.
type MappingReport struct {
	CreationDate        time.Time               `json:"creation_date"`
	MatchingThreshold   float64                 `json:"matching_threshold"`
	TotalFilesProcessed int                     `json:"total_files_processed"`
	TotalMatchesFound   int                     `json:"total_matches_found"`
	ExactMatches        int                     `json:"exact_matches"`
	FuzzyMatches        int                     `json:"fuzzy_matches"`
	Folders             map[string]*FolderStats `json:"folders"`
	UnmatchedCount      int                     `json:"unmatched_count"`
	UnmatchedFiles      []string                `json:"unmatched_files"`

	folderOrder []string
}

// NewMappingReport создает пустой отчет с заданным порогом
func NewMappingReport(threshold float64) *MappingReport {
	return &MappingReport{
		CreationDate:      time.Now().UTC(),
		MatchingThreshold: threshold,
		Folders:           make(map[string]*FolderStats),
	}
}

// Record учитывает один результат сопоставления в статистике папки
func (r *MappingReport) Record(folderName, fileName string, result MatchResult) {
	folder, ok := r.Folders[folderName]
	if !ok {
		folder = &FolderStats{
			FolderName: folderName,
			Mappings:   make(map[string]string),
		}
		r.Folders[folderName] = folder
		r.folderOrder = append(r.folderOrder, folderName)
	}

	folder.TotalFiles++
	r.TotalFilesProcessed++

	switch result.Kind {
	case MatchExact, MatchExactSubstring:
		folder.Mappings[fileName] = result.MatchedProjectID
		folder.MatchedFiles++
		folder.ExactMatches++
		r.TotalMatchesFound++
		r.ExactMatches++
	case MatchFuzzy:
		folder.Mappings[fileName] = result.MatchedProjectID
		folder.MatchedFiles++
		folder.FuzzyMatches++
		r.TotalMatchesFound++
		r.FuzzyMatches++
	default:
		folder.UnmatchedFiles++
		folder.UnmatchedList = append(folder.UnmatchedList, fileName)
		r.UnmatchedCount++
		r.UnmatchedFiles = append(r.UnmatchedFiles, folderName+": "+fileName)
	}
}

// FolderNames возвращает папки в порядке первого появления
func (r *MappingReport) FolderNames() []string {
	result := make([]string, len(r.folderOrder))
	copy(result, r.folderOrder)
	return result
}

// ProjectIDForFile возвращает project_id для имени файла по всем папкам.
// Используется на этапе заполнения колонки Project ID итогового листа.
func (r *MappingReport) ProjectIDForFile(fileName string) (string, bool) {
	for _, folder := range r.Folders {
		if id, ok := folder.Mappings[fileName]; ok {
			return id, true
		}
	}
	return "", false
}
