// Пакетная обработка квартальной отчетности: сопоставляет Excel-файлы
// папок с реестром проектов и собирает полугодовые отчеты.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rbmfprocessor/database"
	"rbmfprocessor/matching"
	"rbmfprocessor/registry"
	"rbmfprocessor/transform"
)

func main() {
	dataDir := flag.String("data", "data", "каталог с папками квартальных отчетов")
	outputDir := flag.String("output", "output", "каталог для итоговых книг и отчетов")
	registryPath := flag.String("registry", "data/projects_registry.json", "реестр проектов (JSON или CSV)")
	dbPath := flag.String("db", "mappings.db", "база сопоставлений SQLite (пусто - не сохранять)")
	foldersFlag := flag.String("folders", "", "папки для обработки через запятую (пусто - все найденные)")
	threshold := flag.Float64("threshold", matching.DefaultThreshold, "порог нечеткого сопоставления")
	steps := flag.Bool("steps", false, "добавлять промежуточные листы RBMF_1 и RBMF_2")
	filter := flag.Bool("filter", false, "прореживать целевые значения показателей")
	flag.Parse()

	index, err := loadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки реестра: %v", err)
	}
	log.Printf("Реестр загружен: %d проектов", index.Len())

	available, err := transform.DiscoverFolders(*dataDir)
	if err != nil {
		log.Fatalf("Ошибка поиска папок: %v", err)
	}
	if len(available) == 0 {
		log.Fatalf("В каталоге %s нет папок с Excel-файлами", *dataDir)
	}

	folders := available
	if *foldersFlag != "" {
		requested := splitFolders(*foldersFlag)
		valid, invalid := transform.ValidateFolders(requested, available)
		for _, name := range invalid {
			log.Printf("Папка не найдена: %s", name)
			if suggestions := transform.SuggestSimilarFolders(name, available); len(suggestions) > 0 {
				log.Printf("  Возможно, имелась в виду: %s", strings.Join(suggestions, ", "))
			}
		}
		if len(valid) == 0 {
			log.Fatalf("Ни одна из запрошенных папок не найдена. Доступны: %s", strings.Join(available, ", "))
		}
		folders = valid
	}
	log.Printf("Обрабатываем папки: %s", strings.Join(folders, ", "))

	matcher := matching.NewMatcher(index, *threshold)
	report, err := transform.MapFolders(matcher, *dataDir, folders, matcher.Threshold())
	if err != nil {
		log.Fatalf("Ошибка сопоставления файлов: %v", err)
	}
	log.Printf("Сопоставлено файлов: %d из %d (точных: %d, нечетких: %d)",
		report.TotalMatchesFound, report.TotalFilesProcessed,
		report.ExactMatches, report.FuzzyMatches)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("Ошибка создания каталога %s: %v", *outputDir, err)
	}

	reportPath := filepath.Join(*outputDir, "mapping_report.json")
	if err := transform.WriteMappingReport(reportPath, report); err != nil {
		log.Fatalf("Ошибка записи отчета о сопоставлении: %v", err)
	}
	log.Printf("Отчет о сопоставлении: %s", reportPath)

	runID := uuid.New().String()
	if *dbPath != "" {
		if err := persistMappings(*dbPath, runID, matcher, report); err != nil {
			log.Printf("Предупреждение: не удалось сохранить сопоставления в БД: %v", err)
		} else {
			log.Printf("Сопоставления сохранены в БД, прогон %s", runID)
		}
	}

	valueMappings, err := transform.LoadValueMappings(filepath.Join(*outputDir, "column_mapping.json"))
	if err != nil {
		log.Fatalf("Ошибка загрузки правил замены значений: %v", err)
	}

	transformer := transform.NewTransformer(valueMappings)
	transformer.SetMapping(report)
	opts := transform.Options{IncludeSteps: *steps, ApplyFilter: *filter}

	processed, failed := 0, 0
	for _, folder := range folders {
		files, err := transform.ListExcelFiles(filepath.Join(*dataDir, folder))
		if err != nil {
			log.Printf("Ошибка чтения папки %s: %v", folder, err)
			continue
		}

		folderOut := filepath.Join(*outputDir, folder)
		if err := os.MkdirAll(folderOut, 0o755); err != nil {
			log.Fatalf("Ошибка создания каталога %s: %v", folderOut, err)
		}

		for _, fileName := range files {
			srcPath := filepath.Join(*dataDir, folder, fileName)
			dstName := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + "_halfyear.xlsx"
			dstPath := filepath.Join(folderOut, dstName)

			result, err := transformer.TransformFile(srcPath, dstPath, opts)
			if err != nil {
				log.Printf("Ошибка обработки %s: %v", fileName, err)
				failed++
				continue
			}
			processed++

			if len(result.Warnings) > 0 {
				log.Printf("%s: %d предупреждений о согласованности данных", fileName, len(result.Warnings))
			}
		}
	}

	log.Printf("Готово. Обработано файлов: %d, с ошибками: %d", processed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// loadRegistry загружает реестр проектов по расширению файла
func loadRegistry(path string) (*registry.Index, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return registry.LoadCSVFile(path)
	}
	return registry.LoadJSONFile(path)
}

// splitFolders разбирает список папок из флага
func splitFolders(raw string) []string {
	var folders []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			folders = append(folders, name)
		}
	}
	return folders
}

// persistMappings зеркалит отчет о сопоставлении в SQLite.
// Сопоставление детерминировано, повторный прогон матчера дает те же
// результаты с полной информацией о виде совпадения и уверенности.
func persistMappings(dbPath, runID string, matcher *matching.Matcher, report *matching.MappingReport) error {
	db, err := database.NewMappingDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, folder := range report.FolderNames() {
		stats := report.Folders[folder]

		fileNames := make([]string, 0, len(stats.Mappings)+len(stats.UnmatchedList))
		for fileName := range stats.Mappings {
			fileNames = append(fileNames, fileName)
		}
		fileNames = append(fileNames, stats.UnmatchedList...)
		sort.Strings(fileNames)

		for _, fileName := range fileNames {
			result := matcher.MatchFileName(fileName)
			if err := db.SaveMapping(runID, folder, fileName, result); err != nil {
				return err
			}
		}
	}

	return nil
}
