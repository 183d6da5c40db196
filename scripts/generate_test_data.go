// Генератор синтетических данных для нагрузочных прогонов: реестр
// проектов и квартальные Excel-книги с показателями.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xuri/excelize/v2"
)

// registryFile структура файла реестра проектов
type registryFile struct {
	Projects map[string]registryEntry `json:"projects"`
}

type registryEntry struct {
	ProjectName string `json:"project_name"`
	Status      string `json:"status"`
}

var statuses = []string{"Completed", "On-going", "Approved", "Under procurement", "Cancelled"}

var outcomeAreas = []string{
	"Sustainable Energy Access",
	"Climate Resilience",
	"Digital Connectivity",
	"Water and Sanitation",
}

func main() {
	gofakeit.Seed(0)

	dataDir := filepath.Join("tests", "data")
	if err := os.MkdirAll(filepath.Join(dataDir, "2024-Q4"), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	const projectCount = 50

	reg := registryFile{Projects: make(map[string]registryEntry, projectCount)}
	names := make([]string, 0, projectCount)
	ids := make([]string, 0, projectCount)

	for i := 0; i < projectCount; i++ {
		id := fmt.Sprintf("ETP-%03d-%s-%02d", i+1, strings.ToUpper(gofakeit.LetterN(3)), gofakeit.Number(10, 25))
		name := projectName()
		ids = append(ids, id)
		names = append(names, name)
		reg.Projects[id] = registryEntry{
			ProjectName: name,
			Status:      statuses[i%len(statuses)],
		}
	}

	registryPath := filepath.Join(dataDir, "projects_registry.json")
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal registry: %v", err)
	}
	if err := os.WriteFile(registryPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write registry: %v", err)
	}
	fmt.Printf("Generated registry with %d projects: %s\n", projectCount, registryPath)

	// Квартальные книги для первых десяти проектов
	for i := 0; i < 10; i++ {
		fileName := fmt.Sprintf("Q4_2024_Report_%s.xlsx", names[i])
		filePath := filepath.Join(dataDir, "2024-Q4", fileName)
		if err := writeQuarterlyWorkbook(filePath, ids[i]); err != nil {
			log.Fatalf("Failed to write workbook %s: %v", fileName, err)
		}
	}
	fmt.Println("Generated 10 quarterly workbooks in", filepath.Join(dataDir, "2024-Q4"))
}

// projectName случайное название проекта в стиле реальных отчетов
func projectName() string {
	return fmt.Sprintf("%s %s %s Project",
		gofakeit.Country(),
		gofakeit.RandomString([]string{"Rural", "Urban", "Regional", "National"}),
		gofakeit.RandomString([]string{"Electrification", "Water Supply", "Road Rehabilitation", "Broadband Expansion"}),
	)
}

// writeQuarterlyWorkbook пишет книгу с листом RBMF и квартальными строками
func writeQuarterlyWorkbook(filePath, projectID string) error {
	headers := []string{
		"Country", "Primary Outcome Area", "Result_Type_Data", "Indicators",
		"Indicator_ID", "Reporting Year - Quarter", "Output Target Number",
		"Completed Output Number", "Project Output", "Project Output Status",
		"Progress Notes/Comments", "Supporting Document",
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "RBMF"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	country := gofakeit.Country()
	row := 2
	for indicator := 1; indicator <= 4; indicator++ {
		for _, quarter := range []string{"2024-Q3", "2024-Q4"} {
			values := []interface{}{
				country,
				outcomeAreas[indicator%len(outcomeAreas)],
				gofakeit.RandomString([]string{"Output", "Outcome"}),
				fmt.Sprintf("Number of %s delivered", gofakeit.NounConcrete()),
				fmt.Sprintf("%s IND %02d", projectID, indicator),
				quarter,
				gofakeit.Number(5, 50),
				gofakeit.Number(0, 20),
				gofakeit.Sentence(6),
				gofakeit.RandomString([]string{"Completed", "In Progress", "Not Started"}),
				gofakeit.Sentence(10),
				gofakeit.URL(),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	return f.SaveAs(filePath)
}
