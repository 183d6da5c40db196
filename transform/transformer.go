// Package transform собирает итоговый полугодовой отчет из квартальных
// Excel-файлов: чтение книги, разметка кварталов, агрегация в
// полугодия, маппинг колонок итогового шаблона и запись результата.
package transform

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"rbmfprocessor/aggregation"
	"rbmfprocessor/matching"
	"rbmfprocessor/workbook"
)

// UnknownProjectID значение Project ID для файлов без сопоставления
const UnknownProjectID = "NOT FOUND"

// finalMappingRules правила маппинга колонок итогового отчета:
// колонка итога <- колонка полугодовой агрегации. Пустой источник
// означает, что колонка заполняется отдельно (Project ID).
var finalMappingRules = []struct {
	Final  string
	Source string
}{
	{"Strategic Outcome", "Primary Outcome Area"},
	{"Indicator category", "Result_Type_Data"},
	{"Indicator name", "Indicators"},
	{"Indicator Description", "Project Output"},
	{"Periodical Target", "Output Target Number"},
	{"Target Reporting Cycle", aggregation.ColHalfYear},
	{"Indicator Status", aggregation.ColOutputStatus},
	{"Periodical Result", aggregation.ColTotalOutputs},
	{"Result Notes/Comments", aggregation.ColProgressNotes},
	{"Supporting Document", aggregation.ColSupportingDoc},
	{"Country", "Country"},
	{"Indicator ID", aggregation.ColID},
	{"Project ID", ""},
}

// Options режимы формирования итоговой книги
type Options struct {
	// IncludeSteps добавляет в книгу промежуточные листы RBMF_1 и RBMF_2
	IncludeSteps bool
	// ApplyFilter прореживает целевые значения показателей
	ApplyFilter bool
}

// FileResult итог обработки одного файла
type FileResult struct {
	SourceFile    string                           `json:"source_file"`
	OutputFile    string                           `json:"output_file"`
	ProjectID     string                           `json:"project_id"`
	QuarterlyRows int                              `json:"quarterly_rows"`
	HalfYearRows  int                              `json:"half_year_rows"`
	Warnings      []aggregation.ConsistencyWarning `json:"warnings,omitempty"`
}

// Transformer конвейер обработки квартальных отчетов
type Transformer struct {
	aggregator  *aggregation.Aggregator
	filter      *aggregation.TargetFilter
	valueMapper *ValueMapper
	mapping     *matching.MappingReport
	logger      *slog.Logger
}

// NewTransformer создает новый конвейер. Правила замены значений
// могут быть пустыми, сопоставление файлов с проектами подключается
// отдельно через SetMapping.
func NewTransformer(valueMappings []ValueMapping) *Transformer {
	return &Transformer{
		aggregator:  aggregation.NewAggregator(),
		filter:      aggregation.NewTargetFilter(),
		valueMapper: NewValueMapper(valueMappings),
		logger:      slog.Default().With("component", "report_transformer"),
	}
}

// SetMapping подключает отчет о сопоставлении файлов с проектами.
// Без него Project ID всех строк получает значение NOT FOUND.
func (t *Transformer) SetMapping(mapping *matching.MappingReport) {
	t.mapping = mapping
}

// TransformFile прогоняет один квартальный файл через конвейер
// и записывает итоговую книгу
func (t *Transformer) TransformFile(srcPath, dstPath string, opts Options) (*FileResult, error) {
	source, err := workbook.ReadDataSheet(srcPath)
	if err != nil {
		return nil, err
	}

	quarterly, err := t.aggregator.PrepareQuarterly(source)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare quarterly data from %s: %w", filepath.Base(srcPath), err)
	}

	halfYear, warnings, err := t.aggregator.Aggregate(quarterly)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", filepath.Base(srcPath), err)
	}

	final := t.buildFinal(halfYear, filepath.Base(srcPath))

	if opts.ApplyFilter {
		filtered, err := t.filter.Apply(final)
		if err != nil {
			t.logger.Warn("Skipping target filter",
				"file", filepath.Base(srcPath),
				"error", err)
		} else {
			final = filtered
		}
	}

	sheets := make([]workbook.Sheet, 0, 3)
	if opts.IncludeSteps {
		sheets = append(sheets,
			workbook.Sheet{Name: workbook.QuarterlySheetName, Table: quarterly},
			workbook.Sheet{Name: workbook.HalfYearSheetName, Table: halfYear},
		)
	}
	sheets = append(sheets, workbook.Sheet{Name: workbook.FinalSheetName, Table: final})

	if err := workbook.WriteWorkbook(dstPath, sheets); err != nil {
		return nil, err
	}

	result := &FileResult{
		SourceFile:    filepath.Base(srcPath),
		OutputFile:    filepath.Base(dstPath),
		ProjectID:     t.projectIDForFile(filepath.Base(srcPath)),
		QuarterlyRows: quarterly.Len(),
		HalfYearRows:  halfYear.Len(),
		Warnings:      warnings,
	}

	t.logger.Info("Transformed file",
		"source", result.SourceFile,
		"project_id", result.ProjectID,
		"quarterly_rows", result.QuarterlyRows,
		"half_year_rows", result.HalfYearRows)

	return result, nil
}

// buildFinal строит итоговую таблицу по правилам маппинга колонок.
// Отсутствующая исходная колонка дает пустую итоговую и предупреждение.
func (t *Transformer) buildFinal(halfYear *aggregation.Table, sourceFileName string) *aggregation.Table {
	final := &aggregation.Table{}
	for _, rule := range finalMappingRules {
		final.Columns = append(final.Columns, rule.Final)
		if rule.Source != "" && !halfYear.HasColumn(rule.Source) {
			t.logger.Warn("Source column not found, final column will be empty",
				"final_column", rule.Final,
				"source_column", rule.Source)
		}
	}

	projectID := t.projectIDForFile(sourceFileName)

	for _, row := range halfYear.Rows {
		finalRow := make(aggregation.Row, len(finalMappingRules))
		for _, rule := range finalMappingRules {
			switch {
			case rule.Final == "Project ID":
				finalRow[rule.Final] = projectID
			case rule.Source == "" || !halfYear.HasColumn(rule.Source):
				finalRow[rule.Final] = ""
			case rule.Final == "Target Reporting Cycle":
				// "2024-H1" -> "2024H1"
				finalRow[rule.Final] = strings.ReplaceAll(row[rule.Source], "-", "")
			default:
				finalRow[rule.Final] = row[rule.Source]
			}
		}

		for _, column := range mappedColumns {
			finalRow[column] = t.valueMapper.MapValue(column, finalRow[column])
		}

		final.Append(finalRow)
	}

	return final
}

// projectIDForFile ищет проект файла в отчете о сопоставлении
func (t *Transformer) projectIDForFile(fileName string) string {
	if t.mapping == nil {
		return UnknownProjectID
	}
	projectID, ok := t.mapping.ProjectIDForFile(fileName)
	if !ok || projectID == "" {
		t.logger.Warn("Project ID not found for file", "file", fileName)
		return UnknownProjectID
	}
	return projectID
}
