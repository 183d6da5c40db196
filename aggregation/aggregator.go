package aggregation

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Имена колонок квартальной отчетности. Совпадают с заголовками
// листа RBMF исходной книги.
const (
	ColReportingCycle   = "Reporting Year - Quarter"
	ColIndicatorID      = "Indicator_ID"
	ColID               = "ID"
	ColYear             = "Year"
	ColQuarter          = "Quarter"
	ColHalfYear         = "Half Year"
	ColCompletedOutputs = "Completed Output Number"
	ColTotalOutputs     = "Total Completed Output Number"
	ColProjectOutput    = "Project Output"
	ColOutputStatus     = "Project Output Status"
	ColProgressNotes    = "Progress Notes/Comments"
	ColSupportingDoc    = "Supporting Document"
)

// mergeStrategy политика слияния значений колонки внутри группы
type mergeStrategy int

const (
	mergeFirst mergeStrategy = iota
	mergeSum
	mergeSemicolonUnique
	mergeBullets
	mergeStatusPriority
)

// columnPolicies декларативная таблица политик слияния.
// Колонки, не перечисленные здесь, получают политику mergeFirst
// с проверкой согласованности значений.
var columnPolicies = map[string]mergeStrategy{
	ColCompletedOutputs: mergeSum,
	ColReportingCycle:   mergeSemicolonUnique,
	ColQuarter:          mergeSemicolonUnique,
	ColProjectOutput:    mergeBullets,
	ColProgressNotes:    mergeBullets,
	ColSupportingDoc:    mergeBullets,
	ColOutputStatus:     mergeStatusPriority,
}

// ConsistencyWarning расхождение значений в колонке с политикой
// "первое значение" внутри одной группы. Сигнал о качестве данных,
// обработку не останавливает.
type ConsistencyWarning struct {
	GroupKey      string `json:"group_key"`
	Column        string `json:"column"`
	DistinctCount int    `json:"distinct_count"`
}

// Aggregator сворачивает квартальные строки показателей в полугодовые
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator создает новый агрегатор
func NewAggregator() *Aggregator {
	return &Aggregator{
		logger: slog.Default().With("component", "half_year_aggregator"),
	}
}

// PrepareQuarterly размечает квартальные строки производными колонками:
// Year, Quarter, Half Year из "Reporting Year - Quarter" и ID из
// Indicator_ID без пробелов. Строка с неразбираемым периодом не
// прерывает обработку: она логируется, производные поля остаются пустыми.
func (a *Aggregator) PrepareQuarterly(tbl *Table) (*Table, error) {
	if err := tbl.RequireColumns(ColReportingCycle); err != nil {
		return nil, err
	}

	result := &Table{Columns: append([]string(nil), tbl.Columns...)}
	result.InsertColumnsAfter(ColReportingCycle, ColYear, ColQuarter, ColHalfYear)
	if result.HasColumn(ColIndicatorID) {
		result.InsertColumnsAfter(ColIndicatorID, ColID)
	} else {
		a.logger.Warn("Indicator_ID column not found, ID column will be empty")
		result.InsertColumnsAfter(ColReportingCycle, ColID)
	}

	for i, row := range tbl.Rows {
		prepared := row.Clone()

		cycle, err := ParseReportingCycle(row[ColReportingCycle])
		if err != nil {
			a.logger.Warn("Skipping derived fields for row",
				"row", i,
				"error", err)
			prepared[ColYear] = ""
			prepared[ColQuarter] = ""
			prepared[ColHalfYear] = ""
		} else {
			prepared[ColYear] = fmt.Sprintf("%d", cycle.Year)
			prepared[ColQuarter] = fmt.Sprintf("%d", cycle.Quarter)
			prepared[ColHalfYear] = string(cycle.Half)
		}

		prepared[ColID] = strings.ReplaceAll(row[ColIndicatorID], " ", "")
		result.Append(prepared)
	}

	return result, nil
}

// aggGroup накопитель одной группы (ID, полугодие, год)
type aggGroup struct {
	key      string
	firstIdx int
	rows     []Row
}

// Aggregate сворачивает размеченные квартальные строки в полугодовые.
// Ключ группировки — (ID, "{год}-{полугодие}", год): префикс года
// в полугодии различает одинаковые полугодия разных лет.
// Порядок групп в результате — порядок первого появления ключа.
func (a *Aggregator) Aggregate(tbl *Table) (*Table, []ConsistencyWarning, error) {
	if err := tbl.RequireColumns(ColYear, ColHalfYear); err != nil {
		return nil, nil, err
	}

	groups := make(map[string]*aggGroup)
	var order []*aggGroup

	for i, row := range tbl.Rows {
		r := row.Clone()

		// Полугодие получает префикс года: "2024-H1"
		halfYear := r[ColYear] + "-" + r[ColHalfYear]
		r[ColHalfYear] = halfYear

		key := r[ColID] + "\x00" + halfYear + "\x00" + r[ColYear]
		group, ok := groups[key]
		if !ok {
			group = &aggGroup{key: key, firstIdx: i}
			groups[key] = group
			order = append(order, group)
		}
		group.rows = append(group.rows, r)
	}

	// Стабильная сортировка по индексу первой строки группы
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].firstIdx < order[j].firstIdx
	})

	result := &Table{Columns: append([]string(nil), tbl.Columns...)}
	var warnings []ConsistencyWarning

	for _, group := range order {
		merged := make(Row, len(tbl.Columns))
		for _, col := range tbl.Columns {
			merged[col] = a.mergeColumn(col, group, &warnings)
		}
		result.Append(merged)
	}

	result.RenameColumn(ColCompletedOutputs, ColTotalOutputs)

	for _, w := range warnings {
		a.logger.Warn("Data inconsistency in group",
			"group_key", displayGroupKey(w.GroupKey),
			"column", w.Column,
			"distinct_values", w.DistinctCount)
	}

	return result, warnings, nil
}

// mergeColumn применяет политику слияния колонки к строкам группы
func (a *Aggregator) mergeColumn(col string, group *aggGroup, warnings *[]ConsistencyWarning) string {
	switch columnPolicies[col] {
	case mergeSum:
		total := 0.0
		for _, row := range group.rows {
			total += coerceNumber(row[col])
		}
		return formatNumber(total)

	case mergeSemicolonUnique:
		return joinUnique(group.rows, col, "; ")

	case mergeBullets:
		return bulletMerge(group.rows, col)

	case mergeStatusPriority:
		return statusPriority(group.rows, col)

	default:
		// Ключевые колонки группы по построению согласованы,
		// их проверять не нужно
		if col != ColID && col != ColHalfYear && col != ColYear {
			if distinct := distinctCount(group.rows, col); distinct > 1 {
				*warnings = append(*warnings, ConsistencyWarning{
					GroupKey:      group.key,
					Column:        col,
					DistinctCount: distinct,
				})
			}
		}
		return group.rows[0][col]
	}
}

// joinUnique склеивает уникальные непустые значения разделителем,
// сохраняя порядок первого появления
func joinUnique(rows []Row, col, sep string) string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return strings.Join(values, sep)
}

// bulletMerge собирает уникальные непустые значения. Единственное
// значение возвращается как есть, несколько — маркированным списком
// "- v1\n- v2".
func bulletMerge(rows []Row, col string) string {
	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}

	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		var b strings.Builder
		for i, v := range values {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(v)
		}
		return b.String()
	}
}

// statusPriority выбирает статус группы: Completed > In Progress >
// первое встретившееся значение
func statusPriority(rows []Row, col string) string {
	var first string
	hasFirst := false
	inProgress := false

	for _, row := range rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		if !hasFirst {
			first = v
			hasFirst = true
		}
		switch strings.ToLower(v) {
		case "completed":
			return "Completed"
		case "in progress":
			inProgress = true
		}
	}

	if inProgress {
		return "In Progress"
	}
	return first
}

func distinctCount(rows []Row, col string) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row[col]] = true
	}
	return len(seen)
}

// displayGroupKey переводит внутренний ключ группы в читаемый вид
func displayGroupKey(key string) string {
	return strings.ReplaceAll(key, "\x00", ", ")
}
