package aggregation

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Имена колонок итогового отчета, с которыми работает фильтр целей
const (
	ColStrategicOutcome = "Strategic Outcome"
	ColIndicatorName    = "Indicator name"
	ColPeriodicalResult = "Periodical Result"
	ColPeriodicalTarget = "Periodical Target"
	ColTargetCycle      = "Target Reporting Cycle"
)

// targetCycleRe отчетный период в форме "2024H1"
var targetCycleRe = regexp.MustCompile(`^(\d{4})H(\d+)$`)

// TargetFilter прореживает целевые значения показателей: цель имеет
// смысл только рядом с результатом. Внутри группы (стратегический
// результат, показатель) группы с достигнутым результатом теряют цели
// у нулевых строк, группы без результата сохраняют единственную цель
// самого свежего периода.
type TargetFilter struct {
	logger *slog.Logger
}

// NewTargetFilter создает новый фильтр целей
func NewTargetFilter() *TargetFilter {
	return &TargetFilter{
		logger: slog.Default().With("component", "target_filter"),
	}
}

// filterGroup строки одной пары (результат, показатель)
type filterGroup struct {
	indices []int
}

// Apply применяет фильтрацию и возвращает новую таблицу. Порядок и
// состав строк не меняются, корректируется только Periodical Target.
func (f *TargetFilter) Apply(tbl *Table) (*Table, error) {
	if err := tbl.RequireColumns(ColStrategicOutcome, ColIndicatorName,
		ColPeriodicalResult, ColPeriodicalTarget, ColTargetCycle); err != nil {
		return nil, err
	}

	result := &Table{Columns: append([]string(nil), tbl.Columns...)}
	for _, row := range tbl.Rows {
		result.Append(row.Clone())
	}

	groups := make(map[string]*filterGroup)
	var order []string
	for i, row := range result.Rows {
		key := row[ColStrategicOutcome] + "\x00" + row[ColIndicatorName]
		group, ok := groups[key]
		if !ok {
			group = &filterGroup{}
			groups[key] = group
			order = append(order, key)
		}
		group.indices = append(group.indices, i)
	}

	for _, key := range order {
		f.filterGroup(result, groups[key], key)
	}

	return result, nil
}

// filterGroup обрабатывает одну группу показателя
func (f *TargetFilter) filterGroup(tbl *Table, group *filterGroup, key string) {
	hasPositive := false
	for _, idx := range group.indices {
		if v, ok := parseNumber(tbl.Rows[idx][ColPeriodicalResult]); ok && v > 0 {
			hasPositive = true
			break
		}
	}

	if hasPositive {
		// Результат достигнут: цели у нулевых строк избыточны
		for _, idx := range group.indices {
			if v, ok := parseNumber(tbl.Rows[idx][ColPeriodicalResult]); ok && v == 0 {
				tbl.Rows[idx][ColPeriodicalTarget] = ""
			}
		}
		return
	}

	// Результата нет: оставляем цель только у самого свежего периода
	latestIdx := -1
	latestYear, latestHalf := 0, 0
	for _, idx := range group.indices {
		cycle := strings.TrimSpace(tbl.Rows[idx][ColTargetCycle])
		m := targetCycleRe.FindStringSubmatch(cycle)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		half, _ := strconv.Atoi(m[2])
		if latestIdx == -1 || year > latestYear || (year == latestYear && half > latestHalf) {
			latestIdx, latestYear, latestHalf = idx, year, half
		}
	}

	if latestIdx == -1 {
		f.logger.Warn("No parseable target reporting cycle in group, leaving targets unchanged",
			"group_key", displayGroupKey(key))
		return
	}

	for _, idx := range group.indices {
		if idx != latestIdx {
			tbl.Rows[idx][ColPeriodicalTarget] = ""
		}
	}
}
