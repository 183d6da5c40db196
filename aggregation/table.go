package aggregation

import (
	"fmt"
	"strconv"
	"strings"
)

// Row одна строка таблицы: значения ячеек по именам колонок.
// Все значения хранятся строками, как их отдает читатель книги Excel.
type Row map[string]string

// Clone возвращает независимую копию строки
func (r Row) Clone() Row {
	clone := make(Row, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Table табличная структура с устойчивым порядком колонок.
// Порядок колонок важен: итоговые листы должны повторять порядок
// исходных данных, а map его не сохраняет.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable создает пустую таблицу с заданными колонками
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn проверяет наличие колонки
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// RequireColumns возвращает ошибку с именем первой отсутствующей колонки.
// Ошибка должна указывать на конкретную проблему входных данных,
// а не всплывать позже из глубины агрегации.
func (t *Table) RequireColumns(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return fmt.Errorf("required column %q not found in input table", name)
		}
	}
	return nil
}

// InsertColumnsAfter вставляет колонки сразу после указанной.
// Если опорной колонки нет, новые добавляются в конец.
func (t *Table) InsertColumnsAfter(after string, names ...string) {
	pos := -1
	for i, col := range t.Columns {
		if col == after {
			pos = i
			break
		}
	}

	// Колонки, которых еще нет
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return
	}

	if pos == -1 {
		t.Columns = append(t.Columns, missing...)
		return
	}

	updated := make([]string, 0, len(t.Columns)+len(missing))
	updated = append(updated, t.Columns[:pos+1]...)
	updated = append(updated, missing...)
	updated = append(updated, t.Columns[pos+1:]...)
	t.Columns = updated
}

// RenameColumn переименовывает колонку, перенося значения строк
func (t *Table) RenameColumn(oldName, newName string) {
	for i, col := range t.Columns {
		if col == oldName {
			t.Columns[i] = newName
			break
		}
	}
	for _, row := range t.Rows {
		if v, ok := row[oldName]; ok {
			row[newName] = v
			delete(row, oldName)
		}
	}
}

// Append добавляет строку в таблицу
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len возвращает количество строк
func (t *Table) Len() int {
	return len(t.Rows)
}

// coerceNumber приводит значение ячейки к числу; пустые и нечисловые
// значения считаются нулем (политика суммирования показателей).
func coerceNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseNumber приводит значение к числу, отличая нечисловые значения
// от нуля (нужно фильтру: NaN исключается из проверки позитивности).
func parseNumber(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// formatNumber форматирует число для записи в ячейку: целые без
// дробной части, остальные в кратчайшей форме.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
