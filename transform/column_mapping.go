package transform

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kljensen/snowball"

	"rbmfprocessor/matching"
)

// ValueMapping одно правило замены значения в колонке итогового отчета
type ValueMapping struct {
	Column        string `json:"column"`
	OriginalValue string `json:"original_value"`
	NewValue      string `json:"new_value"`
}

// valueMatchThreshold минимальное сходство значения с правилом замены
const valueMatchThreshold = 0.9

// mappedColumns колонки, к которым применяются замены значений
var mappedColumns = []string{"Strategic Outcome", "Indicator name"}

// ValueMapper приводит разнописания значений колонок к каноническим.
// Значение сравнивается с правилами нечетко: формулировки показателей
// в квартальных файлах гуляют от файла к файлу.
type ValueMapper struct {
	mappings  []ValueMapping
	threshold float64
	logger    *slog.Logger
}

// NewValueMapper создает новый маппер значений
func NewValueMapper(mappings []ValueMapping) *ValueMapper {
	return &ValueMapper{
		mappings:  mappings,
		threshold: valueMatchThreshold,
		logger:    slog.Default().With("component", "value_mapper"),
	}
}

// LoadValueMappings загружает правила замены из JSON-файла.
// Отсутствие файла не ошибка: замены просто не применяются.
func LoadValueMappings(path string) ([]ValueMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read column mapping file: %w", err)
	}

	var mappings []ValueMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("failed to parse column mapping file: %w", err)
	}

	return mappings, nil
}

// MapValue подбирает замену для значения колонки. Возвращается новое
// значение лучшего правила со сходством не ниже порога, иначе исходное.
func (m *ValueMapper) MapValue(column, value string) string {
	if value == "" || len(m.mappings) == 0 {
		return value
	}

	var best *ValueMapping
	bestScore := 0.0

	for i := range m.mappings {
		mapping := &m.mappings[i]
		if mapping.Column != column || mapping.OriginalValue == "" {
			continue
		}

		score := valueSimilarity(value, mapping.OriginalValue)
		if score >= m.threshold && score > bestScore {
			best = mapping
			bestScore = score
		}
	}

	if best == nil {
		return value
	}

	if best.NewValue != value {
		m.logger.Debug("Mapped column value",
			"column", column,
			"original", value,
			"mapped", best.NewValue,
			"score", bestScore)
	}
	return best.NewValue
}

// valueSimilarity сходство значения с образцом правила. Совпадение
// стеммированных форм считается точным: "partnerships signed" и
// "partnership signing" — одно и то же значение.
func valueSimilarity(a, b string) float64 {
	if stemKey(a) == stemKey(b) {
		return 1.0
	}
	return matching.Similarity(a, b)
}

// stemKey канонический ключ значения: слова в нижнем регистре,
// приведенные к основе стеммером Портера
func stemKey(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	stems := make([]string, 0, len(words))
	for _, word := range words {
		stem, err := snowball.Stem(word, "english", true)
		if err != nil || stem == "" {
			stems = append(stems, word)
			continue
		}
		stems = append(stems, stem)
	}
	return strings.Join(stems, " ")
}
