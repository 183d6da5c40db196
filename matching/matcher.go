package matching

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"rbmfprocessor/registry"
)

// MatchKind происхождение найденного соответствия
type MatchKind string

const (
	MatchExact          MatchKind = "exact"
	MatchExactSubstring MatchKind = "exact_substring"
	MatchFuzzy          MatchKind = "fuzzy"
	MatchNone           MatchKind = "none"
)

// DefaultThreshold порог нечеткого сопоставления по умолчанию.
// Перебор порогов {0.5, 0.6, 0.7, 0.8} на реальном наборе показал,
// что 0.6 дает лучший баланс полноты и точности.
const DefaultThreshold = 0.6

// Минимальная длина канонизированных форм для substring-совпадения.
// Короткие строки содержатся друг в друге слишком часто.
const substringMinLen = 10

// MatchResult результат разрешения идентичности проекта
type MatchResult struct {
	Query            string    `json:"query"`
	MatchedProjectID string    `json:"matched_project_id,omitempty"`
	Confidence       float64   `json:"confidence"`
	Kind             MatchKind `json:"match_kind"`
}

// Matcher разрешает произвольную строку (имя файла, название проекта)
// в канонический project_id по реестру. Реестр после загрузки только
// читается, поэтому один Matcher можно использовать из многих горутин.
type Matcher struct {
	index     *registry.Index
	threshold float64
	logger    *slog.Logger
}

// NewMatcher создает новый матчер. Если threshold <= 0,
// используется DefaultThreshold.
func NewMatcher(index *registry.Index, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Matcher{
		index:     index,
		threshold: threshold,
		logger:    slog.Default().With("component", "project_matcher"),
	}
}

// Threshold возвращает действующий порог нечеткого сопоставления
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match ищет лучший project_id для строки запроса в два прохода:
// сначала точные совпадения (включая substring для длинных форм),
// затем нечеткий поиск по составной метрике. Никогда не возвращает
// ошибку: на мусорном входе или пустом реестре результат имеет
// Kind == MatchNone.
func (m *Matcher) Match(query string) MatchResult {
	result := MatchResult{
		Query: query,
		Kind:  MatchNone,
	}

	if m.index == nil || m.index.Len() == 0 {
		return result
	}

	cleanQuery := CleanProjectName(query)

	// Фаза 1: точные совпадения. Первое попадание выигрывает,
	// порядок обхода реестра — порядок вставки.
	for _, record := range m.index.All() {
		cleanName := CleanProjectName(record.ProjectName)

		if cleanQuery == cleanName {
			result.MatchedProjectID = record.ProjectID
			result.Confidence = 1.0
			result.Kind = MatchExact
			return result
		}

		if containsEither(cleanQuery, cleanName) &&
			utf8.RuneCountInString(cleanQuery) > substringMinLen &&
			utf8.RuneCountInString(cleanName) > substringMinLen {
			result.MatchedProjectID = record.ProjectID
			result.Confidence = 0.95
			result.Kind = MatchExactSubstring
			return result
		}
	}

	// Фаза 2: нечеткий поиск. Строгое ">" оставляет первую запись
	// при равных оценках.
	bestScore := 0.0
	bestID := ""
	for _, record := range m.index.All() {
		score := Similarity(query, record.ProjectName)
		if score > bestScore {
			bestScore = score
			bestID = record.ProjectID
		}
	}

	// Оценка сохраняется и для отказа: она нужна для диагностики
	result.Confidence = bestScore

	if bestScore >= m.threshold && bestID != "" {
		result.MatchedProjectID = bestID
		result.Kind = MatchFuzzy
		return result
	}

	m.logger.Debug("No match above threshold",
		"query", query,
		"best_score", bestScore,
		"threshold", m.threshold)
	return result
}

// MatchFileName извлекает название проекта из имени файла и разрешает его.
// Расширение Excel-файла отбрасывается до извлечения, иначе оно
// прилипает к последнему сегменту названия.
func (m *Matcher) MatchFileName(fileName string) MatchResult {
	trimmed := fileName
	for _, ext := range []string{".xlsx", ".xls"} {
		if strings.HasSuffix(strings.ToLower(trimmed), ext) {
			trimmed = trimmed[:len(trimmed)-len(ext)]
			break
		}
	}

	extracted := ExtractProjectNameFromFileName(trimmed)
	result := m.Match(extracted)
	result.Query = fileName
	return result
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
