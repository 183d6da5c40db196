package matching

import (
	"strings"
	"unicode/utf8"
)

// Веса составной метрики схожести. Подобраны на реальном наборе имен
// файлов отчетности против реестра проектов.
const (
	weightSequence  = 0.3
	weightSubstring = 0.3
	weightWords     = 0.2
	weightKeyTerms  = 0.2
)

// Минимальная длина токена, считающегося ключевым термином.
// Короткие связки (of, and, for) при таком пороге отсеиваются.
const keyTermMinLen = 4

// Similarity вычисляет составную схожесть двух названий проектов.
// Обе строки предварительно канонизируются CleanProjectName.
// Результат всегда в диапазоне [0, 1], без NaN даже на пустых строках.
func Similarity(a, b string) float64 {
	clean1 := CleanProjectName(a)
	clean2 := CleanProjectName(b)

	seq := sequenceRatio(clean1, clean2)
	substr := substringScore(clean1, clean2)
	words := jaccard(tokenSet(clean1), tokenSet(clean2))
	keyTerms := jaccard(keyTermSet(clean1), keyTermSet(clean2))

	return seq*weightSequence +
		substr*weightSubstring +
		words*weightWords +
		keyTerms*weightKeyTerms
}

// sequenceRatio вычисляет посимвольную схожесть через суммарную длину
// наибольших совпадающих блоков: 2*M / (len1+len2).
func sequenceRatio(s1, s2 string) float64 {
	r1 := []rune(s1)
	r2 := []rune(s2)

	total := len(r1) + len(r2)
	if total == 0 {
		return 1.0
	}

	matched := matchingBlocksSize(r1, r2, 0, len(r1), 0, len(r2))
	return 2.0 * float64(matched) / float64(total)
}

// matchingBlocksSize рекурсивно суммирует длины совпадающих блоков:
// находит наибольший общий блок в диапазоне, затем обрабатывает
// участки слева и справа от него.
func matchingBlocksSize(r1, r2 []rune, lo1, hi1, lo2, hi2 int) int {
	i, j, size := longestMatch(r1, r2, lo1, hi1, lo2, hi2)
	if size == 0 {
		return 0
	}

	matched := size
	matched += matchingBlocksSize(r1, r2, lo1, i, lo2, j)
	matched += matchingBlocksSize(r1, r2, i+size, hi1, j+size, hi2)
	return matched
}

// longestMatch ищет наибольший совпадающий блок в заданных диапазонах.
// При равных длинах выбирается блок с наименьшим i, затем с наименьшим j,
// поэтому результат детерминирован.
func longestMatch(r1, r2 []rune, lo1, hi1, lo2, hi2 int) (bestI, bestJ, bestSize int) {
	// Позиции каждого символа во второй строке
	positions := make(map[rune][]int)
	for j := lo2; j < hi2; j++ {
		positions[r2[j]] = append(positions[r2[j]], j)
	}

	bestI, bestJ, bestSize = lo1, lo2, 0

	// j2len[j] — длина совпадения, заканчивающегося на r1[i-1], r2[j-1]
	j2len := make(map[int]int)
	for i := lo1; i < hi1; i++ {
		newJ2len := make(map[int]int)
		for _, j := range positions[r1[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return bestI, bestJ, bestSize
}

// substringScore возвращает min/max длин, если одна строка содержится
// в другой, иначе 0.
func substringScore(s1, s2 string) float64 {
	len1 := utf8.RuneCountInString(s1)
	len2 := utf8.RuneCountInString(s2)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	if !strings.Contains(s1, s2) && !strings.Contains(s2, s1) {
		return 0.0
	}

	minLen, maxLen := len1, len2
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	return float64(minLen) / float64(maxLen)
}

// tokenSet разбивает строку на множество слов
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		set[token] = true
	}
	return set
}

// keyTermSet оставляет только токены длиной от keyTermMinLen рун
func keyTermSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(s) {
		if utf8.RuneCountInString(token) >= keyTermMinLen {
			set[token] = true
		}
	}
	return set
}

// jaccard вычисляет индекс Жаккара двух множеств токенов.
// Если хотя бы одно множество пусто, возвращает 0.
func jaccard(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range set1 {
		if set2[token] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
