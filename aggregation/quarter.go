package aggregation

import (
	"fmt"
	"strconv"
	"strings"
)

// Half половина отчетного года
type Half string

const (
	HalfH1 Half = "H1"
	HalfH2 Half = "H2"
)

// ReportingCycle разобранный отчетный период "год-квартал"
type ReportingCycle struct {
	Year    int
	Quarter int
	Half    Half
}

// ParseError ошибка разбора отчетного периода. Восстановимая:
// вызывающий логирует строку и продолжает обработку остальных.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid reporting cycle %q: %s", e.Input, e.Reason)
}

// ParseReportingCycle разбирает период вида "2024-Q3" или "2024-3".
// Префикс "Q" у квартала необязателен. Квартал за пределами 1..4
// намеренно не отклоняется: исходные данные такого не требуют,
// и half вычисляется по правилу quarter < 3 без дополнительных проверок.
func ParseReportingCycle(cycleText string) (ReportingCycle, error) {
	text := strings.TrimSpace(cycleText)

	parts := strings.Split(text, "-")
	if len(parts) < 2 {
		return ReportingCycle{}, &ParseError{Input: cycleText, Reason: "no '-' separator"}
	}

	yearStr := strings.TrimSpace(parts[0])
	quarterStr := strings.TrimSpace(parts[1])
	quarterStr = strings.TrimSpace(strings.ReplaceAll(quarterStr, "Q", ""))

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return ReportingCycle{}, &ParseError{Input: cycleText, Reason: "year is not an integer"}
	}

	quarter, err := strconv.Atoi(quarterStr)
	if err != nil {
		return ReportingCycle{}, &ParseError{Input: cycleText, Reason: "quarter is not an integer"}
	}

	half := HalfH2
	if quarter < 3 {
		half = HalfH1
	}

	return ReportingCycle{Year: year, Quarter: quarter, Half: half}, nil
}
