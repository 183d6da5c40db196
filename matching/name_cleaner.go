package matching

import (
	"regexp"
	"strings"
)

// Регулярные выражения очистки названий проектов.
// Статусный тег вида "[Completed] ..." встречается в начале имен файлов
// и не несет информации о самом проекте.
var (
	statusTagRe   = regexp.MustCompile(`^\[(Completed|Cancelled|New|On-going|Approved|Under procurement|Unknown|PSA TAF)\]\s*`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	specialCharRe = regexp.MustCompile(`[^\w\s\-\(\)]`)
)

// CleanProjectName канонизирует название проекта для сравнения:
// убирает ведущий статусный тег, удаляет все символы кроме букв/цифр,
// пробелов, дефисов и скобок, схлопывает пробелы, приводит к нижнему
// регистру. Пробелы схлопываются после удаления символов: символ между
// двумя пробелами иначе оставлял бы двойной пробел и ломал
// идемпотентность. Чистая функция, на мусорном входе не паникует.
func CleanProjectName(name string) string {
	name = statusTagRe.ReplaceAllString(name, "")
	name = specialCharRe.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
	return strings.ToLower(name)
}

// ExtractProjectNameFromFileName извлекает название проекта из имени файла.
// Имена файлов отчетов имеют вид "INO_2024_Vendor_Project Name":
// название проекта — последний сегмент после разделителя "_".
func ExtractProjectNameFromFileName(fileName string) string {
	parts := strings.Split(fileName, "_")
	if len(parts) <= 1 {
		return fileName
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" && len(parts) >= 2 {
		last = strings.TrimSpace(parts[len(parts)-2])
	}
	if last == "" {
		return fileName
	}
	return last
}
