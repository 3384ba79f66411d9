package pattern

import "strings"

// SplitLines делит текст по \n и отрезает \r в конце строки.
// Завершающий перевод строки не даёт лишней пустой строки.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
