package autoriafetcher

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// digitsOnly оставляет в строке только цифры.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// intFromText достает число из текста, в котором цифры перемешаны с
// единицами измерения и пробелами ("15 000 грн" -> 15000). Если цифр
// нет вообще — nil.
func intFromText(s string) *int {
	digits := digitsOnly(s)
	if digits == "" {
		return nil
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &value
}

// NormalizeSellerName стандартизирует имя продавца: обрезает и схлопывает
// пробелы, приводит каждое слово к виду "Слово" по украинским правилам
// ("ОЛЕГ  ПЕТРЕНКО " -> "Олег Петренко").
func NormalizeSellerName(s string) string {
	trimmed := strings.Join(strings.Fields(s), " ")
	if trimmed == "" {
		return ""
	}

	caser := cases.Title(language.Ukrainian)
	return caser.String(strings.ToLower(trimmed))
}
