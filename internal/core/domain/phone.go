package domain

import (
	"strconv"
	"strings"
)

// PhoneCountryPrefix — код страны, который дописывается к номеру,
// полученному с сайта в локальном формате вида "(67) 123-45-67".
const PhoneCountryPrefix = "38"

// NormalizePhone приводит "сырой" форматированный номер к числовому
// международному виду: убирает скобки, дефисы и пробелы и добавляет код
// страны. Для nil на входе возвращает nil — телефон просто не найден.
func NormalizePhone(raw *string) *int64 {
	if raw == nil {
		return nil
	}

	cleaned := strings.NewReplacer("(", "", ")", "", "-", "", " ", "").Replace(*raw)
	if cleaned == "" {
		return nil
	}

	number, err := strconv.ParseInt(PhoneCountryPrefix+cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &number
}
