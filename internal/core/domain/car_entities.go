package domain

import "time"

// CarRecord — одна запись объявления. Соответствует таблице `cars`.
// Обязательным является только URL, все остальные поля могут отсутствовать,
// если их не удалось извлечь со страницы — частичная запись тоже валидна.
type CarRecord struct {
	URL         string
	Title       *string
	PriceUSD    *int
	Odometer    *int // в километрах
	Username    *string
	PhoneNumber *int64
	ImageURL    *string
	ImagesCount *int
	CarNumber   *string
	CarVIN      *string
	FoundAt     time.Time
}

// PhoneToken — подписанный токен со страницы объявления, который нужен
// для запроса скрытого номера телефона. Нигде не сохраняется, живет только
// в рамках обработки одной ссылки.
type PhoneToken struct {
	CarID   string
	Hash    string
	Expires string
}

// Complete сообщает, достаточно ли данных для запроса телефона.
func (t PhoneToken) Complete() bool {
	return t.CarID != "" && t.Hash != "" && t.Expires != ""
}
