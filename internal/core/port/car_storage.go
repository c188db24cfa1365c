package port

import (
	"context"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// CarStoragePort определяет контракт хранилища записей об автомобилях.
type CarStoragePort interface {
	// FilterKnown возвращает подмножество переданных URL, которые уже
	// сохранены в базе. Пустой вход — пустой результат без запроса к БД.
	FilterKnown(ctx context.Context, urls []string) (map[string]struct{}, error)

	// Save вставляет запись по ключу URL; при конфликте существующая
	// строка остается нетронутой (ON CONFLICT DO NOTHING).
	Save(ctx context.Context, record domain.CarRecord) error

	// SaveOverwrite — отдельная операция обслуживания: при конфликте
	// перезаписывает все поля. Конвейер сбора ее не использует.
	SaveOverwrite(ctx context.Context, record domain.CarRecord) error

	// CountCars возвращает общее количество сохраненных записей.
	CountCars(ctx context.Context) (int64, error)

	// ListAll возвращает все сохраненные записи (для выгрузки в бэкап).
	ListAll(ctx context.Context) ([]domain.CarRecord, error)
}
