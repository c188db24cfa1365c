package port

import (
	"context"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// DumpWriterPort определяет контракт для выгрузки записей в файл.
type DumpWriterPort interface {
	// Write сохраняет записи и возвращает путь к созданному файлу.
	Write(ctx context.Context, records []domain.CarRecord) (string, error)
}
