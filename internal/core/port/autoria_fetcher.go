package port

import (
	"context"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// AutoRiaFetcherPort определяет контракт для всех взаимодействий с auto.ria.com.
type AutoRiaFetcherPort interface {
	// FetchLinks загружает одну страницу каталога и возвращает найденные
	// ссылки на объявления в порядке их появления на странице, а также
	// признак того, что есть смысл запрашивать следующую страницу.
	FetchLinks(ctx context.Context, page int) ([]string, bool, error)

	// FetchCarDetails загружает страницу объявления и извлекает из нее
	// запись и токен для запроса телефона. Отсутствие отдельных полей
	// не считается ошибкой.
	FetchCarDetails(ctx context.Context, carURL string) (*domain.CarRecord, domain.PhoneToken, error)
}
