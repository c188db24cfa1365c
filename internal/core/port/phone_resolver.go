package port

import (
	"context"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// PhoneResolverPort определяет контракт для получения скрытого номера телефона.
//
// Resolve возвращает "сырой" форматированный номер или nil, если токен
// неполный либо все попытки исчерпаны. Неудачный запрос телефона никогда
// не фатален для обработки объявления, поэтому ошибки наружу не выходят.
type PhoneResolverPort interface {
	Resolve(ctx context.Context, token domain.PhoneToken) *string
}
