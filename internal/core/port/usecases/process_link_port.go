package usecases_port

import "context"

// ProcessLinkPort — входящий порт для обработки одной ссылки на объявление.
type ProcessLinkPort interface {
	Execute(ctx context.Context, carURL string) error
}
