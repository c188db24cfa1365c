package usecases_port

import (
	"context"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"

	"github.com/google/uuid"
)

// RunCrawlPort — входящий порт для запуска полного прохода по каталогу.
type RunCrawlPort interface {
	Execute(ctx context.Context, runID uuid.UUID) (*domain.CrawlStats, error)
}
