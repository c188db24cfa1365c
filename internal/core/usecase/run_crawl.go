package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"
	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"
	usecases_port "github.com/ch1kkapo0m/scraping-auto/internal/core/port/usecases"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// RunCrawlUseCase — координатор полного прохода по каталогу: постраничный
// обход, фильтрация уже известных ссылок и параллельная обработка новых.
type RunCrawlUseCase struct {
	fetcher    port.AutoRiaFetcherPort
	storage    port.CarStoragePort
	processor  usecases_port.ProcessLinkPort
	maxWorkers int64
}

// NewRunCrawlUseCase создает новый экземпляр координатора.
func NewRunCrawlUseCase(
	fetcher port.AutoRiaFetcherPort,
	storage port.CarStoragePort,
	processor usecases_port.ProcessLinkPort,
	maxWorkers int,
) *RunCrawlUseCase {
	if maxWorkers <= 0 {
		maxWorkers = constants.MaxDetailWorkers
	}
	return &RunCrawlUseCase{
		fetcher:    fetcher,
		storage:    storage,
		processor:  processor,
		maxWorkers: int64(maxWorkers),
	}
}

// Execute запускает проход и возвращает статистику. Страницы обходятся
// строго последовательно: страница N+1 не запрашивается, пока не завершены
// все задачи страницы N. Фатальной для прохода является только ошибка
// загрузки страницы каталога; ошибки отдельных объявлений изолированы.
func (uc *RunCrawlUseCase) Execute(ctx context.Context, runID uuid.UUID) (*domain.CrawlStats, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "RunCrawl",
		"run_id":   runID.String(),
	})

	stats := &domain.CrawlStats{RunID: runID, StartedAt: time.Now()}
	defer func() { stats.FinishedAt = time.Now() }()

	ucLogger.Info("Starting crawl run", nil)

	sem := semaphore.NewWeighted(uc.maxWorkers)

	for page := 0; ; page++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		pageLogger := ucLogger.WithFields(port.Fields{"page": page})

		links, hasMore, fetchErr := uc.fetcher.FetchLinks(ctx, page)
		if fetchErr != nil {
			pageLogger.Error("Error fetching catalog page", fetchErr, nil)
			return stats, fmt.Errorf("run crawl: error fetching catalog page %d: %w", page, fetchErr)
		}

		stats.PagesProcessed++
		stats.LinksFound += len(links)

		if len(links) == 0 {
			pageLogger.Info("No links on page. Stopping crawl.", nil)
			break
		}

		known, filterErr := uc.storage.FilterKnown(ctx, links)
		if filterErr != nil {
			// Дедупликация недоступна — обрабатываем все ссылки страницы,
			// повторная вставка безопасна благодаря DO NOTHING.
			pageLogger.Warn("Could not filter known links, processing all", port.Fields{
				"error": filterErr.Error(),
			})
			known = map[string]struct{}{}
		}

		// Порядок ссылок со страницы сохраняется
		newLinks := make([]string, 0, len(links))
		for _, link := range links {
			if _, ok := known[link]; !ok {
				newLinks = append(newLinks, link)
			}
		}
		stats.NewLinks += len(newLinks)

		pageLogger.Info("Page links filtered", port.Fields{
			"links_found": len(links),
			"new_links":   len(newLinks),
		})

		if len(newLinks) > 0 {
			var wg sync.WaitGroup
			var saved, failed atomic.Int64

			for _, link := range newLinks {
				if err := sem.Acquire(ctx, 1); err != nil {
					wg.Wait()
					return stats, err
				}
				wg.Add(1)

				go func(carURL string) {
					defer wg.Done()
					defer sem.Release(1)

					// Ошибка одной задачи не отменяет соседние
					if procErr := uc.processor.Execute(ctx, carURL); procErr != nil {
						pageLogger.Error("Failed to process link", procErr, port.Fields{"url": carURL})
						failed.Add(1)
						return
					}
					saved.Add(1)
				}(link)
			}

			// Следующая страница — только после завершения всех задач текущей
			wg.Wait()

			stats.Saved += int(saved.Load())
			stats.Failed += int(failed.Load())
		}

		if !hasMore {
			pageLogger.Info("No continuation signal. Pagination finished.", nil)
			break
		}
	}

	ucLogger.Info("Crawl run finished", port.Fields{
		"pages_processed": stats.PagesProcessed,
		"links_found":     stats.LinksFound,
		"new_links":       stats.NewLinks,
		"saved":           stats.Saved,
		"failed":          stats.Failed,
	})

	return stats, nil
}
