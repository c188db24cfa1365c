package usecase

import (
	"context"
	"fmt"

	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"
)

// ProcessLinkUseCase инкапсулирует логику обработки одной ссылки:
// загрузка и разбор страницы объявления, получение телефона и сохранение
type ProcessLinkUseCase struct {
	detailsFetcher port.AutoRiaFetcherPort
	phoneResolver  port.PhoneResolverPort
	storage        port.CarStoragePort
}

// NewProcessLinkUseCase создает новый экземпляр use case
func NewProcessLinkUseCase(
	fetcher port.AutoRiaFetcherPort,
	resolver port.PhoneResolverPort,
	storage port.CarStoragePort,
) *ProcessLinkUseCase {
	return &ProcessLinkUseCase{
		detailsFetcher: fetcher,
		phoneResolver:  resolver,
		storage:        storage,
	}
}

// Execute выполняет основную логику use case
func (uc *ProcessLinkUseCase) Execute(ctx context.Context, carURL string) error {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "ProcessLink",
		"url":      carURL,
	})

	ucLogger.Debug("Processing link", nil)

	record, token, fetchErr := uc.detailsFetcher.FetchCarDetails(ctx, carURL)
	if fetchErr != nil {
		ucLogger.Error("Failed to fetch/parse car details", fetchErr, nil)
		return fmt.Errorf("failed to fetch/parse details for %s: %w", carURL, fetchErr)
	}

	// Отдельный, лимитированный подзапрос за телефоном. nil означает
	// "не нашли" — запись сохраняется и без телефона.
	rawPhone := uc.phoneResolver.Resolve(ctx, token)
	record.PhoneNumber = domain.NormalizePhone(rawPhone)

	if err := uc.storage.Save(ctx, *record); err != nil {
		ucLogger.Error("Failed to save car record", err, nil)
		return fmt.Errorf("failed to save record for %s: %w", carURL, err)
	}

	ucLogger.Info("Successfully saved car record", port.Fields{
		"phone_found": record.PhoneNumber != nil,
	})
	return nil
}
