package autoriafetcher

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// FetchCarDetails загружает страницу объявления и извлекает из нее запись
// вместе с токеном для запроса телефона. Ошибкой считается только провал
// самого запроса или нечитаемый документ; отсутствие отдельных полей — нет.
func (a *AutoRiaFetcherAdapter) FetchCarDetails(ctx context.Context, carURL string) (*domain.CarRecord, domain.PhoneToken, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchDetailsLogger := logger.WithFields(port.Fields{"component": "AutoRiaFetcherAdapter(FetchDetails)"})

	collector := a.collector.Clone()

	var record *domain.CarRecord
	var token domain.PhoneToken
	var criticalError error

	collector.OnRequest(func(r *colly.Request) {
		fetchDetailsLogger.Debug("Making request to fetch car details", port.Fields{
			"url": r.URL.String(),
		})
	})

	collector.OnResponse(func(r *colly.Response) {
		if criticalError != nil || record != nil {
			return
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchDetailsLogger.Error("Failed to parse car page document", err, port.Fields{"url": carURL})
			criticalError = fmt.Errorf("FetchCarDetails: failed to parse document from %s: %w", carURL, err)
			return
		}

		record, token = toCarRecord(doc, carURL)

		if !token.Complete() {
			// Не повод падать: телефон просто останется пустым.
			fetchDetailsLogger.Debug("Phone token is incomplete on car page", port.Fields{
				"url":    carURL,
				"car_id": token.CarID,
			})
		}
	})

	// Этот колбэк будет вызван для ошибок, специфичных для этого запроса
	collector.OnError(func(r *colly.Response, err error) {
		fetchDetailsLogger.Error("Failed to fetch car details", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		criticalError = fmt.Errorf("FetchCarDetails: request to %s failed with status %d: %w", carURL, r.StatusCode, err)
	})

	if visitErr := collector.Visit(carURL); visitErr != nil {
		return nil, token, fmt.Errorf("FetchCarDetails: failed to visit URL %s: %w", carURL, visitErr)
	}
	collector.Wait() // Ждем завершения HTTP запроса и обработчиков

	if criticalError != nil {
		return nil, token, criticalError
	}

	return record, token, nil
}
