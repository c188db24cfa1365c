package autoriafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"
	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// phoneAPIResponse - структура ответа эндпоинта телефонов.
type phoneAPIResponse struct {
	Phones []phoneEntry `json:"phones"`
}

type phoneEntry struct {
	PhoneFormatted string `json:"phoneFormatted"`
}

// PhoneResolverAdapter получает скрытый номер телефона через внутренний API
// auto.ria.com. Эндпоинт жестко лимитируется сервером, поэтому все запросы
// проходят через шлюз емкостью 1 и с паузой перед каждым запросом.
type PhoneResolverAdapter struct {
	collector  *colly.Collector
	baseURL    string
	gate       port.RequestGatePort
	retries    int
	retryDelay time.Duration
}

// PhoneResolverConfig — настройки резолвера. Gate обязателен, остальные
// пустые поля заменяются боевыми значениями.
type PhoneResolverConfig struct {
	BaseURL    string
	Gate       port.RequestGatePort
	Retries    int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// NewPhoneResolverAdapter - конструктор
func NewPhoneResolverAdapter(cfg PhoneResolverConfig) (*PhoneResolverAdapter, error) {
	if cfg.Gate == nil {
		return nil, fmt.Errorf("PhoneResolverAdapter: request gate is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.PhoneAPIBaseURL
	}
	if cfg.Retries <= 0 {
		cfg.Retries = constants.PhoneFetchRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = constants.PhoneRetryDelay
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.PhoneRequestTimeout
	}

	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(cfg.Timeout)
	extensions.RandomUserAgent(c)

	return &PhoneResolverAdapter{
		collector:  c,
		baseURL:    cfg.BaseURL,
		gate:       cfg.Gate,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Resolve возвращает "сырой" форматированный номер или nil. Если токен
// неполный, запрос не делается вообще. Любая сетевая проблема — это
// повторная попытка, а не ошибка наверх: телефон не стоит всего объявления.
func (a *PhoneResolverAdapter) Resolve(ctx context.Context, token domain.PhoneToken) *string {
	logger := contextkeys.LoggerFromContext(ctx)
	phoneLogger := logger.WithFields(port.Fields{
		"component": "PhoneResolverAdapter",
		"car_id":    token.CarID,
	})

	if !token.Complete() {
		phoneLogger.Debug("Not enough data to request the phone number", nil)
		return nil
	}

	phoneURL := fmt.Sprintf("%s%s?hash=%s&expires=%s",
		a.baseURL,
		url.PathEscape(token.CarID),
		url.QueryEscape(token.Hash),
		url.QueryEscape(token.Expires),
	)

	for attempt := 1; attempt <= a.retries; attempt++ {
		// Строго один запрос к эндпоинту на весь процесс
		if err := a.gate.Acquire(ctx); err != nil {
			return nil
		}
		phone := a.tryFetch(ctx, phoneURL, attempt, phoneLogger)
		a.gate.Release()

		if phone != nil {
			return phone
		}
	}

	phoneLogger.Warn("Phone number not resolved after all attempts", port.Fields{
		"attempts": a.retries,
	})
	return nil
}

// tryFetch — одна попытка: пауза, запрос, разбор JSON.
func (a *PhoneResolverAdapter) tryFetch(ctx context.Context, phoneURL string, attempt int, logger port.LoggerPort) *string {
	// Пауза перед запросом — дополнительный троттлинг к шлюзу
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(a.retryDelay):
	}

	collector := a.collector.Clone()

	var phone *string

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json, text/plain, */*")
	})

	collector.OnResponse(func(r *colly.Response) {
		var data phoneAPIResponse
		if err := json.Unmarshal(r.Body, &data); err != nil {
			logger.Warn("Failed to unmarshal phone response", port.Fields{
				"attempt": attempt,
				"error":   err.Error(),
			})
			return
		}
		if len(data.Phones) > 0 && data.Phones[0].PhoneFormatted != "" {
			value := data.Phones[0].PhoneFormatted
			phone = &value
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		logger.Warn("Phone request failed", port.Fields{
			"attempt": attempt,
			"status":  r.StatusCode,
			"error":   err.Error(),
		})
	})

	if err := collector.Visit(phoneURL); err != nil {
		logger.Warn("Failed to visit phone endpoint", port.Fields{
			"attempt": attempt,
			"error":   err.Error(),
		})
		return nil
	}
	collector.Wait()

	return phone
}
