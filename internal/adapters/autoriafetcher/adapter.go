package autoriafetcher

import (
	"fmt"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// AutoRiaFetcherAdapter отвечает за все взаимодействия с сайтом auto.ria.com:
// страницы каталога и страницы объявлений.
type AutoRiaFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector  *colly.Collector
	searchURL  string
	linkPrefix string
	linkSuffix string
}

// FetcherConfig — настройки адаптера. Пустые поля заменяются значениями
// для боевого auto.ria.com; в тестах сюда подставляется httptest-сервер.
type FetcherConfig struct {
	SearchURL  string
	LinkPrefix string
	LinkSuffix string
}

// NewAutoRiaFetcherAdapter - конструктор
func NewAutoRiaFetcherAdapter(cfg FetcherConfig) (*AutoRiaFetcherAdapter, error) {
	if cfg.SearchURL == "" {
		cfg.SearchURL = constants.SearchBaseURL
	}
	if cfg.LinkPrefix == "" {
		cfg.LinkPrefix = constants.CarLinkPrefix
	}
	if cfg.LinkSuffix == "" {
		cfg.LinkSuffix = constants.CarLinkSuffix
	}

	// родительский коллектор
	c := colly.NewCollector(colly.AllowURLRevisit())

	// Правило наследуется всеми клонами: параллелизм на уровне транспорта
	// совпадает с размером пула воркеров конвейера.
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*auto.ria.com*",
		Parallelism: constants.MaxDetailWorkers,
	})
	if err != nil {
		return nil, fmt.Errorf("AutoRiaFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c) // На каждый запрос подставляется User-Agent реального браузера
	extensions.Referer(c)         // Автоматически подставляет заголовок Referer, имитируя навигацию

	return &AutoRiaFetcherAdapter{
		collector:  c,
		searchURL:  cfg.SearchURL,
		linkPrefix: cfg.LinkPrefix,
		linkSuffix: cfg.LinkSuffix,
	}, nil
}
