package autoriafetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"
	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// buildSearchURL собирает URL страницы каталога: номер страницы плюс
// фиксированные параметры поиска.
func (a *AutoRiaFetcherAdapter) buildSearchURL(page int) (string, error) {
	u, err := url.Parse(a.searchURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("lang_id", constants.SearchLangID)
	q.Set("page", strconv.Itoa(page))
	q.Set("countpage", strconv.Itoa(constants.SearchPageSize))
	q.Set("indexName", constants.SearchIndexName)
	q.Set("custom", constants.SearchCustom)
	q.Set("abroad", constants.SearchAbroad)

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchLinks загружает одну страницу каталога и возвращает ссылки на
// объявления в порядке появления на странице. Дубликаты внутри страницы
// сохраняются как есть — дедупликация происходит ниже по конвейеру.
//
// Признак продолжения: страница дала хотя бы одну ссылку. Неполная страница
// сама по себе обход не останавливает, останавливает только пустая.
func (a *AutoRiaFetcherAdapter) FetchLinks(ctx context.Context, page int) ([]string, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLinksLogger := logger.WithFields(port.Fields{"component": "AutoRiaFetcherAdapter(FetchLinks)"})

	// наследует лимиты, но имеет свои собственные обработчики
	collector := a.collector.Clone()

	var fetchedLinks []string
	var responseErr error

	targetURL, err := a.buildSearchURL(page)
	if err != nil {
		return nil, false, fmt.Errorf("autoria adapter: failed to build search URL for page %d: %w", page, err)
	}

	collector.OnRequest(func(r *colly.Request) {
		fetchLinksLogger.Debug("Making request to fetch links", port.Fields{
			"url":  r.URL.String(),
			"page": page,
		})
		r.Headers.Set("Accept", "text/html")
	})

	collector.OnHTML("a.address", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if strings.HasPrefix(href, a.linkPrefix) && strings.HasSuffix(href, a.linkSuffix) {
			fetchedLinks = append(fetchedLinks, href)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLinksLogger.Error("Failed to fetch links page", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("autoria adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if visitErr := collector.Visit(targetURL); visitErr != nil {
		return nil, false, fmt.Errorf("autoria adapter: failed to visit URL %s: %w", targetURL, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, false, responseErr
	}

	hasMore := len(fetchedLinks) > 0

	fetchLinksLogger.Info("Finished fetching links for page", port.Fields{
		"page":        page,
		"links_found": len(fetchedLinks),
		"has_more":    hasMore,
	})

	return fetchedLinks, hasMore, nil
}
