package constants

import "time"

// Параметры источника auto.ria.com.
const (
	SearchBaseURL   = "https://auto.ria.com/uk/search/"
	PhoneAPIBaseURL = "https://auto.ria.com/users/phones/"

	// Ссылка на объявление узнается по форме href: префикс + ".html".
	CarLinkPrefix = "https://auto.ria.com/uk/auto_"
	CarLinkSuffix = ".html"

	// Сколько объявлений запрашиваем на одной странице каталога.
	SearchPageSize = 100

	// Маркер "тысяч" в тексте пробега: "350 тис. км" означает 350000 км.
	OdometerThousandsMarker = "тис."
)

// Фиксированные query-параметры страницы каталога.
const (
	SearchLangID    = "4"
	SearchIndexName = "auto"
	SearchCustom    = "1"
	SearchAbroad    = "2"
)

// Лимиты конвейера.
const (
	// Одновременных задач обработки объявлений.
	MaxDetailWorkers = 30

	// Эндпоинт телефонов агрессивно лимитируется сервером, поэтому на весь
	// процесс разрешен ровно один запрос к нему одновременно.
	PhoneGateCapacity = 1

	PhoneFetchRetries   = 3
	PhoneRetryDelay     = time.Second
	PhoneRequestTimeout = 10 * time.Second

	// Максимум соединений в пуле PostgreSQL.
	DefaultDBMaxConns = 10
)
