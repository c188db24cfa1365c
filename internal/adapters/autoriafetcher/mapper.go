package autoriafetcher

import (
	"strconv"
	"strings"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/constants"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
)

// toCarRecord - главный метод-трансформер: документ страницы объявления
// превращается в запись и в токен для запроса телефона.
//
// Каждое поле извлекается независимо: отсутствие или кривая верстка одного
// поля не мешает извлечь остальные. Чистая функция над документом, никаких
// побочных эффектов.
func toCarRecord(doc *goquery.Document, carURL string) (*domain.CarRecord, domain.PhoneToken) {
	record := &domain.CarRecord{
		URL:         carURL,
		Title:       extractTitle(doc),
		PriceUSD:    extractPriceUSD(doc),
		Odometer:    extractOdometer(doc),
		Username:    extractUsername(doc),
		ImageURL:    extractImageURL(doc),
		ImagesCount: extractImagesCount(doc),
		CarNumber:   extractCarNumber(doc),
		CarVIN:      extractCarVIN(doc),
		FoundAt:     time.Now(),
	}

	return record, extractPhoneToken(doc)
}

// safeText возвращает обрезанный текст первого совпадения селектора
// или nil, если элемента нет либо текст пустой.
func safeText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return nil
	}
	return &text
}

// ownText собирает только прямые текстовые узлы элемента, без текста
// вложенных тегов.
func ownText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			parts = append(parts, node.Text())
		}
	})
	return strings.TrimSpace(strings.Join(parts, ""))
}

func extractTitle(doc *goquery.Document) *string {
	return safeText(doc, "h1.head")
}

func extractPriceUSD(doc *goquery.Document) *int {
	txt := safeText(doc, "strong")
	if txt == nil {
		return nil
	}
	return intFromText(*txt)
}

// extractOdometer возвращает пробег в километрах. На странице число выводится
// округленным до тысяч ("350 тис. км"), поэтому при наличии маркера "тис."
// значение умножается на 1000.
func extractOdometer(doc *goquery.Document) *int {
	div := doc.Find("div.base-information.bold").First()
	if div.Length() == 0 {
		return nil
	}

	numberSpan := div.Find("span.size18").First()
	if numberSpan.Length() == 0 {
		return nil
	}

	number, err := strconv.Atoi(strings.TrimSpace(numberSpan.Text()))
	if err != nil {
		return nil
	}

	if strings.Contains(div.Text(), constants.OdometerThousandsMarker) {
		number *= 1000
	}

	return &number
}

// extractUsername пробует цепочку мест, где верстка прячет имя продавца,
// и берет первое непустое. Это fallback-цепочка, не объединение.
func extractUsername(doc *goquery.Document) *string {
	for _, selector := range []string{
		"h4.seller_info_name a",
		"div.seller_info_name a",
		"div.seller_info_name",
	} {
		if txt := safeText(doc, selector); txt != nil {
			normalized := NormalizeSellerName(*txt)
			if normalized != "" {
				return &normalized
			}
		}
	}
	return nil
}

func extractImageURL(doc *goquery.Document) *string {
	img := doc.Find("picture img.outline.m-auto").First()
	if img.Length() == 0 {
		return nil
	}
	src, exists := img.Attr("src")
	if !exists || src == "" {
		return nil
	}
	return &src
}

func extractImagesCount(doc *goquery.Document) *int {
	txt := safeText(doc, "span.count span.mhide")
	if txt == nil {
		return nil
	}
	return intFromText(*txt)
}

// extractCarNumber берет госномер из первого текстового узла span,
// игнорируя вложенные декоративные теги.
func extractCarNumber(doc *goquery.Document) *string {
	span := doc.Find("span.state-num.ua").First()
	if span.Length() == 0 {
		return nil
	}
	number := ownText(span)
	if number == "" {
		return nil
	}
	return &number
}

// extractCarVIN сначала смотрит прямые текстовые узлы span.label-vin
// (VIN лежит рядом со служебной иконкой), затем запасной span.vin-code.
func extractCarVIN(doc *goquery.Document) *string {
	labelSpan := doc.Find("span.label-vin").First()
	if labelSpan.Length() > 0 {
		if vin := ownText(labelSpan); vin != "" {
			return &vin
		}
	}

	if vin := safeText(doc, "span.vin-code"); vin != nil {
		return vin
	}
	return nil
}

// extractCarID находит идентификатор объявления в списке характеристик:
// элемент li.item.grey, начинающийся с "ID авто".
func extractCarID(doc *goquery.Document) string {
	var carID string
	doc.Find("li.item.grey").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !strings.HasPrefix(strings.TrimSpace(li.Text()), "ID авто") {
			return true
		}
		carID = strings.TrimSpace(li.Find("span.bold").First().Text())
		return false
	})
	return carID
}

// extractPhoneToken собирает тройку (id, hash, expires) для запроса телефона.
// Подпись лежит в атрибутах script-тега на странице объявления.
func extractPhoneToken(doc *goquery.Document) domain.PhoneToken {
	token := domain.PhoneToken{CarID: extractCarID(doc)}

	script := doc.Find("script[data-hash][data-expires]").First()
	if script.Length() == 0 {
		return token
	}

	token.Hash, _ = script.Attr("data-hash")
	token.Expires, _ = script.Attr("data-expires")
	return token
}
