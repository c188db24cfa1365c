package autoriafetcher

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carPageHTML = `
<html>
<body>
	<h1 class="head">Audi Q7 2019</h1>
	<div class="price"><strong>35 900 $</strong></div>
	<div class="base-information bold">
		<span class="size18">142</span> тис. км пробіг
	</div>
	<div class="seller-block">
		<h4 class="seller_info_name"><a href="/user/1">ОЛЕГ ПЕТРЕНКО</a></h4>
	</div>
	<picture>
		<img class="outline m-auto" src="https://cdn.riastatic.com/photos/auto/q7__1f.jpg">
	</picture>
	<span class="count"><span class="mhide">з 57</span></span>
	<span class="state-num ua">AA 1234 BH <span class="popup">Ми розпізнали номер</span></span>
	<span class="label-vin">WAUZZZ4M8KD000001<span class="popup">Перевірений VIN</span></span>
	<ul>
		<li class="item grey">ID авто <span class="bold">37001234</span></li>
	</ul>
	<script data-hash="abc123hash" data-expires="86400"></script>
</body>
</html>`

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestToCarRecordFullPage(t *testing.T) {
	doc := parseDoc(t, carPageHTML)
	carURL := "https://auto.ria.com/uk/auto_audi_q7_37001234.html"

	record, token := toCarRecord(doc, carURL)

	require.NotNil(t, record)
	assert.Equal(t, carURL, record.URL)

	require.NotNil(t, record.Title)
	assert.Equal(t, "Audi Q7 2019", *record.Title)

	require.NotNil(t, record.PriceUSD)
	assert.Equal(t, 35900, *record.PriceUSD)

	require.NotNil(t, record.Odometer)
	assert.Equal(t, 142000, *record.Odometer)

	require.NotNil(t, record.Username)
	assert.Equal(t, "Олег Петренко", *record.Username)

	require.NotNil(t, record.ImageURL)
	assert.Equal(t, "https://cdn.riastatic.com/photos/auto/q7__1f.jpg", *record.ImageURL)

	require.NotNil(t, record.ImagesCount)
	assert.Equal(t, 57, *record.ImagesCount)

	require.NotNil(t, record.CarNumber)
	assert.Equal(t, "AA 1234 BH", *record.CarNumber)

	require.NotNil(t, record.CarVIN)
	assert.Equal(t, "WAUZZZ4M8KD000001", *record.CarVIN)

	assert.False(t, record.FoundAt.IsZero())

	assert.Equal(t, "37001234", token.CarID)
	assert.Equal(t, "abc123hash", token.Hash)
	assert.Equal(t, "86400", token.Expires)
	assert.True(t, token.Complete())
}

func TestToCarRecordEmptyPage(t *testing.T) {
	doc := parseDoc(t, "<html><body><p>nothing here</p></body></html>")

	record, token := toCarRecord(doc, "https://auto.ria.com/uk/auto_x_1.html")

	require.NotNil(t, record)
	assert.Equal(t, "https://auto.ria.com/uk/auto_x_1.html", record.URL)
	assert.Nil(t, record.Title)
	assert.Nil(t, record.PriceUSD)
	assert.Nil(t, record.Odometer)
	assert.Nil(t, record.Username)
	assert.Nil(t, record.ImageURL)
	assert.Nil(t, record.ImagesCount)
	assert.Nil(t, record.CarNumber)
	assert.Nil(t, record.CarVIN)
	assert.False(t, token.Complete())
}

func TestExtractOdometer(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *int
	}{
		{
			name:     "thousands marker multiplies by 1000",
			html:     `<div class="base-information bold"><span class="size18">350</span> тис. км</div>`,
			expected: intPtr(350000),
		},
		{
			name:     "no marker keeps raw value",
			html:     `<div class="base-information bold"><span class="size18">980</span> км</div>`,
			expected: intPtr(980),
		},
		{
			name:     "non-numeric span",
			html:     `<div class="base-information bold"><span class="size18">—</span></div>`,
			expected: nil,
		},
		{
			name:     "block missing entirely",
			html:     `<div class="other"></div>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, "<html><body>"+tt.html+"</body></html>")
			got := extractOdometer(doc)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestExtractUsernameFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *string
	}{
		{
			name:     "primary selector wins",
			html:     `<h4 class="seller_info_name"><a>перший</a></h4><div class="seller_info_name"><a>другий</a></div>`,
			expected: strPtr("Перший"),
		},
		{
			name:     "falls back to div anchor",
			html:     `<div class="seller_info_name"><a>ДРУГИЙ</a></div>`,
			expected: strPtr("Другий"),
		},
		{
			name:     "falls back to plain div text",
			html:     `<div class="seller_info_name">компанія моторс</div>`,
			expected: strPtr("Компанія Моторс"),
		},
		{
			name:     "no seller block at all",
			html:     `<div class="other"></div>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, "<html><body>"+tt.html+"</body></html>")
			got := extractUsername(doc)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestExtractCarNumberIgnoresNestedTags(t *testing.T) {
	doc := parseDoc(t, `<html><body><span class="state-num ua">BC 7777 AX <span class="popup">підказка</span></span></body></html>`)

	got := extractCarNumber(doc)

	require.NotNil(t, got)
	assert.Equal(t, "BC 7777 AX", *got)
}

func TestExtractCarVINFallback(t *testing.T) {
	// label-vin без прямого текста, VIN лежит в запасном span.vin-code
	doc := parseDoc(t, `<html><body><span class="label-vin"><span class="icon"></span></span><span class="vin-code">XTA21099S1234567</span></body></html>`)

	got := extractCarVIN(doc)

	require.NotNil(t, got)
	assert.Equal(t, "XTA21099S1234567", *got)
}

func TestExtractPhoneTokenIncomplete(t *testing.T) {
	doc := parseDoc(t, `<html><body><li class="item grey">ID авто <span class="bold">555</span></li></body></html>`)

	token := extractPhoneToken(doc)

	assert.Equal(t, "555", token.CarID)
	assert.False(t, token.Complete())
}

func strPtr(s string) *string { return &s }
