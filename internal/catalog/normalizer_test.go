package catalog

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/luanmoretti/kmerch-backend/pkg/config"
)

var testPricing = config.PricingConfig{
	USDExchangeRate:      5,
	ShippingSurchargeUSD: 10,
	ImportTaxRate:        0.6,
	MarginRate:           0.05,
	ProcessorFeeRate:     0.05,
}

func testNormalizer(t *testing.T, pricing config.PricingConfig) *Normalizer {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	}
	return NewNormalizer(pricing, nil, nil, WithClock(clock))
}

func decodeRecord(t *testing.T, payload string) map[string]any {
	t.Helper()
	var record map[string]any
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("decode test payload: %v", err)
	}
	return record
}

func TestNormalizeUSDConversionWorkedExample(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"goodsNo": 2417050,
		"name": "Lightstick Ver.3",
		"price": {"currency": "USD", "amount": 100}
	}`)

	product := n.Normalize(context.Background(), record)

	if product.ID != "2417050" {
		t.Fatalf("expected numeric id coerced to string, got %q", product.ID)
	}
	if product.PriceCents != 97499 {
		t.Fatalf("expected priceCents 97499, got %d", product.PriceCents)
	}
}

func TestNormalizePrefersOriginalAmount(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"goodsNo": 1,
		"name": "Album",
		"price": {"currency": "USD", "amount": 80, "originalAmount": 100}
	}`)

	product := n.Normalize(context.Background(), record)
	if product.PriceCents != 97499 {
		t.Fatalf("expected pre-discount amount to drive pricing, got %d", product.PriceCents)
	}
}

func TestNormalizeNonUSDSkipsConversion(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"id": "br-1",
		"name": "Poster",
		"price": {"currency": "BRL", "amount": 19.9}
	}`)

	product := n.Normalize(context.Background(), record)
	// Only the psychological rounding applies: 19.9 -> 19.99.
	if product.PriceCents != 1999 {
		t.Fatalf("expected 1999 cents for non-USD amount, got %d", product.PriceCents)
	}
}

func TestNormalizeAbsentCurrencySkipsConversion(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"id": "loc-1",
		"name": "Poster",
		"price": {"amount": 100}
	}`)

	product := n.Normalize(context.Background(), record)
	// No currency tag means the amount is already local: rounding
	// only, 100 -> 99.99, never the conversion pipeline.
	if product.PriceCents != 9999 {
		t.Fatalf("expected 9999 cents for untagged amount, got %d", product.PriceCents)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"goodsNo": 77,
		"name": "Photocard Set",
		"price": {"currency": "USD", "amount": 12.5},
		"images": ["https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"],
		"releaseDate": "2026-05-01",
		"variations": [{"id": 1, "name": "Ver. A", "price": 12.5}]
	}`)

	first := n.Normalize(context.Background(), record)
	second := n.Normalize(context.Background(), record)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization is not deterministic:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestNormalizePriceNeverNegative(t *testing.T) {
	n := testNormalizer(t, testPricing)
	cases := []string{
		`{"id": "a", "price": {"currency": "USD", "amount": -50}}`,
		`{"id": "b", "price": {"currency": "BRL", "amount": -1}}`,
		`{"id": "c", "salePrice": -10}`,
		`{"id": "d"}`,
	}
	for _, payload := range cases {
		product := n.Normalize(context.Background(), decodeRecord(t, payload))
		if product.PriceCents < 0 {
			t.Fatalf("negative priceCents %d for %s", product.PriceCents, payload)
		}
	}
}

func TestNormalizeLooseCentsFallbackChain(t *testing.T) {
	n := testNormalizer(t, testPricing)

	product := n.Normalize(context.Background(), decodeRecord(t, `{"id": "x", "priceCents": 4590}`))
	if product.PriceCents != 4590 {
		t.Fatalf("expected cents alias taken verbatim, got %d", product.PriceCents)
	}

	product = n.Normalize(context.Background(), decodeRecord(t, `{"id": "y", "goodsPrice": 49.9}`))
	if product.PriceCents != 4990 {
		t.Fatalf("expected unit amount scaled to cents, got %d", product.PriceCents)
	}
}

func TestNormalizeMissingRateDegradesToIdentity(t *testing.T) {
	pricing := testPricing
	pricing.USDExchangeRate = 0
	n := testNormalizer(t, pricing)

	record := decodeRecord(t, `{
		"id": "deg",
		"price": {"currency": "USD", "amount": 10}
	}`)

	product := n.Normalize(context.Background(), record)
	// base = 10+10 = 20; tax = 12; margin = 1.6; subtotal = 33.6;
	// total = 35.368...; rounded = 40 - 0.01.
	if product.PriceCents != 3999 {
		t.Fatalf("expected degraded identity-rate price 3999, got %d", product.PriceCents)
	}
}

func TestNormalizeFieldAliases(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"goods_id": "G-9",
		"goodsNm": "  Official Slogan  ",
		"grpNm": "NewJeans",
		"goodsTypeName": "MD",
		"goodsDesc": "Limited run"
	}`)

	product := n.Normalize(context.Background(), record)
	if product.ID != "G-9" {
		t.Fatalf("unexpected id %q", product.ID)
	}
	if product.Title != "Official Slogan" {
		t.Fatalf("expected trimmed title, got %q", product.Title)
	}
	if product.Artist != "NewJeans" || product.Category != "MD" {
		t.Fatalf("unexpected artist/category %q/%q", product.Artist, product.Category)
	}
	if product.Description != "Limited run" {
		t.Fatalf("unexpected description %q", product.Description)
	}
	if product.TypeLabel() != "NewJeans" {
		t.Fatalf("artist should win the type label, got %q", product.TypeLabel())
	}
}

func TestNormalizeDefaultsOnEmptyRecord(t *testing.T) {
	n := testNormalizer(t, testPricing)

	product := n.Normalize(context.Background(), map[string]any{})
	if product.ID != "" {
		t.Fatalf("expected empty id, got %q", product.ID)
	}
	if product.Title != "Produto" {
		t.Fatalf("expected placeholder title, got %q", product.Title)
	}
	if product.PriceCents != 0 {
		t.Fatalf("expected zero price, got %d", product.PriceCents)
	}
	if product.IsPreorder {
		t.Fatal("empty record cannot be a preorder")
	}
}

func TestNormalizeLiteralNullStringsAreAbsent(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"id": "n1",
		"name": "null",
		"category": "undefined"
	}`)

	product := n.Normalize(context.Background(), record)
	if product.Title != "Produto" {
		t.Fatalf("literal null title should fall back, got %q", product.Title)
	}
	if product.Category != "" {
		t.Fatalf("literal undefined category should be absent, got %q", product.Category)
	}
}

func TestNormalizePreorderInference(t *testing.T) {
	n := testNormalizer(t, testPricing) // clock fixed at 2026-03-15

	cases := map[string]struct {
		payload string
		want    bool
	}{
		"explicitFlagWins":    {payload: `{"id":"1","isPreorder":false,"releaseDate":"2030-01-01"}`, want: false},
		"futureDate":          {payload: `{"id":"2","releaseDate":"2026-03-16"}`, want: true},
		"sameDayNotPreorder":  {payload: `{"id":"3","releaseDate":"2026-03-15"}`, want: false},
		"sameDayLaterHour":    {payload: `{"id":"4","releaseDate":"2026-03-15T23:59:00Z"}`, want: false},
		"pastDate":            {payload: `{"id":"5","releaseDate":"2020-01-01"}`, want: false},
		"dottedLayout":        {payload: `{"id":"6","releaseDate":"2026.04.01"}`, want: true},
		"unparseableDate":     {payload: `{"id":"7","releaseDate":"soon"}`, want: false},
		"openDateAlias":       {payload: `{"id":"8","open_date":"2026-06-01"}`, want: true},
		"missingDate":         {payload: `{"id":"9"}`, want: false},
		"explicitTrueNoDates": {payload: `{"id":"10","isPreorder":true}`, want: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			product := n.Normalize(context.Background(), decodeRecord(t, tc.payload))
			if product.IsPreorder != tc.want {
				t.Fatalf("isPreorder = %v, want %v", product.IsPreorder, tc.want)
			}
		})
	}
}

func TestNormalizeImageResolution(t *testing.T) {
	n := testNormalizer(t, testPricing)

	t.Run("nestedThumbObjectWins", func(t *testing.T) {
		record := decodeRecord(t, `{
			"id": "img1",
			"images": {"thumb": "https://cdn/th.jpg", "t1": "https://cdn/t1.jpg"},
			"gallery": ["https://cdn/g1.jpg"]
		}`)
		product := n.Normalize(context.Background(), record)
		if got := product.PrimaryImage(); got != "https://cdn/th.jpg" {
			t.Fatalf("unexpected primary image %q", got)
		}
	})

	t.Run("arrayOfObjects", func(t *testing.T) {
		record := decodeRecord(t, `{
			"id": "img2",
			"detailImages": [{"src": "https://cdn/d1.jpg"}, {"url": "https://cdn/d2.jpg"}]
		}`)
		product := n.Normalize(context.Background(), record)
		want := []string{"https://cdn/d1.jpg", "https://cdn/d2.jpg"}
		if !reflect.DeepEqual(product.Images, want) {
			t.Fatalf("expected ordered urls %v, got %v", want, product.Images)
		}
	})

	t.Run("firstNonEmptyListWins", func(t *testing.T) {
		record := decodeRecord(t, `{
			"id": "img3",
			"imageUrls": [],
			"gallery": ["https://cdn/g1.jpg", "https://cdn/g2.jpg"]
		}`)
		product := n.Normalize(context.Background(), record)
		if len(product.Images) != 2 || product.Images[0] != "https://cdn/g1.jpg" {
			t.Fatalf("unexpected images %v", product.Images)
		}
	})

	t.Run("noImages", func(t *testing.T) {
		product := n.Normalize(context.Background(), decodeRecord(t, `{"id": "img4"}`))
		if len(product.Images) != 0 || product.PrimaryImage() != "" {
			t.Fatalf("expected no images, got %v", product.Images)
		}
	})
}

func TestNormalizeVariations(t *testing.T) {
	n := testNormalizer(t, testPricing)
	record := decodeRecord(t, `{
		"id": "v1",
		"name": "Photocard Binder",
		"price": {"currency": "BRL", "amount": 100},
		"variations": [
			{"id": 10, "name": "Pink", "priceCents": 12000, "imageUrl": "https://cdn/p.jpg"},
			{"name": "Blue", "price": 95.5},
			{"name": "Green"},
			{"price": 10}
		]
	}`)

	product := n.Normalize(context.Background(), record)
	if len(product.Variations) != 3 {
		t.Fatalf("nameless variations must be skipped, got %d", len(product.Variations))
	}

	pink := product.Variations[0]
	if pink.ID != "10" || pink.PriceCents != 12000 || pink.ImageURL != "https://cdn/p.jpg" {
		t.Fatalf("unexpected first variation %+v", pink)
	}
	if product.Variations[1].PriceCents != 9550 {
		t.Fatalf("unit price variation should scale to cents, got %d", product.Variations[1].PriceCents)
	}
	if product.Variations[2].PriceCents != 0 {
		t.Fatalf("priceless variation should carry zero, got %d", product.Variations[2].PriceCents)
	}

	if got := product.PriceCentsFor("10"); got != 12000 {
		t.Fatalf("variation price should override, got %d", got)
	}
	if got := product.PriceCentsFor("Green"); got != product.PriceCents {
		t.Fatalf("priceless variation should fall back to product price, got %d", got)
	}
	if got := product.PriceCentsFor(""); got != product.PriceCents {
		t.Fatalf("no variation selected should use product price, got %d", got)
	}
}
