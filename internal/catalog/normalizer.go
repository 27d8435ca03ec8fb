package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/luanmoretti/kmerch-backend/pkg/config"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
	"github.com/luanmoretti/kmerch-backend/pkg/rawmap"
	"github.com/shopspring/decimal"
)

// Ordered alias lists per canonical field. First present, non-empty
// value wins; the order encodes which upstream spelling we trust most.
var (
	idAliases          = []string{"goodsNo", "id", "goods_no", "goods_id", "product_id", "sku", "code"}
	titleAliases       = []string{"name", "title", "goodsNm", "goodsName", "goodsTitle", "goodsNmEn", "goodsNmKor"}
	artistAliases      = []string{"groupName", "grpNm", "artist", "artistName", "group", "band", "brand", "company", "label"}
	categoryAliases    = []string{"kind", "type", "category", "goodsType", "goodsTypeName", "categoryName"}
	descriptionAliases = []string{"description", "detail", "contents", "goodsDesc"}
	releaseAliases     = []string{"releaseDate", "release_date", "releaseAt", "launchDate", "openDate", "open_date"}
	looseCentsAliases  = []string{"priceCents", "salePriceCents", "salePrice", "price", "goodsPrice"}
	primaryImgAliases  = []string{"imgPath", "imageUrl", "image", "thumbnail", "thumb", "mainImage", "mainImageUrl", "coverImage", "goodsImage", "goodsImg"}
	nestedThumbAliases = []string{"thumb", "t1", "t2"}
	galleryAliases     = []string{"images", "imageUrls", "gallery", "detailImages"}
	imageURLKeys       = []string{"url", "imageUrl", "src", "path"}
)

var releaseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006.01.02",
	"2006/01/02",
}

// Normalizer converts raw upstream catalog records into canonical
// products. It has no side effects beyond logging and counters;
// output is deterministic for a fixed clock and pricing config.
type Normalizer struct {
	pricing config.PricingConfig
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
	now     func() time.Time
}

// NormalizerOption configures optional normalizer behavior.
type NormalizerOption func(*Normalizer)

// WithClock overrides the reference clock used for preorder inference.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNormalizer builds a normalizer for the given pricing configuration.
func NewNormalizer(pricing config.PricingConfig, logg *logger.Logger, m *metrics.CatalogMetrics, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		pricing: pricing,
		logg:    logg,
		metrics: m,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Normalize maps one untrusted upstream record to a canonical product.
// Malformed fields degrade to safe defaults and never fail the whole
// record; the only anomaly surfaced is a record with no resolvable
// identifier, reported through the warning side-channel.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any) Product {
	id, _ := rawmap.PickStringID(raw, idAliases...)

	title, ok := rawmap.PickString(raw, titleAliases...)
	if !ok {
		title = defaultTitle
	}

	artist, _ := rawmap.PickString(raw, artistAliases...)
	category, _ := rawmap.PickString(raw, categoryAliases...)
	description, _ := rawmap.PickString(raw, descriptionAliases...)
	releaseDate, _ := rawmap.PickString(raw, releaseAliases...)

	product := Product{
		ID:          id,
		Title:       title,
		Description: description,
		PriceCents:  n.resolvePriceCents(ctx, raw),
		Images:      resolveImages(raw),
		Category:    category,
		Artist:      artist,
		ReleaseDate: releaseDate,
		IsPreorder:  n.resolvePreorder(raw, releaseDate),
		Variations:  resolveVariations(raw),
	}

	if product.ID == "" {
		if n.logg != nil {
			n.logg.Warn(n.logg.WithField(ctx, "title", title), "catalog record has no resolvable identifier")
		}
		n.metrics.IncMissingID()
	}
	n.metrics.IncNormalized()

	return product
}

// resolvePriceCents implements the price contract: the nested price
// object wins, charging on originalAmount when present; USD amounts
// run the conversion pipeline, other currencies only get the
// psychological rounding. Without a price object, a prioritized list
// of bare aliases is tried with the cents-detection heuristic.
func (n *Normalizer) resolvePriceCents(ctx context.Context, raw map[string]any) int64 {
	if priceObj, ok := rawmap.Record(raw["price"]); ok {
		amount, amountOK := rawmap.Number(priceObj["amount"])
		if original, ok := rawmap.Number(priceObj["originalAmount"]); ok {
			amount, amountOK = original, true
		}
		if amountOK {
			// Only an explicit USD tag runs the conversion pipeline.
			// An absent or foreign currency means the amount is already
			// in the target currency and only gets the rounding.
			currency, hasCurrency := rawmap.String(priceObj["currency"])

			var final decimal.Decimal
			if hasCurrency && strings.EqualFold(currency, "USD") {
				if !n.pricing.HasExchangeRate() {
					if n.logg != nil {
						n.logg.Warn(ctx, "usd exchange rate not configured, using identity rate")
					}
					n.metrics.IncRateFallback()
				}
				final = finalPriceFromUSD(decimal.NewFromFloat(amount), n.pricing)
			} else {
				final = roundToFiveEnding(decimal.NewFromFloat(amount))
			}
			return clampCents(centsFromUnits(final))
		}
	}

	if value, ok := rawmap.PickNumber(raw, looseCentsAliases...); ok {
		n.metrics.IncCentsFallback()
		return clampCents(centsFromLoose(value))
	}
	return 0
}

func (n *Normalizer) resolvePreorder(raw map[string]any, releaseDate string) bool {
	if explicit, ok := rawmap.Bool(raw["isPreorder"]); ok {
		return explicit
	}
	return n.isFutureDate(releaseDate)
}

// isFutureDate compares at calendar-day granularity in the reference
// clock's location; time-of-day never flips preorder status.
func (n *Normalizer) isFutureDate(value string) bool {
	parsed, ok := parseReleaseDate(value)
	if !ok {
		return false
	}
	now := n.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	return target.After(today)
}

func parseReleaseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// resolveImages collects candidate URL lists in priority order and
// keeps the first non-empty one, preserving upstream ordering.
func resolveImages(raw map[string]any) []string {
	var primary []string
	if nested, ok := rawmap.Record(raw["images"]); ok {
		if url, ok := rawmap.PickString(nested, nestedThumbAliases...); ok {
			primary = []string{url}
		}
	}
	if len(primary) == 0 {
		if url, ok := rawmap.PickString(raw, primaryImgAliases...); ok {
			primary = []string{url}
		}
	}

	candidates := [][]string{primary}
	for _, key := range galleryAliases {
		candidates = append(candidates, extractImageURLs(raw[key]))
	}
	for _, list := range candidates {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}

// extractImageURLs accepts an array of bare URL strings or of objects
// carrying the URL under any recognized key.
func extractImageURLs(value any) []string {
	list, ok := rawmap.List(value)
	if !ok {
		return nil
	}
	var urls []string
	for _, entry := range list {
		if url, ok := rawmap.String(entry); ok {
			urls = append(urls, url)
			continue
		}
		if rec, ok := rawmap.Record(entry); ok {
			if url, ok := rawmap.PickString(rec, imageURLKeys...); ok {
				urls = append(urls, url)
			}
		}
	}
	return urls
}

// resolveVariations passes the upstream variation list through with
// per-variation price normalization only; variations are assumed to
// already be priced in the target currency, so the full conversion
// pipeline does not apply.
func resolveVariations(raw map[string]any) []Variation {
	list, ok := rawmap.List(raw["variations"])
	if !ok {
		return nil
	}
	var variations []Variation
	for _, entry := range list {
		rec, ok := rawmap.Record(entry)
		if !ok {
			continue
		}
		name, ok := rawmap.PickString(rec, "name", "title")
		if !ok {
			continue
		}
		variation := Variation{Name: name}
		if id, ok := rawmap.StringID(rec["id"]); ok {
			variation.ID = id
		}
		if url, ok := rawmap.PickString(rec, "imageUrl", "image", "thumb"); ok {
			variation.ImageURL = url
		}
		if cents, ok := rawmap.Number(rec["priceCents"]); ok {
			variation.PriceCents = clampCents(decimal.NewFromFloat(cents).Round(0).IntPart())
		} else if units, ok := rawmap.Number(rec["price"]); ok {
			variation.PriceCents = clampCents(centsFromLoose(units))
		}
		variations = append(variations, variation)
	}
	return variations
}

func clampCents(cents int64) int64 {
	if cents < 0 {
		return 0
	}
	return cents
}
