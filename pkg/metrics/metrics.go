package metrics

import "github.com/prometheus/client_golang/prometheus"

// CatalogMetrics records normalizer outcomes.
type CatalogMetrics struct {
	normalized       prometheus.Counter
	missingID        prometheus.Counter
	rateFallback     prometheus.Counter
	centsFallback    prometheus.Counter
	envelopeBadShape prometheus.Counter
}

// NewCatalogMetrics registers the catalog counters on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	normalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_normalized_total",
		Help: "Products normalized from upstream payloads.",
	})
	missingID := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_missing_id_total",
		Help: "Upstream records with no resolvable identifier.",
	})
	rateFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_exchange_rate_fallback_total",
		Help: "Normalizations performed with the identity exchange rate.",
	})
	centsFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_price_cents_fallback_total",
		Help: "Prices resolved through the direct cents-alias heuristic.",
	})
	envelopeBadShape := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_envelope_unrecognized_total",
		Help: "List responses with no recognizable item collection.",
	})
	reg.MustRegister(normalized, missingID, rateFallback, centsFallback, envelopeBadShape)
	return &CatalogMetrics{
		normalized:       normalized,
		missingID:        missingID,
		rateFallback:     rateFallback,
		centsFallback:    centsFallback,
		envelopeBadShape: envelopeBadShape,
	}
}

// IncNormalized counts one normalized product.
func (c *CatalogMetrics) IncNormalized() {
	if c == nil || c.normalized == nil {
		return
	}
	c.normalized.Inc()
}

// IncMissingID counts one record without an identifier.
func (c *CatalogMetrics) IncMissingID() {
	if c == nil || c.missingID == nil {
		return
	}
	c.missingID.Inc()
}

// IncRateFallback counts one identity-rate degradation.
func (c *CatalogMetrics) IncRateFallback() {
	if c == nil || c.rateFallback == nil {
		return
	}
	c.rateFallback.Inc()
}

// IncCentsFallback counts one price resolved from a direct alias.
func (c *CatalogMetrics) IncCentsFallback() {
	if c == nil || c.centsFallback == nil {
		return
	}
	c.centsFallback.Inc()
}

// IncEnvelopeBadShape counts one unrecognizable list envelope.
func (c *CatalogMetrics) IncEnvelopeBadShape() {
	if c == nil || c.envelopeBadShape == nil {
		return
	}
	c.envelopeBadShape.Inc()
}

// CartMetrics records cart transitions and persistence outcomes.
type CartMetrics struct {
	actions         *prometheus.CounterVec
	persistFailures prometheus.Counter
	corruptSnapshot prometheus.Counter
}

// NewCartMetrics registers the cart counters on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_actions_total",
		Help: "Cart state transitions by action type.",
	}, []string{"action"})
	persistFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Best-effort snapshot writes that failed.",
	})
	corruptSnapshot := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_corrupt_snapshots_total",
		Help: "Persisted snapshots discarded as malformed on load.",
	})
	reg.MustRegister(actions, persistFailures, corruptSnapshot)
	return &CartMetrics{
		actions:         actions,
		persistFailures: persistFailures,
		corruptSnapshot: corruptSnapshot,
	}
}

// IncAction counts one applied cart action.
func (c *CartMetrics) IncAction(action string) {
	if c == nil || c.actions == nil {
		return
	}
	c.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncPersistFailure counts one swallowed snapshot write failure.
func (c *CartMetrics) IncPersistFailure() {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.Inc()
}

// IncCorruptSnapshot counts one discarded snapshot.
func (c *CartMetrics) IncCorruptSnapshot() {
	if c == nil || c.corruptSnapshot == nil {
		return
	}
	c.corruptSnapshot.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
