package catalog

import (
	"context"
	"fmt"

	"github.com/luanmoretti/kmerch-backend/pkg/config"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
	"github.com/luanmoretti/kmerch-backend/pkg/pagination"
	"github.com/luanmoretti/kmerch-backend/pkg/rawmap"
)

// ListQuery carries the catalog browse parameters forwarded upstream.
type ListQuery struct {
	Page         int
	PageSize     int
	Search       string
	Category     string
	Sort         string
	MinPrice     float64
	MaxPrice     float64
	PreorderOnly bool
}

// ListResponse is the canonical product list envelope served to the UI.
type ListResponse struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}

// Fetcher is the injected transport to the upstream catalog. It
// returns raw decoded JSON; all shape interpretation happens here.
type Fetcher interface {
	FetchList(ctx context.Context, query ListQuery) (any, error)
	FetchDetail(ctx context.Context, id string) (any, error)
}

// Service exposes normalized catalog reads.
type Service interface {
	List(ctx context.Context, query ListQuery) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Product, error)
}

type service struct {
	fetcher    Fetcher
	normalizer *Normalizer
	cfg        config.CatalogConfig
	logg       *logger.Logger
	metrics    *metrics.CatalogMetrics
}

// NewService builds a catalog service over the provided transport.
func NewService(fetcher Fetcher, normalizer *Normalizer, cfg config.CatalogConfig, logg *logger.Logger, m *metrics.CatalogMetrics) (Service, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher required")
	}
	if normalizer == nil {
		return nil, fmt.Errorf("normalizer required")
	}
	return &service{
		fetcher:    fetcher,
		normalizer: normalizer,
		cfg:        cfg,
		logg:       logg,
		metrics:    m,
	}, nil
}

// List fetches one upstream page, normalizes every record and drops
// the ones with no resolvable identifier before they reach a client.
func (s *service) List(ctx context.Context, query ListQuery) (*ListResponse, error) {
	query.Page = pagination.NormalizePage(query.Page)
	query.PageSize = pagination.NormalizePageSize(query.PageSize, s.cfg.DefaultPageSize)

	raw, err := s.fetcher.FetchList(ctx, query)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog page")
	}

	envelope := ExtractListEnvelope(raw)
	if envelope.Items == nil {
		if _, isList := rawmap.List(raw); !isList {
			s.metrics.IncEnvelopeBadShape()
		}
	}

	items := make([]Product, 0, len(envelope.Items))
	dropped := 0
	for _, record := range envelope.Items {
		product := s.normalizer.Normalize(ctx, record)
		if product.ID == "" {
			dropped++
			continue
		}
		items = append(items, product)
	}
	if dropped > 0 && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "dropped", dropped), "dropped catalog records without identifiers")
	}

	page := envelope.Page
	if page == 0 {
		page = query.Page
	}
	pageSize := envelope.PageSize
	if pageSize == 0 {
		pageSize = query.PageSize
	}
	total := envelope.Total
	if total == 0 {
		total = len(items)
	}
	totalPages := envelope.TotalPages
	if totalPages == 0 {
		totalPages = pagination.TotalPages(total, pageSize)
	}

	return &ListResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Get fetches and normalizes a single product.
func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	raw, err := s.fetcher.FetchDetail(ctx, id)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch product detail")
	}

	record, ok := rawmap.Record(raw)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	product := s.normalizer.Normalize(ctx, record)
	if product.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}
