package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/luanmoretti/kmerch-backend/pkg/config"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
)

type fakeFetcher struct {
	listPayload   string
	detailPayload string
	err           error
	lastQuery     ListQuery
}

func (f *fakeFetcher) FetchList(ctx context.Context, query ListQuery) (any, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	var raw any
	if err := json.Unmarshal([]byte(f.listPayload), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (f *fakeFetcher) FetchDetail(ctx context.Context, id string) (any, error) {
	if f.err != nil {
		return nil, f.err
	}
	var raw any
	if err := json.Unmarshal([]byte(f.detailPayload), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func newTestService(t *testing.T, fetcher *fakeFetcher) Service {
	t.Helper()
	n := testNormalizer(t, testPricing)
	svc, err := NewService(fetcher, n, config.CatalogConfig{DefaultPageSize: 12}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceListDropsRecordsWithoutIDs(t *testing.T) {
	fetcher := &fakeFetcher{listPayload: `{
		"items": [
			{"goodsNo": 1, "name": "A", "priceCents": 1000},
			{"name": "no id"},
			{"goodsNo": 2, "name": "B", "priceCents": 2000}
		],
		"page": 1, "size": 12, "total": 3, "totalPages": 1
	}`}

	resp, err := newTestService(t, fetcher).List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected the id-less record to be dropped, got %d items", len(resp.Items))
	}
	if resp.Items[0].ID != "1" || resp.Items[1].ID != "2" {
		t.Fatalf("unexpected ids %q %q", resp.Items[0].ID, resp.Items[1].ID)
	}
}

func TestServiceListEnvelopeDefaults(t *testing.T) {
	fetcher := &fakeFetcher{listPayload: `[
		{"goodsNo": 1, "name": "A"},
		{"goodsNo": 2, "name": "B"},
		{"goodsNo": 3, "name": "C"}
	]`}

	resp, err := newTestService(t, fetcher).List(context.Background(), ListQuery{Page: 0, PageSize: 0})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.Page != 1 {
		t.Fatalf("expected page default 1, got %d", resp.Page)
	}
	if resp.PageSize != 12 {
		t.Fatalf("expected configured default page size, got %d", resp.PageSize)
	}
	if resp.Total != 3 {
		t.Fatalf("expected total from item count, got %d", resp.Total)
	}
	if resp.TotalPages != 1 {
		t.Fatalf("expected computed total pages, got %d", resp.TotalPages)
	}
}

func TestServiceListNormalizesQuery(t *testing.T) {
	fetcher := &fakeFetcher{listPayload: `[]`}
	if _, err := newTestService(t, fetcher).List(context.Background(), ListQuery{Page: -2, PageSize: 5000}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fetcher.lastQuery.Page != 1 {
		t.Fatalf("expected normalized page forwarded upstream, got %d", fetcher.lastQuery.Page)
	}
	if fetcher.lastQuery.PageSize != 100 {
		t.Fatalf("expected capped page size forwarded upstream, got %d", fetcher.lastQuery.PageSize)
	}
}

func TestServiceListWrapsUpstreamFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	_, err := newTestService(t, fetcher).List(context.Background(), ListQuery{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceGet(t *testing.T) {
	fetcher := &fakeFetcher{detailPayload: `{"goodsNo": 9, "name": "Album", "priceCents": 4590}`}
	product, err := newTestService(t, fetcher).Get(context.Background(), "9")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if product.ID != "9" || product.PriceCents != 4590 {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestServiceGetNotFoundOnUnresolvableID(t *testing.T) {
	fetcher := &fakeFetcher{detailPayload: `{"name": "ghost"}`}
	_, err := newTestService(t, fetcher).Get(context.Background(), "9")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestServiceGetRequiresID(t *testing.T) {
	fetcher := &fakeFetcher{detailPayload: `{}`}
	_, err := newTestService(t, fetcher).Get(context.Background(), "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
