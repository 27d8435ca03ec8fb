package catalog

import "github.com/luanmoretti/kmerch-backend/pkg/rawmap"

// ListEnvelope is the shape-normalized view of an upstream list
// response. Zero values mean "absent"; callers apply their defaults.
type ListEnvelope struct {
	Items      []map[string]any
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

var (
	itemsAliases      = []string{"items", "list", "data"}
	pageAliases       = []string{"page", "pageNo", "pageNumber"}
	pageSizeAliases   = []string{"size", "pageSize"}
	totalAliases      = []string{"total", "totalCount"}
	totalPagesAliases = []string{"totalPages", "pages"}
)

// ExtractListEnvelope accepts a bare array of records or any of the
// known envelope spellings, including one nested "data" level, and
// flattens it. Unrecognizable payloads yield an empty envelope.
func ExtractListEnvelope(raw any) ListEnvelope {
	if list, ok := rawmap.List(raw); ok {
		return ListEnvelope{Items: recordsFrom(list)}
	}

	envelope, ok := rawmap.Record(raw)
	if !ok {
		return ListEnvelope{}
	}

	scopes := []map[string]any{envelope}
	if nested, ok := rawmap.Record(envelope["data"]); ok {
		scopes = append(scopes, nested)
	}

	result := ListEnvelope{}
	for _, scope := range scopes {
		if result.Items == nil {
			for _, key := range itemsAliases {
				if list, ok := rawmap.List(scope[key]); ok {
					result.Items = recordsFrom(list)
					break
				}
			}
		}
		if result.Page == 0 {
			if n, ok := rawmap.PickNumber(scope, pageAliases...); ok {
				result.Page = int(n)
			}
		}
		if result.PageSize == 0 {
			if n, ok := rawmap.PickNumber(scope, pageSizeAliases...); ok {
				result.PageSize = int(n)
			}
		}
		if result.Total == 0 {
			if n, ok := rawmap.PickNumber(scope, totalAliases...); ok {
				result.Total = int(n)
			}
		}
		if result.TotalPages == 0 {
			if n, ok := rawmap.PickNumber(scope, totalPagesAliases...); ok {
				result.TotalPages = int(n)
			}
		}
	}
	return result
}

func recordsFrom(list []any) []map[string]any {
	records := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if rec, ok := rawmap.Record(entry); ok {
			records = append(records, rec)
		}
	}
	return records
}
