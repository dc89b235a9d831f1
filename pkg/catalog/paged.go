package catalog

import "github.com/Sternrassler/catalog-service/pkg/query"

// Page size limits for catalog queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PagedResult is one page of a catalog query.
type PagedResult struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

// NormalizePage raises page to at least 1 and clamps pageSize to [1, MaxPageSize].
func NormalizePage(page, pageSize int) (int, int) {
	return max(1, page), min(max(1, pageSize), MaxPageSize)
}

// TotalPages returns ceil(totalCount / pageSize).
func TotalPages(totalCount, pageSize int) int {
	if totalCount <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

// PageLength is the number of items a page holds given the total count.
func PageLength(totalCount, page, pageSize int) int {
	return min(pageSize, max(0, totalCount-query.PageOffset(page, pageSize)))
}
