package domain

// PaginationParams is a 1-based page request for list queries. PageSize 0 means unbounded.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the requested page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Pages is the number of pages needed to hold total rows.
func (p PaginationParams) Pages(total int) int {
	if p.PageSize < 1 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}
