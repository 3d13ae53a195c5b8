package domain

// PageMeta describes one page of a filtered result set. TotalCount reflects
// the full matching set, not the returned slice.
type PageMeta struct {
	Page            int   `json:"page"`
	PageSize        int   `json:"page_size"`
	PageContentSize int   `json:"page_content_size"`
	TotalCount      int64 `json:"total_count"`
	TotalPages      int   `json:"total_pages"`
	PageStart       int64 `json:"page_start"`
	PageEnd         int64 `json:"page_end"`
	HasNext         bool  `json:"has_next"`
	HasPrevious     bool  `json:"has_previous"`
}

// NewPageMeta computes pagination arithmetic. A pageSize of zero means "no
// limit": everything matched is on the single page.
func NewPageMeta(page, pageSize, contentSize int, totalCount int64) PageMeta {
	if page < 1 {
		page = 1
	}
	meta := PageMeta{
		Page:            page,
		PageSize:        pageSize,
		PageContentSize: contentSize,
		TotalCount:      totalCount,
	}
	if pageSize == 0 {
		meta.TotalPages = 1
		meta.PageStart = 1
		meta.PageEnd = totalCount
		if totalCount == 0 {
			meta.PageStart = 0
		}
		return meta
	}

	offset := int64(page-1) * int64(pageSize)
	meta.TotalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	meta.PageStart = offset + 1
	meta.PageEnd = offset + int64(pageSize)
	if meta.PageEnd > totalCount {
		meta.PageEnd = totalCount
	}
	if meta.PageStart > totalCount {
		meta.PageStart = totalCount
	}
	meta.HasNext = page < meta.TotalPages
	meta.HasPrevious = page > 1
	return meta
}
