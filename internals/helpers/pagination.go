package helper

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// ClampPaging: page >= 1, perPage di [1, maxPerPage].
// perPage <= 0 dianggap "tidak dikirim" → defaultPerPage.
func ClampPaging(page, perPage, defaultPerPage, maxPerPage int) Paging {
	if page < 1 {
		page = DefaultPage
	}
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"` // jumlah item di halaman ini
}

func BuildPaginationFromPage(total int64, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage)) // ceil
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
