package pagination

import "gorm.io/gorm"

// Pagination is the metadata block returned next to every list payload.
type Pagination struct {
	TotalRecords int64 `json:"total_records"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	Limit        int   `json:"limit"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// New computes the metadata for a page of a result set with total rows.
// Total pages round up, so a partial trailing page still counts.
func New(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	} else if total > 0 {
		totalPages = 1
	}

	return Pagination{
		TotalRecords: total,
		TotalPages:   totalPages,
		CurrentPage:  page,
		Limit:        limit,
		HasNext:      limit > 0 && page < totalPages,
		HasPrev:      page > 1 && totalPages > 0,
	}
}

// Scope applies LIMIT/OFFSET for the requested page. Values are passed
// through unchecked: GORM drops the clause for negative inputs, and a
// zero limit yields an empty page, matching a literal LIMIT 0.
func Scope(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}
