// Package pagination slices collections into pages and computes the page
// metadata returned by listing endpoints.
package pagination

// Page is one page of a collection together with its metadata.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns page number page of items with at most limit elements.
// A limit <= 0 returns the whole collection as page 1. Pages past the end
// return no data but still report the real total and page count.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	if limit <= 0 {
		data := make([]T, total)
		copy(data, items)
		return Page[T]{Data: data, Page: 1, Limit: total, Total: total, TotalPages: 1}
	}
	if page < 1 {
		page = 1
	}

	start := Offset(page, limit)
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, items[start:end])
	return NewPage(data, total, page, limit)
}

// NewPage builds page metadata for data that was already sliced by the
// caller, e.g. a database query with OFFSET/LIMIT.
func NewPage[T any](data []T, total, page, limit int) Page[T] {
	if page < 1 {
		page = 1
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}
}

// TotalPages is ceil(total/limit) with a floor of 1, so an empty collection
// still has one (empty) page.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// Offset returns the index of the first element of page.
func Offset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	return (page - 1) * limit
}
