package model

const DefaultPageSize = 20

// Page is the list envelope handed to screens regardless of resource
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPage builds a Page from skip/limit style paging values
func NewPage[T any](items []T, total, skip, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Page[T]{
		Items:    items,
		Page:     skip/limit + 1,
		PageSize: limit,
		Total:    total,
	}
}

// EmptyPage is the result of a list read that found nothing
func EmptyPage[T any](page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Page[T]{Items: []T{}, Page: page, PageSize: pageSize}
}

// HasMore reports whether further pages exist
func (p Page[T]) HasMore() bool {
	return p.Page*p.PageSize < p.Total
}

// RequestList is the wire envelope for request listings
type RequestList struct {
	Requests []WorkRequest `json:"requests"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

// BidList is the wire envelope for bid listings
type BidList struct {
	Bids  []Bid `json:"bids"`
	Total int   `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}
