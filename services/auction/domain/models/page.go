package models

// PageRequest selects one zero-based page of a listing.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns the number of records to skip.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items  []T
	Total  int
	Number int
	Size   int
}

// NewPage wraps items fetched for req.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Number: req.Number, Size: req.Size}
}
