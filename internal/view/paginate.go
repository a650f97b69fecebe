package view

// Paginator tracks a 1-based current page over a list of a known length.
type Paginator struct {
	size  int
	total int
	page  int
}

// NewPaginator creates a paginator starting at page 1. Sizes below 1 become 1.
func NewPaginator(pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Paginator{size: pageSize, page: 1}
}

// PageSize returns the fixed page size.
func (p *Paginator) PageSize() int { return p.size }

// Total returns the item count the pages are computed from.
func (p *Paginator) Total() int { return p.total }

// SetTotal changes the item count. The current page is left as is.
func (p *Paginator) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
}

// TotalPages is never below 1.
func (p *Paginator) TotalPages() int {
	pages := (p.total + p.size - 1) / p.size
	if pages < 1 {
		return 1
	}
	return pages
}

// Page returns the current 1-based page.
func (p *Paginator) Page() int { return p.page }

// GoTo jumps to page n, clamped into [1, TotalPages].
func (p *Paginator) GoTo(n int) {
	if n > p.TotalPages() {
		n = p.TotalPages()
	}
	if n < 1 {
		n = 1
	}
	p.page = n
}

// Next advances one page unless already on the last one.
func (p *Paginator) Next() {
	if p.HasNext() {
		p.page++
	}
}

// Prev goes back one page unless already on the first one.
func (p *Paginator) Prev() {
	if p.HasPrev() {
		p.page--
	}
}

func (p *Paginator) HasNext() bool { return p.page < p.TotalPages() }

func (p *Paginator) HasPrev() bool { return p.page > 1 }

// Bounds returns the half-open item range of the current page.
func (p *Paginator) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	return start, start + p.size
}

// StepBackIfEmpty moves one page back when the current page no longer holds
// any of n items, as happens after the last item of a page is removed.
func (p *Paginator) StepBackIfEmpty(n int) {
	start, _ := p.Bounds()
	if start >= n && p.page > 1 {
		p.page--
	}
}

// PageItems returns the current page of items.
func PageItems[T any](p *Paginator, items []T) []T {
	start, end := p.Bounds()
	if start >= len(items) {
		return items[:0:0]
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
