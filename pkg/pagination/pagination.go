package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the pagination block returned alongside every listing.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Normalize clamps the page and limit into their allowed ranges.
func (p Params) Normalize() Params {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the normalized page/limit pair.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// BuildMeta computes the response meta for the given total row count.
func (p Params) BuildMeta(totalCount int64) Meta {
	n := p.Normalize()
	totalPages := int((totalCount + int64(n.Limit) - 1) / int64(n.Limit))
	return Meta{
		CurrentPage: n.Page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNextPage: n.Page < totalPages,
		HasPrevPage: n.Page > 1,
	}
}
