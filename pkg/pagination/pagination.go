package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list view can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the resolved page for list responses.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePageSize enforces the configured default and maximum page sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// TotalPages returns the number of pages needed for total items, never below 1.
func TotalPages(total, size int) int {
	size = NormalizePageSize(size)
	if total <= 0 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// ClampPage keeps a requested page within [1, TotalPages(total, size)].
func ClampPage(page, total, size int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(total, size); page > max {
		return max
	}
	return page
}

// Window resolves the half-open slice bounds [start, end) for a page.
func Window(page, total, size int) (int, int) {
	size = NormalizePageSize(size)
	page = ClampPage(page, total, size)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// Resolve returns the meta block and slice bounds for the given inputs.
func Resolve(params Params, total int) (Meta, int, int) {
	size := NormalizePageSize(params.PageSize)
	page := ClampPage(params.Page, total, size)
	start, end := Window(page, total, size)
	return Meta{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: TotalPages(total, size),
	}, start, end
}
