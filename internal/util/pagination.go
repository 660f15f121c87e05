package util

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Calculate converts 1-based page/size query params into a from/limit pair,
// clamping unreasonable values.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	from = (page - 1) * size
	return from, size
}
