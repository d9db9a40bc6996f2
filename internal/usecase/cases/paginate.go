package cases

import "github.com/cilip-de/polizeischuesse/internal/domain"

// Paginate returns the slice [(page-1)*size, page*size) of list. Pages before
// the first are clamped to 1; pages past the end yield an empty, non-nil
// slice. Size must already be clamped by the caller.
func Paginate(list []domain.Case, page, size int) []domain.Case {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(list) {
		return []domain.Case{}
	}
	end := start + size
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}
