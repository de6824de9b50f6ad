package utils

import (
	"fmt"
	"math"
)

// Paging returns the page count and the "1-20 of 57" label list responses
// carry.
func Paging(total int64, page, limit int) (totalPages int, showing string) {
	if limit <= 0 {
		return 1, fmt.Sprintf("All %d results", total)
	}
	totalPages = int(math.Ceil(float64(total) / float64(limit)))
	if total == 0 {
		return totalPages, "0 of 0"
	}
	return totalPages, fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
}
