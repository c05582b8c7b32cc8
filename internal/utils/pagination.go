// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// TotalPages returns the number of pages needed to hold total records with
// the given pageSize. A non-positive pageSize yields 0 pages.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// PageNumbers returns the full list of page numbers [1..totalPages] used by
// clients to render pagers. Returns an empty (non-nil) slice when there are
// no pages.
func PageNumbers(totalPages int) []int {
	pages := make([]int, 0, max(totalPages, 0))
	for i := 1; i <= totalPages; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ClampPage bounds page and pageSize to usable values: page >= 1,
// 1 <= pageSize <= maxPageSize (defaulting to defSize when out of range).
func ClampPage(page, pageSize, defSize, maxPageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
