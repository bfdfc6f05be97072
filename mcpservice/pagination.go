package mcpservice

import "strconv"

// Page is one slice of a listing. NextCursor is nil on the last page and
// Items is never nil.
type Page[T any] struct {
	Items      []T
	NextCursor *string
}

// pageOf cuts the page starting at cursor out of all. Cursors are decimal
// offsets; one that cannot be parsed or points past the end restarts the
// listing. A pageSize of zero or less means no limit.
func pageOf[T any](all []T, pageSize int, cursor *string) Page[T] {
	start := 0
	if cursor != nil {
		if n, err := strconv.Atoi(*cursor); err == nil && n >= 0 && n <= len(all) {
			start = n
		}
	}
	end := len(all)
	if pageSize > 0 && end-start > pageSize {
		end = start + pageSize
	}

	p := Page[T]{Items: append(make([]T, 0, end-start), all[start:end]...)}
	if end < len(all) {
		next := strconv.Itoa(end)
		p.NextCursor = &next
	}
	return p
}
