package util

// Span is a contiguous run of points starting at Offset.
type Span struct {
	Offset int
	Count  int
}

// SplitSpans splits total points into consecutive spans of at most limit points.
// It returns nil if total or limit is not positive.
func SplitSpans(total int, limit int) []Span {
	if total <= 0 || limit <= 0 {
		return nil
	}

	spans := make([]Span, 0, (total+limit-1)/limit)
	for offset := 0; offset < total; offset += limit {
		spans = append(spans, Span{Offset: offset, Count: min(limit, total-offset)})
	}

	return spans
}

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}
