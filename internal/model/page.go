package model

// PageRange is an inclusive, 1-indexed span of pages.
type PageRange struct {
	Start int
	End   int
}

// ClampRange fits a requested page range into [1, total]. A zero or negative
// end means "through the last page". Out-of-bounds values are clamped rather
// than rejected; an empty result (Start > End) means there is nothing to do.
func ClampRange(start, end, total int) PageRange {
	if start < 1 {
		start = 1
	}
	if end <= 0 || end > total {
		end = total
	}
	if start > total {
		start = total + 1 // yields an empty range
	}
	return PageRange{Start: start, End: end}
}

// Empty reports whether the range selects no pages.
func (r PageRange) Empty() bool { return r.Start > r.End }

// Count returns the number of pages in the range.
func (r PageRange) Count() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Pages returns the page numbers in order.
func (r PageRange) Pages() []int {
	if r.Empty() {
		return nil
	}
	pages := make([]int, 0, r.Count())
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PageContent is what a source page yields before overlay construction:
// extracted text, a rasterized image on disk, or both.
type PageContent struct {
	Number    int    // 1-indexed
	Text      string // empty when extraction produced nothing
	ImagePath string // empty unless the page was rasterized
	OCRUsed   bool   // text came from OCR rather than the text layer
}
