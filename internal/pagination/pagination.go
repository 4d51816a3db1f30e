// Package pagination builds the page controls shown under list views:
// the windowed list of page links with ellipsis markers, the
// previous/next links and the "showing x to y of z" summary.
//
// Everything here is a pure function of (total, page size, current page,
// base path). Out-of-range pages are reported as *InvalidPageError so the
// caller can redirect instead of rendering.
package pagination

import (
	"strconv"
)

const (
	// PageParam is the query parameter carrying the 1-based page number.
	PageParam = "page"

	previousLabel = "Previous"
	nextLabel     = "Next"
)

// Item is one entry in the page window. It is either a PageItem or an
// EllipsisItem.
type Item interface {
	isItem()
}

// PageItem links to a single page.
type PageItem struct {
	Number   int
	Href     string
	Selected bool
}

// EllipsisItem stands for a run of pages that are not shown.
type EllipsisItem struct{}

func (PageItem) isItem()     {}
func (EllipsisItem) isItem() {}

// Label returns the text shown for the page link.
func (p PageItem) Label() string { return strconv.Itoa(p.Number) }

// Link is a previous/next navigation link.
type Link struct {
	Label      string
	TargetPage int
	Href       string
}

// Pagination is the data a list template needs to render page controls.
type Pagination struct {
	Items      []Item
	Previous   *Link
	Next       *Link
	Results    Results
	Page       int
	TotalPages int
}

// TotalPages returns max(1, ceil(total/pageSize)).
// pageSize must be at least 1.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// New validates currentPage and builds the page controls for a list of
// total items split into pages of pageSize. basePath is the request path
// without a query string.
//
// A currentPage outside [1, TotalPages] yields an *InvalidPageError and
// no Pagination.
func New(total, pageSize, currentPage int, basePath string) (*Pagination, error) {
	totalPages := TotalPages(total, pageSize)

	if currentPage > totalPages {
		return nil, &InvalidPageError{InvalidPage: currentPage, PageToRedirectTo: totalPages}
	}
	if currentPage < 1 {
		return nil, &InvalidPageError{InvalidPage: currentPage, PageToRedirectTo: 1}
	}

	p := &Pagination{
		Items:      window(totalPages, currentPage, basePath),
		Results:    NewResults(total, pageSize, currentPage, totalPages),
		Page:       currentPage,
		TotalPages: totalPages,
	}
	if currentPage > 1 {
		p.Previous = newLink(previousLabel, currentPage-1, basePath)
	}
	if currentPage < totalPages {
		p.Next = newLink(nextLabel, currentPage+1, basePath)
	}
	return p, nil
}

// HasControls reports whether any page controls need rendering.
func (p *Pagination) HasControls() bool {
	return p != nil && (len(p.Items) > 0 || p.Previous != nil || p.Next != nil)
}

// window keeps the first page, the last page and the neighbours of the
// current page; every other contiguous run collapses to one ellipsis.
func window(totalPages, currentPage int, basePath string) []Item {
	if totalPages <= 1 {
		return []Item{}
	}

	items := make([]Item, 0, min(totalPages, 7))
	lastWasEllipsis := false
	for page := 1; page <= totalPages; page++ {
		if page == 1 || page == totalPages || abs(page-currentPage) <= 1 {
			items = append(items, PageItem{
				Number:   page,
				Href:     PageHref(basePath, page),
				Selected: page == currentPage,
			})
			lastWasEllipsis = false
			continue
		}
		if !lastWasEllipsis {
			items = append(items, EllipsisItem{})
			lastWasEllipsis = true
		}
	}
	return items
}

func newLink(label string, target int, basePath string) *Link {
	return &Link{Label: label, TargetPage: target, Href: PageHref(basePath, target)}
}

// PageHref returns basePath with the page query parameter set.
func PageHref(basePath string, page int) string {
	return basePath + "?" + PageParam + "=" + strconv.Itoa(page)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
