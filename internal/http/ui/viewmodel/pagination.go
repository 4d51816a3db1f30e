package viewmodel

import "github.com/ministryofjustice/claims-ui/internal/pagination"

// PaginationControl is a template-friendly page window entry. Ellipsis
// entries carry no number or href.
type PaginationControl struct {
	Number   int
	Href     string
	Selected bool
	Ellipsis bool
}

// Controls flattens the page window for templates, which cannot switch on
// the item variants directly.
func Controls(p *pagination.Pagination) []PaginationControl {
	if p == nil {
		return nil
	}
	out := make([]PaginationControl, 0, len(p.Items))
	for _, it := range p.Items {
		switch v := it.(type) {
		case pagination.PageItem:
			out = append(out, PaginationControl{Number: v.Number, Href: v.Href, Selected: v.Selected})
		case pagination.EllipsisItem:
			out = append(out, PaginationControl{Ellipsis: true})
		}
	}
	return out
}
