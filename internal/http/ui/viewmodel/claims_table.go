package viewmodel

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/format"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
)

const (
	numericHeaderClass = "govuk-table__header--numeric"
	numericCellClass   = "govuk-table__cell--numeric"
	sortValueAttr      = "data-sort-value"
)

// ClaimsTable is the claims list page: a sortable govuk-table plus the
// page controls beneath it.
type ClaimsTable struct {
	Head       []TableHeader
	Rows       [][]TableCell
	Pagination *pagination.Pagination
	Controls   []PaginationControl
}

// NewClaimsTable maps claims into table rows and builds pagination for
// basePath. An out-of-range page is returned as *pagination.InvalidPageError.
func NewClaimsTable(claims []model.Claim, meta model.PaginationMeta, basePath string) (*ClaimsTable, error) {
	p, err := pagination.New(meta.Total, meta.Limit, meta.Page, basePath)
	if err != nil {
		return nil, err
	}

	rows := make([][]TableCell, 0, len(claims))
	for _, c := range claims {
		rows = append(rows, claimRow(c))
	}

	return &ClaimsTable{
		Head:       claimsHead(),
		Rows:       rows,
		Pagination: p,
		Controls:   Controls(p),
	}, nil
}

func claimsHead() []TableHeader {
	return []TableHeader{
		header("ID", SortAscending, ""),
		header("Client", SortNone, ""),
		header("Category", SortNone, ""),
		header("Concluded", SortNone, ""),
		header("Fee Type", SortNone, ""),
		header("Claimed", SortNone, numericHeaderClass),
	}
}

func claimRow(c model.Claim) []TableCell {
	concluded := TableCell{Text: format.Date(c.Concluded)}
	if c.Concluded != nil {
		concluded.Attributes = Attributes{sortValueAttr: strconv.FormatInt(c.Concluded.UnixMilli(), 10)}
	}

	claimed := TableCell{Text: format.GBP(c.Claimed), Classes: numericCellClass}
	if c.Claimed != nil {
		claimed.Attributes = Attributes{sortValueAttr: strconv.FormatFloat(*c.Claimed, 'f', -1, 64)}
	}

	return []TableCell{
		{
			HTML:       claimLink(c.ID),
			Attributes: Attributes{sortValueAttr: strconv.FormatInt(c.ID, 10)},
		},
		{Text: format.OptionalString(c.Client)},
		{Text: format.OptionalString(c.Category)},
		concluded,
		{Text: format.OptionalString(c.FeeType)},
		claimed,
	}
}

// ClaimPath is the detail page path for a claim.
func ClaimPath(id int64) string {
	return "/claims/" + url.PathEscape(strconv.FormatInt(id, 10))
}

func claimLink(id int64) template.HTML {
	// #nosec G203 - built from a numeric id and fixed markup only
	return template.HTML(fmt.Sprintf(
		`<a class="govuk-link" href="%s">%s<span class="govuk-visually-hidden"> – view claim</span></a>`,
		template.HTMLEscapeString(ClaimPath(id)),
		template.HTMLEscapeString(format.ClaimID(id)),
	))
}
