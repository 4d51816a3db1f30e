package viewmodel

import (
	"html/template"
	"sort"
	"strings"
)

// Attributes holds extra HTML attributes for a table cell or header.
// Keys come from code, never from user input; values are escaped on
// render.
type Attributes map[string]string

// HTML renders the attributes as ` key="value"` pairs in key order.
func (a Attributes) HTML() template.HTMLAttr {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(template.HTMLEscapeString(a[k]))
		b.WriteByte('"')
	}
	// #nosec G203 - attribute names are fixed in code and values are escaped above
	return template.HTMLAttr(b.String())
}

// TableCell describes one govuk-table cell. When HTML is set it is
// rendered instead of Text.
type TableCell struct {
	Text       string
	HTML       template.HTML
	Attributes Attributes
	Classes    string
}

// Aria sort states used by the sortable table headers.
const (
	SortAscending  = "ascending"
	SortDescending = "descending"
	SortNone       = "none"
)

// TableHeader is a column heading with its initial sort state.
type TableHeader struct {
	TableCell
}

// AriaSort returns the header's aria-sort value.
func (h TableHeader) AriaSort() string {
	return h.Attributes["aria-sort"]
}

func header(text, ariaSort, classes string) TableHeader {
	return TableHeader{TableCell{
		Text:       text,
		Attributes: Attributes{"aria-sort": ariaSort},
		Classes:    classes,
	}}
}

// SummaryListRow is one key/value row in a govuk-summary-list.
type SummaryListRow struct {
	Key       string
	Value     string
	ValueHTML template.HTML
}
