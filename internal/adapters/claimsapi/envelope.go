package claimsapi

import (
	"fmt"
	"math"

	"github.com/jmespath-community/go-jmespath"
)

type searcher interface {
	Search(data any) (any, error)
}

// Envelope locates the item list and the total count inside a list response.
type Envelope struct {
	items searcher
	total searcher
}

// NewEnvelope compiles the item and total expressions. An empty total
// expression means responses are never paginated by the API.
func NewEnvelope(itemsExpr, totalExpr string) (*Envelope, error) {
	items, err := jmespath.Compile(itemsExpr)
	if err != nil {
		return nil, fmt.Errorf("compile items expression %q: %w", itemsExpr, err)
	}
	env := &Envelope{items: items}
	if totalExpr != "" {
		total, err := jmespath.Compile(totalExpr)
		if err != nil {
			return nil, fmt.Errorf("compile total expression %q: %w", totalExpr, err)
		}
		env.total = total
	}
	return env, nil
}

// Extract returns the raw items and, when the response carries one, the
// total number of items across all pages.
func (e *Envelope) Extract(doc any) ([]any, int, bool, error) {
	rawItems, err := e.items.Search(doc)
	if err != nil {
		return nil, 0, false, fmt.Errorf("evaluate items expression: %w", err)
	}
	items, ok := rawItems.([]any)
	if !ok {
		return nil, 0, false, fmt.Errorf("items expression yielded %T, expected a list", rawItems)
	}

	if e.total == nil {
		return items, 0, false, nil
	}
	rawTotal, err := e.total.Search(doc)
	if err != nil {
		return nil, 0, false, fmt.Errorf("evaluate total expression: %w", err)
	}
	switch v := rawTotal.(type) {
	case nil:
		return items, 0, false, nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return nil, 0, false, fmt.Errorf("total %v is not a non-negative integer", v)
		}
		return items, int(v), true, nil
	default:
		return nil, 0, false, fmt.Errorf("total expression yielded %T, expected a number", rawTotal)
	}
}
