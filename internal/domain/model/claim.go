// Package model defines the claim and submission records shown by the UI
// and the pagination metadata that accompanies list responses.
package model

import "time"

// Claim is a single piece of billable work. Optional fields are nil when
// the API omits them.
type Claim struct {
	ID           int64
	UFN          *string
	Client       *string
	Category     *string
	Concluded    *time.Time
	FeeType      *string
	Claimed      *float64
	SubmissionID *string
}

// HasUFN reports whether the claim carries a non-empty unique file number.
func (c Claim) HasUFN() bool {
	return c.UFN != nil && *c.UFN != ""
}
