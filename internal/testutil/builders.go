// Package testutil provides testing utilities and helpers for the claims UI.
package testutil

import (
	"fmt"
	"time"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
)

// ClaimBuilder provides a fluent interface for building claims in tests.
type ClaimBuilder struct {
	claim model.Claim
}

// NewClaim creates a ClaimBuilder with every optional field populated.
func NewClaim(id int64) *ClaimBuilder {
	return &ClaimBuilder{claim: model.Claim{
		ID:        id,
		UFN:       StringPtr(fmt.Sprintf("121120/%03d", id%1000)),
		Client:    StringPtr("Giordano"),
		Category:  StringPtr("Family"),
		Concluded: TimePtr(time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)),
		FeeType:   StringPtr("Escape"),
		Claimed:   Float64Ptr(234.56),
	}}
}

// Sparse clears every optional field.
func (b *ClaimBuilder) Sparse() *ClaimBuilder {
	b.claim = model.Claim{ID: b.claim.ID}
	return b
}

// WithClient sets the client name.
func (b *ClaimBuilder) WithClient(client string) *ClaimBuilder {
	b.claim.Client = StringPtr(client)
	return b
}

// WithClaimed sets the claimed amount.
func (b *ClaimBuilder) WithClaimed(amount float64) *ClaimBuilder {
	b.claim.Claimed = Float64Ptr(amount)
	return b
}

// WithSubmission links the claim to a submission.
func (b *ClaimBuilder) WithSubmission(id string) *ClaimBuilder {
	b.claim.SubmissionID = StringPtr(id)
	return b
}

// Build returns the claim.
func (b *ClaimBuilder) Build() model.Claim {
	return b.claim
}

// Claims returns n fully populated claims with IDs first..first+n-1.
func Claims(first int64, n int) []model.Claim {
	out := make([]model.Claim, 0, n)
	for i := range n {
		out = append(out, NewClaim(first+int64(i)).Build())
	}
	return out
}

// ClaimPage wraps claims with pagination metadata.
func ClaimPage(claims []model.Claim, total, page, limit int) model.Page[model.Claim] {
	return model.Page[model.Claim]{
		Items: claims,
		Meta:  model.PaginationMeta{Total: total, Page: page, Limit: limit},
	}
}

// NewSubmission returns a submission with the given ID and claims.
func NewSubmission(id string, claims ...model.Claim) model.Submission {
	submitted := time.Date(2025, time.July, 31, 9, 13, 52, 0, time.UTC)
	return model.Submission{
		ID:                        id,
		FriendlyID:                "LAA-" + id[:min(6, len(id))],
		ProviderUserID:            "provider-user-1",
		ProviderOfficeID:          "0P322F",
		SubmissionTypeCode:        "MONTHLY",
		SubmissionDate:            &submitted,
		SubmissionPeriodStartDate: TimePtr(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
		SubmissionPeriodEndDate:   TimePtr(time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)),
		ScheduleID:                "schedule-1",
		Claims:                    claims,
	}
}
