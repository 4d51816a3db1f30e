// Package stubapi serves a local stand-in for the claims API. It answers
// the same list and detail routes the UI calls, backed by an in-memory
// store or Postgres, and is seeded with deterministic data.
package stubapi

import (
	"context"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
)

// Store holds the stub's claims and submissions.
type Store interface {
	ListClaims(ctx context.Context, opts model.ListOptions) (model.Page[model.Claim], error)
	GetClaim(ctx context.Context, id int64) (model.Claim, error)
	// ListSubmissions returns submissions newest first, without their claims.
	ListSubmissions(ctx context.Context, opts model.ListOptions) (model.Page[model.Submission], error)
	// GetSubmission returns a submission with its claims ordered by id.
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
	// Load replaces the store contents with ds.
	Load(ctx context.Context, ds Dataset) error
}

// Dataset is a full set of stub records. Submission claims are linked
// through Claim.SubmissionID; Submission.Claims is ignored on load.
type Dataset struct {
	Claims      []model.Claim
	Submissions []model.Submission
}
