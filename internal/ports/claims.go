package ports

import (
	"context"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
)

// ClaimsAPI reads claims and submissions from the backend data API.
type ClaimsAPI interface {
	ListClaims(ctx context.Context, opts model.ListOptions) (model.Page[model.Claim], error)
	GetClaim(ctx context.Context, id int64) (model.Claim, error)
	ListSubmissions(ctx context.Context, opts model.ListOptions) (model.Page[model.Submission], error)
	GetSubmission(ctx context.Context, id string) (model.Submission, error)
}
