package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// DefaultPageSize is used when no page size is configured.
const DefaultPageSize = 20

// ClaimServiceOptions groups dependencies for ClaimService.
type ClaimServiceOptions struct {
	API      ports.ClaimsAPI
	PageSize int
	Logger   *slog.Logger
}

// ClaimService reads claims for the claim pages.
type ClaimService struct {
	api      ports.ClaimsAPI
	pageSize int
	logger   *slog.Logger
}

// NewClaimService constructs a ClaimService.
func NewClaimService(opts ClaimServiceOptions) (*ClaimService, error) {
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ClaimService{
		api:      opts.API,
		pageSize: pageSizeOrDefault(opts.PageSize),
		logger:   logger.With("component", "claim_service"),
	}, nil
}

// PageSize returns the number of claims shown per page.
func (s *ClaimService) PageSize() int { return s.pageSize }

// List fetches one page of claims. Pages below 1 are read as page 1.
func (s *ClaimService) List(ctx context.Context, page int) (model.Page[model.Claim], error) {
	opts := model.ListOptions{Page: max(page, 1), Limit: s.pageSize}
	result, err := s.api.ListClaims(ctx, opts)
	if err != nil {
		return model.Page[model.Claim]{}, fmt.Errorf("list claims: %w", err)
	}
	s.logger.DebugContext(ctx, "claims fetched",
		"page", opts.Page,
		"count", len(result.Items),
		"total", result.Meta.Total,
	)
	return result, nil
}

// Get fetches a single claim.
func (s *ClaimService) Get(ctx context.Context, id int64) (model.Claim, error) {
	claim, err := s.api.GetClaim(ctx, id)
	if err != nil {
		return model.Claim{}, fmt.Errorf("get claim %d: %w", id, err)
	}
	return claim, nil
}

func pageSizeOrDefault(n int) int {
	if n < 1 {
		return DefaultPageSize
	}
	return n
}
