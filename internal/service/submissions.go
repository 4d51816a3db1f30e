package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// SubmissionServiceOptions groups dependencies for SubmissionService.
type SubmissionServiceOptions struct {
	API      ports.ClaimsAPI
	PageSize int
}

// SubmissionService reads submissions for the submission pages.
type SubmissionService struct {
	api      ports.ClaimsAPI
	pageSize int
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(opts SubmissionServiceOptions) (*SubmissionService, error) {
	if opts.API == nil {
		return nil, errors.New("API is required")
	}
	return &SubmissionService{api: opts.API, pageSize: pageSizeOrDefault(opts.PageSize)}, nil
}

// List fetches one page of submissions.
func (s *SubmissionService) List(ctx context.Context, page int) (model.Page[model.Submission], error) {
	result, err := s.api.ListSubmissions(ctx, model.ListOptions{Page: max(page, 1), Limit: s.pageSize})
	if err != nil {
		return model.Page[model.Submission]{}, fmt.Errorf("list submissions: %w", err)
	}
	return result, nil
}

// Get fetches a submission and its claims. A missing claims list is
// returned as an empty slice.
func (s *SubmissionService) Get(ctx context.Context, id string) (model.Submission, error) {
	sub, err := s.api.GetSubmission(ctx, id)
	if err != nil {
		return model.Submission{}, fmt.Errorf("get submission %s: %w", id, err)
	}
	if sub.Claims == nil {
		sub.Claims = []model.Claim{}
	}
	return sub, nil
}
