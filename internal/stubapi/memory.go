package stubapi

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
)

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	claims      []model.Claim
	submissions []model.Submission
	claimIdx    map[int64]int
	subIdx      map[string]int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{claimIdx: map[int64]int{}, subIdx: map[string]int{}}
}

var _ Store = (*MemoryStore)(nil)

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, ds Dataset) error {
	claims := slices.Clone(ds.Claims)
	slices.SortFunc(claims, func(a, b model.Claim) int { return cmp.Compare(a.ID, b.ID) })

	subs := make([]model.Submission, len(ds.Submissions))
	for i, sub := range ds.Submissions {
		sub.Claims = nil
		subs[i] = sub
	}
	slices.SortStableFunc(subs, newestFirst)

	claimIdx := make(map[int64]int, len(claims))
	for i, c := range claims {
		if _, dup := claimIdx[c.ID]; dup {
			return apperrors.Conflict("duplicate claim id")
		}
		claimIdx[c.ID] = i
	}
	subIdx := make(map[string]int, len(subs))
	for i, sub := range subs {
		subIdx[sub.ID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims, s.submissions = claims, subs
	s.claimIdx, s.subIdx = claimIdx, subIdx
	return nil
}

// ListClaims implements Store.
func (s *MemoryStore) ListClaims(_ context.Context, opts model.ListOptions) (model.Page[model.Claim], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Page[model.Claim]{
		Items: slices.Clone(window(s.claims, opts)),
		Meta:  model.PaginationMeta{Total: len(s.claims), Page: opts.Page, Limit: opts.Limit},
	}, nil
}

// GetClaim implements Store.
func (s *MemoryStore) GetClaim(_ context.Context, id int64) (model.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.claimIdx[id]
	if !ok {
		return model.Claim{}, apperrors.NotFoundf("claim %d not found", id)
	}
	return s.claims[i], nil
}

// ListSubmissions implements Store.
func (s *MemoryStore) ListSubmissions(_ context.Context, opts model.ListOptions) (model.Page[model.Submission], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.Page[model.Submission]{
		Items: slices.Clone(window(s.submissions, opts)),
		Meta:  model.PaginationMeta{Total: len(s.submissions), Page: opts.Page, Limit: opts.Limit},
	}, nil
}

// GetSubmission implements Store.
func (s *MemoryStore) GetSubmission(_ context.Context, id string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.subIdx[id]
	if !ok {
		return model.Submission{}, apperrors.NotFoundf("submission %s not found", id)
	}
	sub := s.submissions[i]
	sub.Claims = []model.Claim{}
	for _, c := range s.claims {
		if c.SubmissionID != nil && *c.SubmissionID == id {
			sub.Claims = append(sub.Claims, c)
		}
	}
	return sub, nil
}

// window returns the items on the requested page, empty past the end.
func window[T any](items []T, opts model.ListOptions) []T {
	if opts.Limit < 1 {
		return nil
	}
	start := min(opts.Offset(), len(items))
	end := min(start+opts.Limit, len(items))
	return items[start:end]
}

func newestFirst(a, b model.Submission) int {
	switch {
	case a.SubmissionDate == nil && b.SubmissionDate == nil:
		return cmp.Compare(a.ID, b.ID)
	case a.SubmissionDate == nil:
		return 1
	case b.SubmissionDate == nil:
		return -1
	}
	if c := b.SubmissionDate.Compare(*a.SubmissionDate); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
