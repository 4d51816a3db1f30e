package claimsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

type fakeTokens struct {
	token    string
	err      error
	stale    atomic.Int32
	requests atomic.Int32
}

func (f *fakeTokens) Token(context.Context) (string, error) {
	f.requests.Add(1)
	return f.token, f.err
}

func (f *fakeTokens) MarkStale(context.Context) error {
	f.stale.Add(1)
	return nil
}

func claimJSON(id int) map[string]any {
	return map[string]any{
		"id":           id,
		"ufn":          "121120/467",
		"client":       "Giordano",
		"category":     "Family",
		"concluded":    "2025-03-18",
		"feeType":      "Escape",
		"claimed":      234.56,
		"submissionId": "550e8400-e29b-41d4-a716-446655440000",
	}
}

func claimsJSON(n int) []any {
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, claimJSON(i))
	}
	return out
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, RetryMax: 0, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"})
	require.Error(t, err)

	_, err = New(Config{BaseURL: "http://api", ItemsExpr: "data[?"})
	require.Error(t, err)
}

func TestListClaims_BareArraySlicesLocally(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/claims", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, claimsJSON(56))
	})

	page, err := c.ListClaims(context.Background(), model.ListOptions{Page: 3, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, model.PaginationMeta{Total: 56, Page: 3, Limit: 20}, page.Meta)
	require.Len(t, page.Items, 16)
	assert.Equal(t, int64(41), page.Items[0].ID)
	assert.Equal(t, int64(56), page.Items[15].ID)

	first := page.Items[0]
	require.NotNil(t, first.Concluded)
	assert.Equal(t, time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC), first.Concluded.UTC())
	require.NotNil(t, first.Claimed)
	assert.InDelta(t, 234.56, *first.Claimed, 0.0001)
}

func TestListClaims_PageBeyondEndIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, claimsJSON(5))
	})

	page, err := c.ListClaims(context.Background(), model.ListOptions{Page: 4, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Meta.Total)
}

func TestListClaims_Envelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []any{claimJSON(page*10 + 1), claimJSON(page*10 + 2)},
			"meta": map[string]any{"total": 180},
		})
	})

	page, err := c.ListClaims(context.Background(), model.ListOptions{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, model.PaginationMeta{Total: 180, Page: 5, Limit: 2}, page.Meta)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(51), page.Items[0].ID)
}

func TestListClaims_InvalidItems(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "non-object item", body: []any{claimJSON(1), "oops"}},
		{name: "missing id", body: []any{map[string]any{"client": "x"}}},
		{name: "bad submission id", body: []any{map[string]any{"id": 1, "submissionId": "not-a-uuid"}}},
		{name: "bad date", body: []any{map[string]any{"id": 1, "concluded": "yesterday"}}},
		{name: "object without list", body: map[string]any{"data": "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})
			_, err := c.ListClaims(context.Background(), model.ListOptions{Page: 1, Limit: 20})
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestListClaims_NonObjectMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{42})
	})
	_, err := c.ListClaims(context.Background(), model.ListOptions{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "invalid claim item: expected object", err.Error())
}

func TestListClaims_RejectsZeroLimit(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.ListClaims(context.Background(), model.ListOptions{Page: 1})
	assert.True(t, apperrors.IsValidation(err))
}

func TestGetClaim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/claims/7" {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Claim not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "client": "Smith"})
	})

	claim, err := c.GetClaim(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claim.ID)
	assert.Equal(t, "Smith", *claim.Client)
	assert.Nil(t, claim.UFN)
	assert.Nil(t, claim.Claimed)

	_, err = c.GetClaim(context.Background(), 8)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Claim not found", apiErr.Message)
	assert.Equal(t, "/api/v1/claims/8", apiErr.Path)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSubmissions(t *testing.T) {
	sub := map[string]any{
		"id":                        "550e8400-e29b-41d4-a716-446655440000",
		"friendlyId":                "LAA-001",
		"providerUserId":            "user-1",
		"providerOfficeId":          "0P322F",
		"submissionTypeCode":        "MONTHLY",
		"submissionDate":            "2025-07-31T09:13:52Z",
		"submissionPeriodStartDate": "2025-07-01",
		"submissionPeriodEndDate":   "2025-07-31",
		"scheduleId":                "sched-1",
		"claims":                    []any{claimJSON(1), claimJSON(2)},
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/submissions":
			writeJSON(w, http.StatusOK, []any{sub})
		case "/api/v1/submissions/550e8400-e29b-41d4-a716-446655440000":
			writeJSON(w, http.StatusOK, sub)
		default:
			writeJSON(w, http.StatusNotFound, nil)
		}
	})

	page, err := c.ListSubmissions(context.Background(), model.ListOptions{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "LAA-001", page.Items[0].FriendlyID)
	require.Len(t, page.Items[0].Claims, 2)

	got, err := c.GetSubmission(context.Background(), "550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.Equal(t, "MONTHLY", got.SubmissionTypeCode)
	require.NotNil(t, got.SubmissionDate)
	assert.Equal(t, 2025, got.SubmissionDate.Year())
	require.NotNil(t, got.SubmissionPeriodEndDate)
	assert.Equal(t, 31, got.SubmissionPeriodEndDate.Day())

	_, err = c.GetSubmission(context.Background(), " ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmissions_NonObjectItem(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{nil})
	})
	_, err := c.ListSubmissions(context.Background(), model.ListOptions{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "invalid submission item: expected object", err.Error())
}

func TestBearerTokenAndStaleOn401(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer good" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	good := &fakeTokens{token: "good"}
	_, err := c.ListClaims(ports.WithTokenSource(context.Background(), good), model.ListOptions{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int32(0), good.stale.Load())

	bad := &fakeTokens{token: "old"}
	_, err = c.ListClaims(ports.WithTokenSource(context.Background(), bad), model.ListOptions{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, int32(1), bad.stale.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenErrorIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})
	ts := &fakeTokens{err: errors.New("refresh failed")}
	_, err := c.GetClaim(ports.WithTokenSource(context.Background(), ts), 1)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestEmptyTokenIsUnauthorized(t *testing.T) {
	c := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})
	ts := &fakeTokens{}
	_, err := c.ListSubmissions(ports.WithTokenSource(context.Background(), ts), model.ListOptions{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, int32(1), ts.requests.Load())
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, RetryMax: 2})
	require.NoError(t, err)
	c.http.RetryWaitMin = time.Millisecond
	c.http.RetryWaitMax = time.Millisecond

	claim, err := c.GetClaim(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claim.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestServerErrorAfterRetriesKeepsStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.GetClaim(context.Background(), 1)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, apperrors.MsgServerError, apperrors.UserMessage(err))
}

func TestEnvelopeExtract(t *testing.T) {
	env, err := NewEnvelope("items", "count")
	require.NoError(t, err)

	items, total, ok, err := env.Extract(map[string]any{"items": []any{1.0}, "count": 9.0})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 9, total)
	assert.True(t, ok)

	_, _, _, err = env.Extract(map[string]any{"items": []any{}, "count": -1.0})
	require.Error(t, err)

	_, _, ok, err = env.Extract(map[string]any{"items": []any{}})
	require.NoError(t, err)
	assert.False(t, ok)
}
