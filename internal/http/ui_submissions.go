package httpx

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ministryofjustice/claims-ui/internal/http/ui/viewmodel"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
)

// SubmissionsList renders the submissions table.
// GET /submissions?page=<n>.
func (h *UIHandlers) SubmissionsList(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query())
	if page < 1 {
		h.handleError(w, r, &pagination.InvalidPageError{InvalidPage: page, PageToRedirectTo: 1})
		return
	}

	res, err := h.Submissions.List(r.Context(), page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	res.Meta.Page = page

	vm, err := viewmodel.NewSubmissionsTable(res.Items, res.Meta, submissionsPath)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.renderPage(w, r, PageMeta{Title: h.translate(r, "pages.submissions.title"), CurrentPage: PageSubmissions}, vm)
}

// SubmissionView renders one submission and links to its claims.
// GET /submissions/{submissionId}.
func (h *UIHandlers) SubmissionView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("submissionId"))
	if err != nil {
		h.NotFound(w, r)
		return
	}

	sub, err := h.Submissions.Get(r.Context(), id.String())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	vm := viewmodel.NewSubmissionView(sub)
	h.renderPage(w, r, PageMeta{Title: vm.Title, CurrentPage: PageSubmission}, vm)
}
