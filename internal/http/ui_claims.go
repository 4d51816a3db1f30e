package httpx

import (
	"net/http"
	"strconv"

	"github.com/ministryofjustice/claims-ui/internal/http/ui/viewmodel"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
)

// ClaimsList renders the "Your Claims" table for the requested page.
// GET /?page=<n>.
func (h *UIHandlers) ClaimsList(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query())
	if page < 1 {
		h.handleError(w, r, &pagination.InvalidPageError{InvalidPage: page, PageToRedirectTo: 1})
		return
	}

	res, err := h.Claims.List(r.Context(), page)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	res.Meta.Page = page

	vm, err := viewmodel.NewClaimsTable(res.Items, res.Meta, claimsPath)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.renderPage(w, r, PageMeta{Title: h.translate(r, "pages.claims.title"), CurrentPage: PageClaims}, vm)
}

// ClaimView renders one claim. Identifiers that are not positive
// integers get the 404 page without calling the API.
// GET /claims/{claimId}.
func (h *UIHandlers) ClaimView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("claimId"), 10, 64)
	if err != nil || id < 1 {
		h.NotFound(w, r)
		return
	}

	claim, err := h.Claims.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	vm := viewmodel.NewClaimView(claim)
	h.renderPage(w, r, PageMeta{Title: vm.Title, CurrentPage: PageClaim}, vm)
}
