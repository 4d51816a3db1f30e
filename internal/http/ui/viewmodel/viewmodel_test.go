package viewmodel

import (
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
)

func strp(s string) *string        { return &s }
func f64p(v float64) *float64      { return &v }
func timep(t time.Time) *time.Time { return &t }

func fullClaim() model.Claim {
	return model.Claim{
		ID:           1,
		UFN:          strp("121120/467"),
		Client:       strp("Giordano"),
		Category:     strp("Family"),
		Concluded:    timep(time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)),
		FeeType:      strp("Escape"),
		Claimed:      f64p(234.56),
		SubmissionID: strp("550e8400-e29b-41d4-a716-446655440000"),
	}
}

func TestNewClaimsTable_Head(t *testing.T) {
	vm, err := NewClaimsTable(nil, model.PaginationMeta{Total: 0, Page: 1, Limit: 20}, "/")
	require.NoError(t, err)

	texts := make([]string, 0, len(vm.Head))
	for _, h := range vm.Head {
		texts = append(texts, h.Text)
	}
	assert.Equal(t, []string{"ID", "Client", "Category", "Concluded", "Fee Type", "Claimed"}, texts)

	assert.Equal(t, "ascending", vm.Head[0].AriaSort())
	for _, h := range vm.Head[1:] {
		assert.Equal(t, "none", h.AriaSort(), h.Text)
	}
	assert.Equal(t, "govuk-table__header--numeric", vm.Head[5].Classes)
	assert.Empty(t, vm.Rows)
}

func TestNewClaimsTable_Rows(t *testing.T) {
	claims := []model.Claim{fullClaim(), {ID: 42}}
	vm, err := NewClaimsTable(claims, model.PaginationMeta{Total: 2, Page: 1, Limit: 20}, "/")
	require.NoError(t, err)
	require.Len(t, vm.Rows, 2)

	full := vm.Rows[0]
	require.Len(t, full, 6)
	assert.Contains(t, string(full[0].HTML), `href="/claims/1"`)
	assert.Contains(t, string(full[0].HTML), "LAA-001")
	assert.Contains(t, string(full[0].HTML), "view claim")
	assert.Equal(t, "1", full[0].Attributes["data-sort-value"])
	assert.Equal(t, "Giordano", full[1].Text)
	assert.Equal(t, "Family", full[2].Text)
	assert.Equal(t, "18/03/2025", full[3].Text)
	assert.Equal(t, "1742256000000", full[3].Attributes["data-sort-value"])
	assert.Equal(t, "Escape", full[4].Text)
	assert.Equal(t, "£234.56", full[5].Text)
	assert.Equal(t, "234.56", full[5].Attributes["data-sort-value"])
	assert.Equal(t, "govuk-table__cell--numeric", full[5].Classes)

	sparse := vm.Rows[1]
	assert.Contains(t, string(sparse[0].HTML), "LAA-042")
	assert.Empty(t, sparse[1].Text)
	assert.Empty(t, sparse[2].Text)
	assert.Empty(t, sparse[3].Text)
	assert.Nil(t, sparse[3].Attributes)
	assert.Empty(t, sparse[4].Text)
	assert.Empty(t, sparse[5].Text)
	assert.Nil(t, sparse[5].Attributes)
	assert.Equal(t, "govuk-table__cell--numeric", sparse[5].Classes)
}

func TestNewClaimsTable_Pagination(t *testing.T) {
	vm, err := NewClaimsTable(nil, model.PaginationMeta{Total: 180, Page: 5, Limit: 20}, "/")
	require.NoError(t, err)

	assert.Equal(t, 81, vm.Pagination.Results.From)
	assert.Equal(t, 100, vm.Pagination.Results.To)
	require.Len(t, vm.Controls, 7)
	assert.True(t, vm.Controls[1].Ellipsis)
	assert.True(t, vm.Controls[3].Selected)
	assert.Equal(t, "/?page=5", vm.Controls[3].Href)
	assert.True(t, vm.Controls[5].Ellipsis)
}

func TestNewClaimsTable_InvalidPagePropagates(t *testing.T) {
	vm, err := NewClaimsTable(nil, model.PaginationMeta{Total: 56, Page: 4, Limit: 20}, "/")
	assert.Nil(t, vm)

	ipe, ok := pagination.AsInvalidPage(err)
	require.True(t, ok)
	assert.Equal(t, 4, ipe.InvalidPage)
	assert.Equal(t, 3, ipe.PageToRedirectTo)
}

func TestNewClaimView(t *testing.T) {
	v := NewClaimView(fullClaim())

	assert.Equal(t, "LAA-001", v.Title)
	assert.Equal(t, "/", v.BackLink)
	assert.Equal(t, "/claim/1/amend", v.AmendLink)

	keys := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"Claim ID", "UFN", "Client", "Category", "Concluded", "Fee type", "Claimed", "Submission"}, keys)
	assert.Equal(t, "1", v.Rows[0].Value)
	assert.Equal(t, "18/03/2025", v.Rows[4].Value)
	assert.Equal(t, "£234.56", v.Rows[6].Value)
	assert.Contains(t, string(v.Rows[7].ValueHTML), `href="/submissions/550e8400-e29b-41d4-a716-446655440000"`)
	assert.Contains(t, string(v.Rows[7].ValueHTML), "for claim LAA-001")
}

func TestNewClaimView_OmitsAbsentFields(t *testing.T) {
	v := NewClaimView(model.Claim{ID: 7, UFN: strp("")})
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Claim ID", v.Rows[0].Key)
	assert.Equal(t, "7", v.Rows[0].Value)
}

func TestNewSubmissionsTable(t *testing.T) {
	subs := []model.Submission{{
		ID:                 "550e8400-e29b-41d4-a716-446655440000",
		FriendlyID:         "LAA-001",
		SubmissionTypeCode: "MONTHLY",
		SubmissionDate:     timep(time.Date(2025, time.July, 31, 9, 13, 52, 0, time.UTC)),
	}}
	vm, err := NewSubmissionsTable(subs, model.PaginationMeta{Total: 1, Page: 1, Limit: 20}, "/submissions")
	require.NoError(t, err)
	require.Len(t, vm.Rows, 1)

	row := vm.Rows[0]
	assert.Contains(t, string(row[0].HTML), "LAA-001")
	assert.Contains(t, string(row[0].HTML), "/submissions/550e8400-e29b-41d4-a716-446655440000")
	assert.Equal(t, "MONTHLY", row[1].Text)
	assert.Equal(t, "31/07/2025", row[2].Text)
	assert.NotEmpty(t, row[2].Attributes["data-sort-value"])
	assert.Empty(t, row[3].Text)
	assert.Equal(t, 1, vm.Pagination.Results.To)

	_, err = NewSubmissionsTable(nil, model.PaginationMeta{Total: 0, Page: 2, Limit: 20}, "/submissions")
	_, ok := pagination.AsInvalidPage(err)
	assert.True(t, ok)
}

func TestNewSubmissionView(t *testing.T) {
	v := NewSubmissionView(model.Submission{ID: "abc", Claims: []model.Claim{{ID: 3}}})
	assert.Equal(t, "abc", v.Title)
	assert.Equal(t, "/submissions", v.BackLink)
	require.Len(t, v.Claims, 1)
	assert.Contains(t, string(v.Claims[0].HTML), "LAA-003")
}

func TestAttributesHTML(t *testing.T) {
	a := Attributes{"data-sort-value": `1"2`, "aria-sort": "none"}
	assert.Equal(t, template.HTMLAttr(` aria-sort="none" data-sort-value="1&#34;2"`), a.HTML())
	assert.Empty(t, Attributes(nil).HTML())
}
