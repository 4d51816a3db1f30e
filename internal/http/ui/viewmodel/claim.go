package viewmodel

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/format"
)

// ClaimView is the claim detail page.
type ClaimView struct {
	Title     string
	Rows      []SummaryListRow
	BackLink  string
	AmendLink string
}

// NewClaimView builds the summary list for a claim. Rows for absent
// fields are left out.
func NewClaimView(c model.Claim) *ClaimView {
	v := &ClaimView{
		Title:     format.ClaimID(c.ID),
		BackLink:  "/",
		AmendLink: fmt.Sprintf("/claim/%d/amend", c.ID),
	}

	rows := []SummaryListRow{{Key: "Claim ID", Value: strconv.FormatInt(c.ID, 10)}}
	if c.HasUFN() {
		rows = append(rows, SummaryListRow{Key: "UFN", Value: *c.UFN})
	}
	if c.Client != nil {
		rows = append(rows, SummaryListRow{Key: "Client", Value: *c.Client})
	}
	if c.Category != nil {
		rows = append(rows, SummaryListRow{Key: "Category", Value: *c.Category})
	}
	if c.Concluded != nil {
		rows = append(rows, SummaryListRow{Key: "Concluded", Value: format.Date(c.Concluded)})
	}
	if c.FeeType != nil {
		rows = append(rows, SummaryListRow{Key: "Fee type", Value: *c.FeeType})
	}
	if c.Claimed != nil {
		rows = append(rows, SummaryListRow{Key: "Claimed", Value: format.GBP(c.Claimed)})
	}
	if c.SubmissionID != nil {
		rows = append(rows, SummaryListRow{Key: "Submission", ValueHTML: submissionLink(*c.SubmissionID, v.Title)})
	}
	v.Rows = rows
	return v
}

// SubmissionPath is the detail page path for a submission.
func SubmissionPath(id string) string {
	return "/submissions/" + url.PathEscape(id)
}

func submissionLink(id, claimTitle string) template.HTML {
	// #nosec G203 - every interpolated value is escaped
	return template.HTML(fmt.Sprintf(
		`<a class="govuk-link" href="%s">View submission<span class="govuk-visually-hidden"> for claim %s</span></a>`,
		template.HTMLEscapeString(SubmissionPath(id)),
		template.HTMLEscapeString(claimTitle),
	))
}
