package viewmodel

import (
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	"github.com/ministryofjustice/claims-ui/internal/format"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
)

// SubmissionsTable is the submissions list page.
type SubmissionsTable struct {
	Head       []TableHeader
	Rows       [][]TableCell
	Pagination *pagination.Pagination
	Controls   []PaginationControl
}

// NewSubmissionsTable maps submissions into table rows and builds
// pagination for basePath.
func NewSubmissionsTable(subs []model.Submission, meta model.PaginationMeta, basePath string) (*SubmissionsTable, error) {
	p, err := pagination.New(meta.Total, meta.Limit, meta.Page, basePath)
	if err != nil {
		return nil, err
	}

	rows := make([][]TableCell, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, []TableCell{
			{HTML: submissionRowLink(s)},
			{Text: s.SubmissionTypeCode},
			dateCell(s.SubmissionDate),
			dateCell(s.SubmissionPeriodStartDate),
			dateCell(s.SubmissionPeriodEndDate),
		})
	}

	return &SubmissionsTable{
		Head: []TableHeader{
			header("Submission", SortNone, ""),
			header("Type", SortNone, ""),
			header("Submitted", SortDescending, ""),
			header("Period start", SortNone, ""),
			header("Period end", SortNone, ""),
		},
		Rows:       rows,
		Pagination: p,
		Controls:   Controls(p),
	}, nil
}

func dateCell(t *time.Time) TableCell {
	cell := TableCell{Text: format.Date(t)}
	if t != nil {
		cell.Attributes = Attributes{sortValueAttr: strconv.FormatInt(t.UnixMilli(), 10)}
	}
	return cell
}

func submissionRowLink(s model.Submission) template.HTML {
	label := s.FriendlyID
	if label == "" {
		label = s.ID
	}
	// #nosec G203 - every interpolated value is escaped
	return template.HTML(fmt.Sprintf(
		`<a class="govuk-link" href="%s">%s</a>`,
		template.HTMLEscapeString(SubmissionPath(s.ID)),
		template.HTMLEscapeString(label),
	))
}

// SubmissionView is the submission detail page.
type SubmissionView struct {
	Title    string
	Rows     []SummaryListRow
	BackLink string
	Claims   []TableCell
}

// NewSubmissionView builds the summary list for a submission.
func NewSubmissionView(s model.Submission) *SubmissionView {
	title := s.FriendlyID
	if title == "" {
		title = s.ID
	}

	rows := []SummaryListRow{
		{Key: "Submission ID", Value: s.ID},
		{Key: "Reference", Value: s.FriendlyID},
		{Key: "Type", Value: s.SubmissionTypeCode},
		{Key: "Submitted", Value: format.Date(s.SubmissionDate)},
		{Key: "Period start", Value: format.Date(s.SubmissionPeriodStartDate)},
		{Key: "Period end", Value: format.Date(s.SubmissionPeriodEndDate)},
		{Key: "Schedule", Value: s.ScheduleID},
		{Key: "Provider office", Value: s.ProviderOfficeID},
		{Key: "Claims", Value: strconv.Itoa(len(s.Claims))},
	}

	claims := make([]TableCell, 0, len(s.Claims))
	for _, c := range s.Claims {
		claims = append(claims, TableCell{HTML: claimLink(c.ID)})
	}

	return &SubmissionView{
		Title:    title,
		Rows:     rows,
		BackLink: "/submissions",
		Claims:   claims,
	}
}
