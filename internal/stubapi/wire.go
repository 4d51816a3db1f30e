package stubapi

import (
	"time"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
)

const dateLayout = time.DateOnly

// claimJSON is the claim shape the UI's API client decodes.
type claimJSON struct {
	ID           int64    `json:"id"`
	UFN          *string  `json:"ufn"`
	Client       *string  `json:"client"`
	Category     *string  `json:"category"`
	Concluded    *string  `json:"concluded"`
	FeeType      *string  `json:"feeType"`
	Claimed      *float64 `json:"claimed"`
	SubmissionID *string  `json:"submissionId,omitempty"`
}

type submissionJSON struct {
	ID                        string      `json:"id"`
	FriendlyID                string      `json:"friendlyId"`
	ProviderUserID            string      `json:"providerUserId"`
	ProviderOfficeID          string      `json:"providerOfficeId"`
	SubmissionTypeCode        string      `json:"submissionTypeCode"`
	SubmissionDate            string      `json:"submissionDate"`
	SubmissionPeriodStartDate string      `json:"submissionPeriodStartDate"`
	SubmissionPeriodEndDate   string      `json:"submissionPeriodEndDate"`
	ScheduleID                string      `json:"scheduleId"`
	Claims                    []claimJSON `json:"claims,omitempty"`
}

type listJSON[T any] struct {
	Data []T                  `json:"data"`
	Meta model.PaginationMeta `json:"meta"`
}

func toClaimJSON(c model.Claim) claimJSON {
	out := claimJSON{
		ID:           c.ID,
		UFN:          c.UFN,
		Client:       c.Client,
		Category:     c.Category,
		FeeType:      c.FeeType,
		Claimed:      c.Claimed,
		SubmissionID: c.SubmissionID,
	}
	if c.Concluded != nil {
		d := c.Concluded.Format(dateLayout)
		out.Concluded = &d
	}
	return out
}

func toSubmissionJSON(s model.Submission) submissionJSON {
	out := submissionJSON{
		ID:                        s.ID,
		FriendlyID:                s.FriendlyID,
		ProviderUserID:            s.ProviderUserID,
		ProviderOfficeID:          s.ProviderOfficeID,
		SubmissionTypeCode:        s.SubmissionTypeCode,
		SubmissionDate:            formatDate(s.SubmissionDate),
		SubmissionPeriodStartDate: formatDate(s.SubmissionPeriodStartDate),
		SubmissionPeriodEndDate:   formatDate(s.SubmissionPeriodEndDate),
		ScheduleID:                s.ScheduleID,
	}
	if s.Claims != nil {
		out.Claims = make([]claimJSON, 0, len(s.Claims))
		for _, c := range s.Claims {
			out.Claims = append(out.Claims, toClaimJSON(c))
		}
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
