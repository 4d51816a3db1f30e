package model

import "time"

// Submission groups the claims a provider office sent for one period.
type Submission struct {
	ID                        string
	FriendlyID                string
	ProviderUserID            string
	ProviderOfficeID          string
	SubmissionTypeCode        string
	SubmissionDate            *time.Time
	SubmissionPeriodStartDate *time.Time
	SubmissionPeriodEndDate   *time.Time
	ScheduleID                string
	Claims                    []Claim
}
