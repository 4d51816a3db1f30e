package stubapi

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
)

// ClaimsPerSubmission is how many seeded claims share one submission.
const ClaimsPerSubmission = 10

//nolint:gochecknoglobals // fixed namespace for seeded submission ids
var submissionNamespace = uuid.MustParse("6f1c2a4e-8b0d-4c55-9a8e-2d7f0b6e3c11")

//nolint:gochecknoglobals // read-only seed vocabularies
var (
	seedClients    = []string{"Giordano", "Okafor", "Nowak", "Patel", "Hughes", "MacLeod", "Evans", "Adeyemi", "Kowalski", "Byrne"}
	seedCategories = []string{"Family", "Housing", "Immigration", "Debt", "Crime lower", "Mental health"}
	seedFeeTypes   = []string{"Fixed fee", "Hourly rate", "Escape fee", "Disbursement"}
	seedTypeCodes  = []string{"CIVIL", "CRIME"}
	seedEpoch      = time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
)

// SubmissionID returns the seeded submission id for the n-th submission.
func SubmissionID(n int) string {
	return uuid.NewSHA1(submissionNamespace, fmt.Appendf(nil, "submission-%d", n)).String()
}

// Seed builds n claims and the submissions that group them. The same n
// always yields the same dataset. Every seventh claim has no client or
// concluded date and every eleventh has no submission, so sparse records
// show up in the UI.
func Seed(n int) Dataset {
	if n <= 0 {
		return Dataset{}
	}
	rng := rand.New(rand.NewPCG(uint64(n), 0x5eed)) //nolint:gosec // deterministic fixture data

	subCount := (n + ClaimsPerSubmission - 1) / ClaimsPerSubmission
	ds := Dataset{
		Claims:      make([]model.Claim, 0, n),
		Submissions: make([]model.Submission, 0, subCount),
	}

	for s := range subCount {
		start := seedEpoch.AddDate(0, s, 0)
		end := start.AddDate(0, 1, -1)
		submitted := end.AddDate(0, 0, 3+rng.IntN(10))
		ds.Submissions = append(ds.Submissions, model.Submission{
			ID:                        SubmissionID(s + 1),
			FriendlyID:                fmt.Sprintf("SUB-%04d", s+1),
			ProviderUserID:            fmt.Sprintf("user-%03d", 1+rng.IntN(40)),
			ProviderOfficeID:          fmt.Sprintf("%dA%03dB", 1+rng.IntN(9), rng.IntN(1000)),
			SubmissionTypeCode:        seedTypeCodes[rng.IntN(len(seedTypeCodes))],
			SubmissionDate:            &submitted,
			SubmissionPeriodStartDate: &start,
			SubmissionPeriodEndDate:   &end,
			ScheduleID:                fmt.Sprintf("SCH-%d", 2024+s/12),
		})
	}

	for i := 1; i <= n; i++ {
		sub := ds.Submissions[(i-1)/ClaimsPerSubmission]
		concluded := sub.SubmissionPeriodStartDate.AddDate(0, 0, rng.IntN(28))
		ufn := fmt.Sprintf("%s/%03d", concluded.Format("020106"), i%1000)
		amount := math.Round((50+rng.Float64()*4950)*100) / 100

		claim := model.Claim{
			ID:        int64(i),
			UFN:       &ufn,
			Client:    ptr(seedClients[rng.IntN(len(seedClients))]),
			Category:  ptr(seedCategories[rng.IntN(len(seedCategories))]),
			Concluded: &concluded,
			FeeType:   ptr(seedFeeTypes[rng.IntN(len(seedFeeTypes))]),
			Claimed:   &amount,
		}
		if i%7 == 0 {
			claim.Client = nil
			claim.Concluded = nil
		}
		if i%11 != 0 {
			claim.SubmissionID = ptr(sub.ID)
		}
		ds.Claims = append(ds.Claims, claim)
	}
	return ds
}

func ptr[T any](v T) *T { return &v }
