package claimsapi

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
	"github.com/ministryofjustice/claims-ui/internal/format"
)

// claimDTO is the wire shape of a claim.
type claimDTO struct {
	ID           int64    `json:"id"           validate:"min=1"`
	UFN          *string  `json:"ufn"`
	Client       *string  `json:"client"`
	Category     *string  `json:"category"`
	Concluded    *string  `json:"concluded"`
	FeeType      *string  `json:"feeType"`
	Claimed      *float64 `json:"claimed"      validate:"omitnil,gte=0"`
	SubmissionID *string  `json:"submissionId" validate:"omitempty,uuid"`
}

// submissionDTO is the wire shape of a submission.
type submissionDTO struct {
	ID                        string     `json:"id"                 validate:"required"`
	FriendlyID                string     `json:"friendlyId"`
	ProviderUserID            string     `json:"providerUserId"`
	ProviderOfficeID          string     `json:"providerOfficeId"`
	SubmissionTypeCode        string     `json:"submissionTypeCode"`
	SubmissionDate            string     `json:"submissionDate"`
	SubmissionPeriodStartDate string     `json:"submissionPeriodStartDate"`
	SubmissionPeriodEndDate   string     `json:"submissionPeriodEndDate"`
	ScheduleID                string     `json:"scheduleId"`
	Claims                    []claimDTO `json:"claims"             validate:"dive"`
}

type decoder struct {
	validate *validator.Validate
}

func newDecoder() *decoder {
	return &decoder{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// fromObject re-decodes a generic JSON value into dst. kind names the
// record in error messages.
func (d *decoder) fromObject(raw any, kind string, dst any) error {
	if _, ok := raw.(map[string]any); !ok {
		return apperrors.Validationf("invalid %s item: expected object", kind)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeValidation, "invalid %s item", kind)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeValidation, "invalid %s item", kind)
	}
	if err := d.validate.Struct(dst); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeValidation, "invalid %s item", kind)
	}
	return nil
}

func (d *decoder) claim(raw any) (model.Claim, error) {
	var dto claimDTO
	if err := d.fromObject(raw, "claim", &dto); err != nil {
		return model.Claim{}, err
	}
	return dto.toModel()
}

func (d *decoder) submission(raw any) (model.Submission, error) {
	var dto submissionDTO
	if err := d.fromObject(raw, "submission", &dto); err != nil {
		return model.Submission{}, err
	}
	return dto.toModel()
}

func (c claimDTO) toModel() (model.Claim, error) {
	concluded, err := parseOptionalDate(c.Concluded)
	if err != nil {
		return model.Claim{}, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "claim %d: concluded", c.ID)
	}
	return model.Claim{
		ID:           c.ID,
		UFN:          c.UFN,
		Client:       c.Client,
		Category:     c.Category,
		Concluded:    concluded,
		FeeType:      c.FeeType,
		Claimed:      c.Claimed,
		SubmissionID: c.SubmissionID,
	}, nil
}

func (s submissionDTO) toModel() (model.Submission, error) {
	out := model.Submission{
		ID:                 s.ID,
		FriendlyID:         s.FriendlyID,
		ProviderUserID:     s.ProviderUserID,
		ProviderOfficeID:   s.ProviderOfficeID,
		SubmissionTypeCode: s.SubmissionTypeCode,
		ScheduleID:         s.ScheduleID,
		Claims:             make([]model.Claim, 0, len(s.Claims)),
	}

	dates := []struct {
		name string
		raw  string
		dst  **time.Time
	}{
		{"submissionDate", s.SubmissionDate, &out.SubmissionDate},
		{"submissionPeriodStartDate", s.SubmissionPeriodStartDate, &out.SubmissionPeriodStartDate},
		{"submissionPeriodEndDate", s.SubmissionPeriodEndDate, &out.SubmissionPeriodEndDate},
	}
	for _, d := range dates {
		t, err := format.ParseDate(d.raw)
		if err != nil {
			return model.Submission{}, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "submission %s: %s", s.ID, d.name)
		}
		*d.dst = t
	}

	for _, c := range s.Claims {
		claim, err := c.toModel()
		if err != nil {
			return model.Submission{}, err
		}
		out.Claims = append(out.Claims, claim)
	}
	return out, nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent date
	}
	t, err := format.ParseDate(*raw)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	return t, nil
}
