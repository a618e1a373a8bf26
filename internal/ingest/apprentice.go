package ingest

import (
	"time"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
)

// Apprentices maps parsed rows onto create requests using the column
// headings of the DfE apprenticeship service export. Columns the export
// does not carry (demographics, progression, achievement) stay null; row
// validation happens downstream so that failures report row numbers.
func Apprentices(rows []Row) []dto.ApprenticeCreateRequest {
	reqs := make([]dto.ApprenticeCreateRequest, 0, len(rows))
	for _, row := range rows {
		req := dto.ApprenticeCreateRequest{
			Name:             derefOrEmpty(row.String("Apprentice name")),
			StartDate:        dateValue(row.Date("Planned start date")),
			Status:           derefOrEmpty(row.String("Status")),
			ULN:              row.Int("ULN"),
			DateOfBirth:      dateValue(row.Date("Date of birth")),
			Confirmation:     row.String("Apprentice confirmation"),
			Delivery:         row.String("Apprenticeship delivery model"),
			DoeReference:     row.String("Reference"),
			EndDate:          datePtr(row.Date("Planned end date")),
			PauseDate:        datePtr(row.Date("Paused date")),
			School:           row.String("Your reference"),
			TrainingCourse:   row.String("Apprenticeship training course"),
			TrainingProvider: row.String("Training provider"),
		}
		if price := row.Float("Total agreed apprenticeship price"); price != nil {
			req.TotalAgreedApprenticeshipPrice = *price
		}
		reqs = append(reqs, req)
	}
	return reqs
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateValue(t *time.Time) dto.Date {
	if t == nil {
		return dto.Date{}
	}
	return dto.Date{Time: *t}
}

func datePtr(t *time.Time) *dto.Date {
	if t == nil {
		return nil
	}
	return &dto.Date{Time: *t}
}
