package ingest

import (
	"time"

	"github.com/lbhackney-it/apprenticeships-api/internal/dto"
)

// Transactions maps parsed rows onto create requests using the column
// headings of the apprenticeship service levy statement. A row without a
// parseable transaction date is stamped with the upload time so monthly
// statements with a blank date column still land in the current period.
func Transactions(rows []Row) []dto.TransactionCreateRequest {
	now := time.Now().UTC()
	reqs := make([]dto.TransactionCreateRequest, 0, len(rows))
	for _, row := range rows {
		transactionDate := row.Date("Transaction date")
		if transactionDate == nil {
			transactionDate = &now
		}
		reqs = append(reqs, dto.TransactionCreateRequest{
			Description:            derefOrEmpty(row.String("Description")),
			TransactionDate:        dateValue(transactionDate),
			TransactionType:        derefOrEmpty(row.String("Transaction type")),
			CourseLevel:            row.Float("Course level"),
			EnglishPercentage:      row.Percent("English %"),
			GovernmentContribution: row.Float("Government contribution"),
			LevyDeclared:           row.Float("Levy declared"),
			PaidFromLevy:           row.Float("Paid from levy"),
			PayrollMonth:           datePtr(row.Date("Payroll month")),
			TenPercentageTopUp:     row.Float("10% top up"),
			Total:                  row.Float("Total"),
			YourContribution:       row.Float("Your contribution"),
			ApprenticeName:         row.String("Apprentice"),
			TrainingCourse:         row.String("Apprenticeship training course"),
			PayeScheme:             row.String("PAYE scheme"),
			TrainingProvider:       row.String("Training provider"),
			ULN:                    row.Int("Unique learner number"),
		})
	}
	return reqs
}
