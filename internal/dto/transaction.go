package dto

import (
	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

// TransactionCreateRequest is the POST /Transactions/create payload.
// Numeric fields are nullable: an absent or null value stays null, never
// zero.
type TransactionCreateRequest struct {
	Description            string   `json:"description" validate:"required"`
	TransactionDate        Date     `json:"transactionDate" validate:"required"`
	TransactionType        string   `json:"transactionType" validate:"required"`
	CourseLevel            *float64 `json:"courseLevel"`
	EnglishPercentage      *float64 `json:"englishPercentage"`
	GovernmentContribution *float64 `json:"governmentContribution"`
	LevyDeclared           *float64 `json:"levyDeclared"`
	PaidFromLevy           *float64 `json:"paidFromLevy"`
	PayrollMonth           *Date    `json:"payrollMonth"`
	TenPercentageTopUp     *float64 `json:"tenPercentageTopUp"`
	Total                  *float64 `json:"total"`
	YourContribution       *float64 `json:"yourContribution"`
	ApprenticeName         *string  `json:"apprenticeName"`
	TrainingCourse         *string  `json:"apprenticeshipTrainingCourse"`
	PayeScheme             *string  `json:"payeScheme"`
	TrainingProvider       *string  `json:"trainingProvider"`
	ULN                    *int64   `json:"uln"`
}

// TransactionUpdateRequest is the PATCH /Transactions payload: a full
// snapshot including the immutable id. createdAt is accepted but ignored.
type TransactionUpdateRequest struct {
	ID        string `json:"id" validate:"required"`
	CreatedAt *Date  `json:"createdAt"`
	TransactionCreateRequest
}

// ToModel normalises optional strings and produces the entity to persist.
func (r *TransactionCreateRequest) ToModel() (*models.Transaction, error) {
	return &models.Transaction{
		Description:            r.Description,
		TransactionDate:        r.TransactionDate.Time,
		TransactionType:        r.TransactionType,
		CourseLevel:            r.CourseLevel,
		EnglishPercentage:      r.EnglishPercentage,
		GovernmentContribution: r.GovernmentContribution,
		LevyDeclared:           r.LevyDeclared,
		PaidFromLevy:           r.PaidFromLevy,
		PayrollMonth:           r.PayrollMonth.TimePtr(),
		TenPercentageTopUp:     r.TenPercentageTopUp,
		Total:                  r.Total,
		YourContribution:       r.YourContribution,
		ApprenticeName:         normalizeOptional(r.ApprenticeName),
		TrainingCourse:         normalizeOptional(r.TrainingCourse),
		PayeScheme:             normalizeOptional(r.PayeScheme),
		TrainingProvider:       normalizeOptional(r.TrainingProvider),
		ULN:                    r.ULN,
	}, nil
}

// ToModel produces the entity snapshot to store for an update.
func (r *TransactionUpdateRequest) ToModel() (*models.Transaction, error) {
	transaction, err := r.TransactionCreateRequest.ToModel()
	if err != nil {
		return nil, err
	}
	transaction.ID = r.ID
	return transaction, nil
}
