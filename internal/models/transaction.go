package models

import "time"

// Transaction represents a levy account movement imported from the
// apprenticeship service CSV exports. Monetary and numeric fields are
// pointers: an unparseable source value is stored as null, never zero.
type Transaction struct {
	ID                   string     `db:"id" json:"id"`
	Description          string     `db:"description" json:"description"`
	TransactionDate      time.Time  `db:"transaction_date" json:"transactionDate"`
	TransactionType      string     `db:"transaction_type" json:"transactionType"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	CourseLevel          *float64   `db:"course_level" json:"courseLevel"`
	EnglishPercentage    *float64   `db:"english_percentage" json:"englishPercentage"`
	GovernmentContribution *float64 `db:"government_contribution" json:"governmentContribution"`
	LevyDeclared         *float64   `db:"levy_declared" json:"levyDeclared"`
	PaidFromLevy         *float64   `db:"paid_from_levy" json:"paidFromLevy"`
	PayrollMonth         *time.Time `db:"payroll_month" json:"payrollMonth"`
	TenPercentageTopUp   *float64   `db:"ten_percentage_top_up" json:"tenPercentageTopUp"`
	Total                *float64   `db:"total" json:"total"`
	YourContribution     *float64   `db:"your_contribution" json:"yourContribution"`
	ApprenticeName       *string    `db:"apprentice_name" json:"apprenticeName"`
	TrainingCourse       *string    `db:"apprenticeship_training_course" json:"apprenticeshipTrainingCourse"`
	PayeScheme           *string    `db:"paye_scheme" json:"payeScheme"`
	TrainingProvider     *string    `db:"training_provider" json:"trainingProvider"`
	ULN                  *int64     `db:"uln" json:"uln"`

	// Enrichment from the owning apprentice record, joined on ULN at read
	// time. Absent when no apprentice matches.
	ApprenticeDirectorate *string `db:"apprentice_directorate" json:"apprenticeDirectorate,omitempty"`
	ApprenticeProgram     *string `db:"apprentice_program" json:"apprenticeProgram,omitempty"`
	ApprenticeStatus      *string `db:"apprentice_status" json:"apprenticeStatus,omitempty"`
}

// TransactionFilter holds the supported /Transactions/find criteria.
type TransactionFilter struct {
	FromDate    *time.Time
	ToDate      *time.Time
	Description *string
}
