package models

import "time"

// Apprentice represents a council or school apprentice on a levy-funded
// programme. JSON field names are part of the wire contract and must not
// change. Enum-valued fields hold their literal labels here; ordinal
// translation happens at the transport edges.
type Apprentice struct {
	ID                             string     `db:"id" json:"id"`
	Name                           string     `db:"name" json:"name"`
	StartDate                      time.Time  `db:"start_date" json:"startDate"`
	Status                         string     `db:"status" json:"status"`
	ULN                            *int64     `db:"uln" json:"uln"`
	CreatedAt                      time.Time  `db:"created_at" json:"createdAt"`
	DateOfBirth                    time.Time  `db:"date_of_birth" json:"dateOfBirth"`
	Achievement                    *string    `db:"apprentice_achievement" json:"apprenticeAchievement"`
	Confirmation                   *string    `db:"apprentice_confirmation" json:"apprenticeConfirmation"`
	Classification                 *string    `db:"apprentice_classification" json:"apprenticeClassification"`
	Ethnicity                      *string    `db:"apprentice_ethnicity" json:"apprenticeEthnicity"`
	Gender                         *string    `db:"apprentice_gender" json:"apprenticeGender"`
	NonCompletionReason            *string    `db:"apprentice_non_completion_reason" json:"apprenticeNonCompletionReason"`
	Program                        *string    `db:"apprentice_program" json:"apprenticeProgram"`
	Progression                    *string    `db:"apprentice_progression" json:"apprenticeProgression"`
	Delivery                       *string    `db:"apprenticeship_delivery" json:"apprenticeshipDelivery"`
	CertificatesReceived           *string    `db:"certificates_received" json:"certificatesReceived"`
	CompletionDate                 *time.Time `db:"completion_date" json:"completionDate"`
	Directorate                    *string    `db:"directorate" json:"directorate"`
	DoeReference                   *string    `db:"doe_reference" json:"doeReference"`
	EmployeeNumber                 *string    `db:"employee_number" json:"employeeNumber"`
	EndDate                        *time.Time `db:"end_date" json:"endDate"`
	EndPointAssessor               *string    `db:"end_point_assessor" json:"endPointAssessor"`
	IsCareLeaver                   bool       `db:"is_care_leaver" json:"isCareLeaver"`
	IsDisabled                     bool       `db:"is_disabled" json:"isDisabled"`
	ManagerName                    *string    `db:"manager_name" json:"managerName"`
	ManagerTitle                   *string    `db:"manager_title" json:"managerTitle"`
	PauseDate                      *time.Time `db:"pause_date" json:"pauseDate"`
	Post                           *string    `db:"post" json:"post"`
	School                         *string    `db:"school" json:"school"`
	TotalAgreedApprenticeshipPrice float64    `db:"total_agreed_apprenticeship_price" json:"totalAgreedApprenticeshipPrice"`
	TrainingCourse                 *string    `db:"training_course" json:"trainingCourse"`
	TrainingProvider               *string    `db:"training_provider" json:"trainingProvider"`
	UKPRN                          *int64     `db:"ukprn" json:"ukprn"`
	WithdrawalDate                 *time.Time `db:"withdrawal_date" json:"withdrawalDate"`

	// Transactions are attached on reads by joining on ULN.
	Transactions []Transaction `db:"-" json:"transactions"`
}

// ApprenticeFilter holds the supported /Apprentices/find criteria. Nil
// fields are omitted from the query.
type ApprenticeFilter struct {
	StartDate   *time.Time
	Status      *string
	Directorate *string
	Program     *string
}
