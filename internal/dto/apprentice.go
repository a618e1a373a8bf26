package dto

import (
	"fmt"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
)

// ApprenticeCreateRequest is the POST /Apprentices/create payload. Enum
// fields accept zero-based ordinals or literal labels; status is always a
// literal string.
type ApprenticeCreateRequest struct {
	Name                           string    `json:"name" validate:"required"`
	StartDate                      Date      `json:"startDate" validate:"required"`
	Status                         string    `json:"status" validate:"required"`
	ULN                            *int64    `json:"uln" validate:"required,gt=0"`
	DateOfBirth                    Date      `json:"dateOfBirth"`
	Achievement                    EnumValue `json:"apprenticeAchievement"`
	Confirmation                   *string   `json:"apprenticeConfirmation"`
	Classification                 EnumValue `json:"apprenticeClassification"`
	Ethnicity                      EnumValue `json:"apprenticeEthnicity"`
	Gender                         EnumValue `json:"apprenticeGender"`
	NonCompletionReason            EnumValue `json:"apprenticeNonCompletionReason"`
	Program                        EnumValue `json:"apprenticeProgram"`
	Progression                    EnumValue `json:"apprenticeProgression"`
	Delivery                       *string   `json:"apprenticeshipDelivery"`
	CertificatesReceived           EnumValue `json:"certificatesReceived"`
	CompletionDate                 *Date     `json:"completionDate"`
	Directorate                    EnumValue `json:"directorate"`
	DoeReference                   *string   `json:"doeReference"`
	EmployeeNumber                 *string   `json:"employeeNumber"`
	EndDate                        *Date     `json:"endDate"`
	EndPointAssessor               *string   `json:"endPointAssessor"`
	IsCareLeaver                   bool      `json:"isCareLeaver"`
	IsDisabled                     bool      `json:"isDisabled"`
	ManagerName                    *string   `json:"managerName"`
	ManagerTitle                   *string   `json:"managerTitle"`
	PauseDate                      *Date     `json:"pauseDate"`
	Post                           *string   `json:"post"`
	School                         *string   `json:"school"`
	TotalAgreedApprenticeshipPrice float64   `json:"totalAgreedApprenticeshipPrice"`
	TrainingCourse                 *string   `json:"trainingCourse"`
	TrainingProvider               *string   `json:"trainingProvider"`
	UKPRN                          *int64    `json:"ukprn"`
	WithdrawalDate                 *Date     `json:"withdrawalDate"`
}

// ApprenticeUpdateRequest is the PATCH /Apprentices payload: a full
// snapshot including the immutable id. createdAt is accepted but the store
// never changes it.
type ApprenticeUpdateRequest struct {
	ID        string `json:"id" validate:"required"`
	CreatedAt *Date  `json:"createdAt"`
	ApprenticeCreateRequest
}

// ToModel resolves enum fields and normalises optional strings, producing
// the entity to persist.
func (r *ApprenticeCreateRequest) ToModel() (*models.Apprentice, error) {
	achievement, err := r.Achievement.Resolve(enums.Achievement)
	if err != nil {
		return nil, err
	}
	classification, err := r.Classification.Resolve(enums.Classification)
	if err != nil {
		return nil, err
	}
	ethnicity, err := r.Ethnicity.Resolve(enums.Ethnicity)
	if err != nil {
		return nil, err
	}
	gender, err := r.Gender.Resolve(enums.Gender)
	if err != nil {
		return nil, err
	}
	nonCompletion, err := r.NonCompletionReason.Resolve(enums.NonCompletionReason)
	if err != nil {
		return nil, err
	}
	program, err := r.Program.Resolve(enums.Program)
	if err != nil {
		return nil, err
	}
	progression, err := r.Progression.Resolve(enums.Progression)
	if err != nil {
		return nil, err
	}
	certificates, err := r.CertificatesReceived.Resolve(enums.CertificateStatus)
	if err != nil {
		return nil, err
	}
	directorate, err := r.Directorate.Resolve(enums.Directorate)
	if err != nil {
		return nil, err
	}

	if !enums.Status.Contains(r.Status) {
		return nil, fmt.Errorf("status: unknown value %q", r.Status)
	}

	return &models.Apprentice{
		Name:                           r.Name,
		StartDate:                      r.StartDate.Time,
		Status:                         r.Status,
		ULN:                            r.ULN,
		DateOfBirth:                    r.DateOfBirth.Time,
		Achievement:                    achievement,
		Confirmation:                   normalizeOptional(r.Confirmation),
		Classification:                 classification,
		Ethnicity:                      ethnicity,
		Gender:                         gender,
		NonCompletionReason:            nonCompletion,
		Program:                        program,
		Progression:                    progression,
		Delivery:                       normalizeOptional(r.Delivery),
		CertificatesReceived:           certificates,
		CompletionDate:                 r.CompletionDate.TimePtr(),
		Directorate:                    directorate,
		DoeReference:                   normalizeOptional(r.DoeReference),
		EmployeeNumber:                 normalizeOptional(r.EmployeeNumber),
		EndDate:                        r.EndDate.TimePtr(),
		EndPointAssessor:               normalizeOptional(r.EndPointAssessor),
		IsCareLeaver:                   r.IsCareLeaver,
		IsDisabled:                     r.IsDisabled,
		ManagerName:                    normalizeOptional(r.ManagerName),
		ManagerTitle:                   normalizeOptional(r.ManagerTitle),
		PauseDate:                      r.PauseDate.TimePtr(),
		Post:                           normalizeOptional(r.Post),
		School:                         normalizeOptional(r.School),
		TotalAgreedApprenticeshipPrice: r.TotalAgreedApprenticeshipPrice,
		TrainingCourse:                 normalizeOptional(r.TrainingCourse),
		TrainingProvider:               normalizeOptional(r.TrainingProvider),
		UKPRN:                          r.UKPRN,
		WithdrawalDate:                 r.WithdrawalDate.TimePtr(),
	}, nil
}

// ToModel produces the entity snapshot to store for an update.
func (r *ApprenticeUpdateRequest) ToModel() (*models.Apprentice, error) {
	apprentice, err := r.ApprenticeCreateRequest.ToModel()
	if err != nil {
		return nil, err
	}
	apprentice.ID = r.ID
	return apprentice, nil
}
