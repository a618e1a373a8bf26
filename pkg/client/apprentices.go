package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
)

// Apprentice is the wire record for an apprentice. Enum fields hold labels
// in Go; the nine ordinal-encoded fields take their wire form during
// marshalling.
type Apprentice struct {
	ID                             string        `json:"id,omitempty"`
	Name                           string        `json:"name"`
	StartDate                      time.Time     `json:"startDate"`
	Status                         string        `json:"status"`
	ULN                            *int64        `json:"uln"`
	CreatedAt                      *time.Time    `json:"createdAt,omitempty"`
	DateOfBirth                    *time.Time    `json:"dateOfBirth"`
	Achievement                    *string       `json:"apprenticeAchievement"`
	Confirmation                   *string       `json:"apprenticeConfirmation"`
	Classification                 *string       `json:"apprenticeClassification"`
	Ethnicity                      *string       `json:"apprenticeEthnicity"`
	Gender                         *string       `json:"apprenticeGender"`
	NonCompletionReason            *string       `json:"apprenticeNonCompletionReason"`
	Program                        *string       `json:"apprenticeProgram"`
	Progression                    *string       `json:"apprenticeProgression"`
	Delivery                       *string       `json:"apprenticeshipDelivery"`
	CertificatesReceived           *string       `json:"certificatesReceived"`
	CompletionDate                 *time.Time    `json:"completionDate"`
	Directorate                    *string       `json:"directorate"`
	DoeReference                   *string       `json:"doeReference"`
	EmployeeNumber                 *string       `json:"employeeNumber"`
	EndDate                        *time.Time    `json:"endDate"`
	EndPointAssessor               *string       `json:"endPointAssessor"`
	IsCareLeaver                   bool          `json:"isCareLeaver"`
	IsDisabled                     bool          `json:"isDisabled"`
	ManagerName                    *string       `json:"managerName"`
	ManagerTitle                   *string       `json:"managerTitle"`
	PauseDate                      *time.Time    `json:"pauseDate"`
	Post                           *string       `json:"post"`
	School                         *string       `json:"school"`
	TotalAgreedApprenticeshipPrice float64       `json:"totalAgreedApprenticeshipPrice"`
	TrainingCourse                 *string       `json:"trainingCourse"`
	TrainingProvider               *string       `json:"trainingProvider"`
	UKPRN                          *int64        `json:"ukprn"`
	WithdrawalDate                 *time.Time    `json:"withdrawalDate"`
	Transactions                   []Transaction `json:"transactions,omitempty"`
}

// apprenticeAlias breaks the MarshalJSON/UnmarshalJSON recursion.
type apprenticeAlias Apprentice

// MarshalJSON encodes the nine enum fields as ordinals.
func (a Apprentice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		apprenticeAlias
		Achievement          interface{} `json:"apprenticeAchievement"`
		Classification       interface{} `json:"apprenticeClassification"`
		Ethnicity            interface{} `json:"apprenticeEthnicity"`
		Gender               interface{} `json:"apprenticeGender"`
		NonCompletionReason  interface{} `json:"apprenticeNonCompletionReason"`
		Program              interface{} `json:"apprenticeProgram"`
		Progression          interface{} `json:"apprenticeProgression"`
		CertificatesReceived interface{} `json:"certificatesReceived"`
		Directorate          interface{} `json:"directorate"`
	}{
		apprenticeAlias:      apprenticeAlias(a),
		Achievement:          encodeEnum(enums.Achievement, a.Achievement),
		Classification:       encodeEnum(enums.Classification, a.Classification),
		Ethnicity:            encodeEnum(enums.Ethnicity, a.Ethnicity),
		Gender:               encodeEnum(enums.Gender, a.Gender),
		NonCompletionReason:  encodeEnum(enums.NonCompletionReason, a.NonCompletionReason),
		Program:              encodeEnum(enums.Program, a.Program),
		Progression:          encodeEnum(enums.Progression, a.Progression),
		CertificatesReceived: encodeEnum(enums.CertificateStatus, a.CertificatesReceived),
		Directorate:          encodeEnum(enums.Directorate, a.Directorate),
	})
}

// UnmarshalJSON accepts enum fields as ordinals or literal labels.
func (a *Apprentice) UnmarshalJSON(data []byte) error {
	var shadow struct {
		apprenticeAlias
		Achievement          json.RawMessage `json:"apprenticeAchievement"`
		Classification       json.RawMessage `json:"apprenticeClassification"`
		Ethnicity            json.RawMessage `json:"apprenticeEthnicity"`
		Gender               json.RawMessage `json:"apprenticeGender"`
		NonCompletionReason  json.RawMessage `json:"apprenticeNonCompletionReason"`
		Program              json.RawMessage `json:"apprenticeProgram"`
		Progression          json.RawMessage `json:"apprenticeProgression"`
		CertificatesReceived json.RawMessage `json:"certificatesReceived"`
		Directorate          json.RawMessage `json:"directorate"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	decoded := Apprentice(shadow.apprenticeAlias)
	var err error
	if decoded.Achievement, err = decodeEnum(enums.Achievement, shadow.Achievement); err != nil {
		return err
	}
	if decoded.Classification, err = decodeEnum(enums.Classification, shadow.Classification); err != nil {
		return err
	}
	if decoded.Ethnicity, err = decodeEnum(enums.Ethnicity, shadow.Ethnicity); err != nil {
		return err
	}
	if decoded.Gender, err = decodeEnum(enums.Gender, shadow.Gender); err != nil {
		return err
	}
	if decoded.NonCompletionReason, err = decodeEnum(enums.NonCompletionReason, shadow.NonCompletionReason); err != nil {
		return err
	}
	if decoded.Program, err = decodeEnum(enums.Program, shadow.Program); err != nil {
		return err
	}
	if decoded.Progression, err = decodeEnum(enums.Progression, shadow.Progression); err != nil {
		return err
	}
	if decoded.CertificatesReceived, err = decodeEnum(enums.CertificateStatus, shadow.CertificatesReceived); err != nil {
		return err
	}
	if decoded.Directorate, err = decodeEnum(enums.Directorate, shadow.Directorate); err != nil {
		return err
	}
	*a = decoded
	return nil
}

// ApprenticeQuery filters /Apprentices/find. Directorate and Program hold
// labels; they travel as ordinal strings.
type ApprenticeQuery struct {
	StartDate   *time.Time
	Status      *string
	Directorate *string
	Program     *string
}

func (q ApprenticeQuery) values() url.Values {
	values := url.Values{}
	if q.StartDate != nil {
		values.Set("startDate", q.StartDate.UTC().Format(time.RFC3339))
	}
	if q.Status != nil && *q.Status != "" {
		values.Set("status", *q.Status)
	}
	if v := queryEnum(enums.Program, q.Program); v != "" {
		values.Set("apprenticeProgram", v)
	}
	if v := queryEnum(enums.Directorate, q.Directorate); v != "" {
		values.Set("directorate", v)
	}
	return values
}

// AllApprentices fetches every apprentice with transactions attached.
func (c *Client) AllApprentices(ctx context.Context) ([]Apprentice, error) {
	var out []Apprentice
	if err := c.do(ctx, http.MethodGet, "/Apprentices/all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindApprentices fetches apprentices matching the query.
func (c *Client) FindApprentices(ctx context.Context, query ApprenticeQuery) ([]Apprentice, error) {
	var out []Apprentice
	if err := c.do(ctx, http.MethodGet, "/Apprentices/find", query.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateApprentice registers a new apprentice.
func (c *Client) CreateApprentice(ctx context.Context, apprentice Apprentice) (*Apprentice, error) {
	var out Apprentice
	if err := c.do(ctx, http.MethodPost, "/Apprentices/create", nil, apprentice, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadApprentices bulk-creates a batch of apprentices.
func (c *Client) UploadApprentices(ctx context.Context, apprentices []Apprentice) ([]Apprentice, error) {
	var out []Apprentice
	if err := c.do(ctx, http.MethodPost, "/Apprentices/upload", nil, apprentices, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateApprentice replaces an apprentice snapshot by its id.
func (c *Client) UpdateApprentice(ctx context.Context, apprentice Apprentice) (*Apprentice, error) {
	var out Apprentice
	if err := c.do(ctx, http.MethodPatch, "/Apprentices", nil, apprentice, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteApprentice removes an apprentice by id.
func (c *Client) DeleteApprentice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Apprentices/"+url.PathEscape(id), nil, nil, nil)
}
