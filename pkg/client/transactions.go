package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/lbhackney-it/apprenticeships-api/pkg/enums"
)

// Transaction is the wire record for a levy transaction. Numeric fields are
// nullable and stay null on the wire when unset. The apprentice* fields are
// read-side enrichment; the API ignores them on writes.
type Transaction struct {
	ID                     string     `json:"id,omitempty"`
	Description            string     `json:"description"`
	TransactionDate        time.Time  `json:"transactionDate"`
	TransactionType        string     `json:"transactionType"`
	CreatedAt              *time.Time `json:"createdAt,omitempty"`
	CourseLevel            *float64   `json:"courseLevel"`
	EnglishPercentage      *float64   `json:"englishPercentage"`
	GovernmentContribution *float64   `json:"governmentContribution"`
	LevyDeclared           *float64   `json:"levyDeclared"`
	PaidFromLevy           *float64   `json:"paidFromLevy"`
	PayrollMonth           *time.Time `json:"payrollMonth"`
	TenPercentageTopUp     *float64   `json:"tenPercentageTopUp"`
	Total                  *float64   `json:"total"`
	YourContribution       *float64   `json:"yourContribution"`
	ApprenticeName         *string    `json:"apprenticeName"`
	TrainingCourse         *string    `json:"apprenticeshipTrainingCourse"`
	PayeScheme             *string    `json:"payeScheme"`
	TrainingProvider       *string    `json:"trainingProvider"`
	ULN                    *int64     `json:"uln"`
	ApprenticeDirectorate  *string    `json:"apprenticeDirectorate,omitempty"`
	ApprenticeProgram      *string    `json:"apprenticeProgram,omitempty"`
	ApprenticeStatus       *string    `json:"apprenticeStatus,omitempty"`
}

type transactionAlias Transaction

// UnmarshalJSON tolerates enrichment fields arriving as ordinals or labels.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var shadow struct {
		transactionAlias
		ApprenticeDirectorate json.RawMessage `json:"apprenticeDirectorate"`
		ApprenticeProgram     json.RawMessage `json:"apprenticeProgram"`
		ApprenticeStatus      json.RawMessage `json:"apprenticeStatus"`
	}
	if err := json.Unmarshal(data, &shadow); err != nil {
		return err
	}

	decoded := Transaction(shadow.transactionAlias)
	var err error
	if decoded.ApprenticeDirectorate, err = decodeEnum(enums.Directorate, shadow.ApprenticeDirectorate); err != nil {
		return err
	}
	if decoded.ApprenticeProgram, err = decodeEnum(enums.Program, shadow.ApprenticeProgram); err != nil {
		return err
	}
	if decoded.ApprenticeStatus, err = decodeEnum(enums.Status, shadow.ApprenticeStatus); err != nil {
		return err
	}
	*t = decoded
	return nil
}

// TransactionQuery filters /Transactions/find.
type TransactionQuery struct {
	FromDate    *time.Time
	ToDate      *time.Time
	Description *string
}

func (q TransactionQuery) values() url.Values {
	values := url.Values{}
	if q.FromDate != nil {
		values.Set("fromDate", q.FromDate.UTC().Format(time.RFC3339))
	}
	if q.ToDate != nil {
		values.Set("toDate", q.ToDate.UTC().Format(time.RFC3339))
	}
	if q.Description != nil && *q.Description != "" {
		values.Set("description", *q.Description)
	}
	return values
}

// AllTransactions fetches every transaction with apprentice context.
func (c *Client) AllTransactions(ctx context.Context) ([]Transaction, error) {
	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/Transactions/all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindTransactions fetches transactions matching the query.
func (c *Client) FindTransactions(ctx context.Context, query TransactionQuery) ([]Transaction, error) {
	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/Transactions/find", query.values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, transaction Transaction) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPost, "/Transactions/create", nil, transaction, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadTransactions bulk-creates a batch of transactions.
func (c *Client) UploadTransactions(ctx context.Context, transactions []Transaction) ([]Transaction, error) {
	var out []Transaction
	if err := c.do(ctx, http.MethodPost, "/Transactions/upload", nil, transactions, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTransaction replaces a transaction snapshot by its id.
func (c *Client) UpdateTransaction(ctx context.Context, transaction Transaction) (*Transaction, error) {
	var out Transaction
	if err := c.do(ctx, http.MethodPatch, "/Transactions", nil, transaction, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction removes a transaction by id.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/Transactions/"+url.PathEscape(id), nil, nil, nil)
}
