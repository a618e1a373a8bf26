package models

import (
	"encoding/json"
	"time"
)

// EventType categorises audit log entries.
type EventType string

const (
	EventTypeDataIngestion      EventType = "DataIngestion"
	EventTypeValidationError    EventType = "ValidationError"
	EventTypeApprenticeAdded    EventType = "ApprenticeAdded"
	EventTypeApprenticeUpdated  EventType = "ApprenticeUpdated"
	EventTypeApprenticeDeleted  EventType = "ApprenticeDeleted"
	EventTypeTransactionAdded   EventType = "TransactionAdded"
	EventTypeTransactionUpdated EventType = "TransactionUpdated"
	EventTypeTransactionDeleted EventType = "TransactionDeleted"
)

// AuditLogStatus captures the outcome recorded against an event.
type AuditLogStatus string

const (
	AuditStatusSuccess    AuditLogStatus = "Success"
	AuditStatusFailure    AuditLogStatus = "Failure"
	AuditStatusSkipped    AuditLogStatus = "Skipped"
	AuditStatusInProgress AuditLogStatus = "InProgress"
)

// AuditLog represents an audit trail record. Details holds an event-shaped
// JSON payload (for ingestion events: filename, record and error counts).
type AuditLog struct {
	ID                string          `db:"id" json:"id"`
	EventType         EventType       `db:"event_type" json:"eventType"`
	EventTypeTargetID string          `db:"event_type_target_id" json:"eventTypeTargetId"`
	Status            AuditLogStatus  `db:"status" json:"status"`
	Details           json.RawMessage `db:"details" json:"details"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UserID            *string         `db:"user_id" json:"userId,omitempty"`
}

// AuditLogFilter encapsulates allowed search parameters for listing audit
// entries.
type AuditLogFilter struct {
	EventType string
	Status    string
	Page      int
	PageSize  int
}

// Pagination describes the page window returned alongside audit listings.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// AuditLogPage is the paginated audit listing payload.
type AuditLogPage struct {
	Items      []AuditLog  `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// IngestionDetails is the Details payload written for DataIngestion events.
type IngestionDetails struct {
	Filename     string   `json:"filename"`
	RecordCount  int      `json:"recordCount"`
	ErrorCount   int      `json:"errorCount"`
	ErrorSamples []string `json:"errorSamples,omitempty"`
}
