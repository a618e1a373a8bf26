package dto

// IngestResult summarises a CSV bulk upload.
type IngestResult struct {
	Filename    string   `json:"filename"`
	RecordCount int      `json:"recordCount"`
	Inserted    int      `json:"inserted"`
	ErrorCount  int      `json:"errorCount"`
	Errors      []string `json:"errors,omitempty"`
}
