package dto

// ExportRequest enqueues an asynchronous dataset export.
type ExportRequest struct {
	Dataset string `json:"dataset" validate:"required,oneof=apprentices transactions"`
	Format  string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportStatusResponse reports job progress and, once finished, a signed
// download URL.
type ExportStatusResponse struct {
	ID           string  `json:"id"`
	Dataset      string  `json:"dataset"`
	Format       string  `json:"format"`
	Status       string  `json:"status"`
	DownloadURL  *string `json:"downloadUrl,omitempty"`
	ErrorMessage *string `json:"errorMessage,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	FinishedAt   *string `json:"finishedAt,omitempty"`
}
