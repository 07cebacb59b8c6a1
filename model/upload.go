package model

// Upload file status constants. Lifecycle: pending -> uploading ->
// {success | error}; error -> uploading again only via explicit retry.
const (
	FileStatusPending   = "pending"
	FileStatusUploading = "uploading"
	FileStatusSuccess   = "success"
	FileStatusError     = "error"
)

// UploadFile tracks one file through an upload session
type UploadFile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Size      int64    `json:"size"`
	MimeType  string   `json:"mime_type"`
	Status    string   `json:"status"`
	Progress  int      `json:"progress"` // percent, 0-100
	Errors    []string `json:"errors,omitempty"`
	Retryable bool     `json:"retryable"` // transfer failures only; validation failures are final
	ObjectKey string   `json:"-"`         // staging location, set at intake
}

// Terminal reports whether the file has reached a final state
func (f *UploadFile) Terminal() bool {
	return f.Status == FileStatusSuccess || f.Status == FileStatusError
}

// UploadStats is a projection of per-file statuses over a session
type UploadStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Uploading int `json:"uploading"`
	Success   int `json:"success"`
	Error     int `json:"error"`
}
