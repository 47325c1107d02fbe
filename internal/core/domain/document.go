package domain

// DocumentStatus is the indexing state reported by the service.
// The client only reads it; it never transitions a status locally.
type DocumentStatus string

// Known document statuses.
const (
	// StatusUploaded means the file was received but indexing has not started.
	StatusUploaded DocumentStatus = "uploaded"

	// StatusProcessing means the service is indexing the file.
	StatusProcessing DocumentStatus = "processing"

	// StatusProcessed means the document is indexed and queryable.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed means indexing failed.
	StatusFailed DocumentStatus = "failed"
)

// IsKnown returns true if the status is one of the documented values.
func (s DocumentStatus) IsKnown() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}

// Settled returns true once indexing has finished, successfully or not.
func (s DocumentStatus) Settled() bool {
	return s == StatusProcessed || s == StatusFailed
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Document is one uploaded file known to the service.
type Document struct {
	// ID is assigned by the service and never changes.
	ID string

	// Filename is the display name.
	Filename string

	// FilePath is where the service stored the upload. Informational.
	FilePath string

	// NumPages is informational and never negative.
	NumPages int

	// Status is the service's indexing state.
	Status DocumentStatus

	// IndexingStrategy is the strategy the document was indexed with.
	IndexingStrategy Strategy

	// Placeholder marks a client-side record created at upload time.
	// Placeholders never appear in a list snapshot from the service.
	Placeholder bool
}

// UploadFile is a file read fully into memory for transmission.
type UploadFile struct {
	// Name is the filename sent to the service.
	Name string

	// Content is the complete file body.
	Content []byte
}

// UploadedDocument is the per-file acknowledgement of an upload.
type UploadedDocument struct {
	DocumentID string
	Filename   string
	Status     string
	NumChunks  int
}

// UploadResult is the service's acknowledgement of an upload batch.
type UploadResult struct {
	// Documents lists per-file acknowledgements when the service returns them.
	Documents []UploadedDocument

	// Message is an optional free-text acknowledgement.
	Message string
}

// DocumentIDs returns the ids acknowledged by the service, in order.
func (r *UploadResult) DocumentIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Documents))
	for _, d := range r.Documents {
		if d.DocumentID != "" {
			ids = append(ids, d.DocumentID)
		}
	}
	return ids
}
