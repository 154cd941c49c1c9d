package constants

// ProcessingStatus is the canonical status for a stored document check.
type ProcessingStatus string

// Stable values (store these exact strings).
const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)
