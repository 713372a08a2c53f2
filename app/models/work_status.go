package models

// Work item status values shared by the background queue tables.
const (
	WorkStatusPending          = "pending"
	WorkStatusProcessing       = "processing"
	WorkStatusDone             = "done"
	WorkStatusError            = "error"
	WorkStatusErrorCredentials = "error_credentials"

	// Terminal outcomes specific to backlink review.
	WorkStatusApproved = "approved"
	WorkStatusRejected = "rejected"
)

// IsTerminalWorkStatus reports whether no further processing is expected.
func IsTerminalWorkStatus(status string) bool {
	switch status {
	case WorkStatusDone, WorkStatusError, WorkStatusErrorCredentials, WorkStatusApproved, WorkStatusRejected:
		return true
	default:
		return false
	}
}
