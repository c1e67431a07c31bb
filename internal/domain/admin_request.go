package domain

import "time"

type AdminRequestStatus string

const (
	AdminRequestPending  AdminRequestStatus = "Pending"
	AdminRequestApproved AdminRequestStatus = "Approved"
	AdminRequestRejected AdminRequestStatus = "Rejected"
)

// AdminRequest is a user's application for platform admin access.
// Pending transitions to Approved or Rejected exactly once.
type AdminRequest struct {
	ID              string             `json:"id"`
	RequesterID     string             `json:"requester_principal"`
	Name            string             `json:"name"`
	Reason          string             `json:"reason"`
	Status          AdminRequestStatus `json:"status"`
	RequestedAt     time.Time          `json:"requested_at"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty"`
	ProcessedBy     *string            `json:"processed_by,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
}

func (r *AdminRequest) Processed() bool {
	return r.Status != AdminRequestPending
}
