package domain

import "time"

type ParticipantStatus string

const (
	ParticipantConfirmed  ParticipantStatus = "Confirmed"
	ParticipantPending    ParticipantStatus = "Pending"
	ParticipantWaitlisted ParticipantStatus = "Waitlisted"
	ParticipantCancelled  ParticipantStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPaid        PaymentStatus = "Paid"
	PaymentPending     PaymentStatus = "Pending"
	PaymentRefunded    PaymentStatus = "Refunded"
	PaymentNotRequired PaymentStatus = "NotRequired"
)

type Participant struct {
	UserID        string            `json:"user_id"`
	JoinedAt      time.Time         `json:"joined_at"`
	Status        ParticipantStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Notes         *string           `json:"notes,omitempty"`
}

// NewParticipant builds a Confirmed participant record. Payment starts
// Pending for paid events and NotRequired for free ones.
func NewParticipant(principal string, entryFee uint64, notes *string, now time.Time) Participant {
	payment := PaymentNotRequired
	if entryFee > 0 {
		payment = PaymentPending
	}

	return Participant{
		UserID:        principal,
		JoinedAt:      now,
		Status:        ParticipantConfirmed,
		PaymentStatus: payment,
		Notes:         notes,
	}
}
