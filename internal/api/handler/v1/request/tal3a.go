package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type LocationPayload struct {
	Latitude      string  `json:"latitude"`
	Longitude     string  `json:"longitude"`
	Address       string  `json:"address"`
	CityID        uint16  `json:"city_id"`
	GovernorateID uint8   `json:"governorate_id"`
	VenueName     *string `json:"venue_name,omitempty"`
	VenueType     *string `json:"venue_type,omitempty"`
}

func (p LocationPayload) Validate() error {
	return validation.ValidateStruct(
		&p,
		validation.Field(&p.Latitude, validation.Required),
		validation.Field(&p.Longitude, validation.Required),
		validation.Field(&p.Address, validation.Required, validation.Length(1, 500)),
	)
}

type CreateTal3aRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description"`
	Sport            string          `json:"sport" binding:"required"`
	GroupID          *uint64         `json:"group_id,omitempty"`
	Location         LocationPayload `json:"location" binding:"required"`
	StartTime        time.Time       `json:"start_time" binding:"required"`
	EndTime          time.Time       `json:"end_time" binding:"required"`
	MaxParticipants  uint            `json:"max_participants" binding:"required"`
	Difficulty       string          `json:"difficulty_level" binding:"required"`
	EntryFee         uint64          `json:"entry_fee"`
	Currency         string          `json:"currency"`
	Tags             []string        `json:"tags"`
	ContactInfo      *string         `json:"contact_info,omitempty"`
	EmergencyContact *string         `json:"emergency_contact,omitempty"`
}

func (req *CreateTal3aRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required, validation.Length(1, 2000)),
		validation.Field(&req.Sport, validation.Required),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.EndTime, validation.Required),
		validation.Field(&req.MaxParticipants, validation.Required, validation.Min(uint(1)), validation.Max(uint(1000))),
		validation.Field(&req.Difficulty, validation.Required),
	)
}

type UpdateTal3aRequest struct {
	Title            *string          `json:"title,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Location         *LocationPayload `json:"location,omitempty"`
	StartTime        *time.Time       `json:"start_time,omitempty"`
	EndTime          *time.Time       `json:"end_time,omitempty"`
	MaxParticipants  *uint            `json:"max_participants,omitempty"`
	Difficulty       *string          `json:"difficulty_level,omitempty"`
	EntryFee         *uint64          `json:"entry_fee,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	Tags             *[]string        `json:"tags,omitempty"`
	ContactInfo      *string          `json:"contact_info,omitempty"`
	EmergencyContact *string          `json:"emergency_contact,omitempty"`
}

func (req *UpdateTal3aRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(1, 2000)),
	)
}

type UpdateTal3aStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (req *UpdateTal3aStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
	)
}

type JoinTal3aRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (req *JoinTal3aRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type UpdateParticipantStatusRequest struct {
	UserID        string  `json:"user_id" binding:"required"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

func (req *UpdateParticipantStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}
