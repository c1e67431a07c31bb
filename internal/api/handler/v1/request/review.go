package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateReviewRequest struct {
	Rating             uint8   `json:"rating" binding:"required"`
	Comment            *string `json:"comment,omitempty"`
	OrganizationRating uint8   `json:"organization_rating"`
	VenueRating        uint8   `json:"venue_rating"`
	ValueRating        uint8   `json:"value_rating"`
}

func (req *CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Rating, validation.Required, validation.Min(uint8(1)), validation.Max(uint8(5))),
		validation.Field(&req.Comment, validation.Length(0, 1000)),
		validation.Field(&req.OrganizationRating, validation.Max(uint8(5))),
		validation.Field(&req.VenueRating, validation.Max(uint8(5))),
		validation.Field(&req.ValueRating, validation.Max(uint8(5))),
	)
}

type UpdateReviewRequest struct {
	Rating             *uint8  `json:"rating,omitempty"`
	Comment            *string `json:"comment,omitempty"`
	OrganizationRating *uint8  `json:"organization_rating,omitempty"`
	VenueRating        *uint8  `json:"venue_rating,omitempty"`
	ValueRating        *uint8  `json:"value_rating,omitempty"`
}

func (req *UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Comment, validation.Length(0, 1000)),
	)
}
