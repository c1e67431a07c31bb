package domain

import (
	"fmt"
	"time"
)

// Review ratings are whole stars in [1,5]. The three sub-ratings default
// to the overall rating when the reviewer does not provide them.
type Review struct {
	ID                 uint64    `json:"id"`
	Tal3aID            uint64    `json:"tal3a_id"`
	ReviewerID         string    `json:"reviewer_id"`
	Rating             uint8     `json:"rating"`
	Comment            *string   `json:"comment,omitempty"`
	OrganizationRating uint8     `json:"organization_rating"`
	VenueRating        uint8     `json:"venue_rating"`
	ValueRating        uint8     `json:"value_rating"`
	IsVerified         bool      `json:"is_verified"`
	HelpfulCount       uint64    `json:"helpful_count"`
	ReportedCount      uint64    `json:"reported_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ReviewUpdate carries optional overwrites; nil leaves a field unchanged.
type ReviewUpdate struct {
	Rating             *uint8
	Comment            *string
	OrganizationRating *uint8
	VenueRating        *uint8
	ValueRating        *uint8
}

// AverageRating formats the arithmetic mean of ratings to one decimal
// place, matching the stored string form ("0.0" for an empty set).
func AverageRating(ratings []uint8) string {
	if len(ratings) == 0 {
		return "0.0"
	}

	var sum uint64
	for _, r := range ratings {
		sum += uint64(r)
	}

	return fmt.Sprintf("%.1f", float64(sum)/float64(len(ratings)))
}
