package domain

import "time"

type Sport string

const (
	SportFootball   Sport = "Football"
	SportBasketball Sport = "Basketball"
	SportTennis     Sport = "Tennis"
	SportCycling    Sport = "Cycling"
	SportRunning    Sport = "Running"
	SportSwimming   Sport = "Swimming"
)

type Tal3aStatus string

const (
	StatusPlanned   Tal3aStatus = "Planned"
	StatusActive    Tal3aStatus = "Active"
	StatusCompleted Tal3aStatus = "Completed"
	StatusCancelled Tal3aStatus = "Cancelled"
	StatusPostponed Tal3aStatus = "Postponed"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "Beginner"
	DifficultyIntermediate DifficultyLevel = "Intermediate"
	DifficultyAdvanced     DifficultyLevel = "Advanced"
	DifficultyProfessional DifficultyLevel = "Professional"
)

// Location coordinates are kept as strings to preserve the exact
// precision the client submitted.
type Location struct {
	Latitude      string  `json:"latitude"`
	Longitude     string  `json:"longitude"`
	Address       string  `json:"address"`
	CityID        uint16  `json:"city_id"`
	GovernorateID uint8   `json:"governorate_id"`
	VenueName     *string `json:"venue_name,omitempty"`
	VenueType     *string `json:"venue_type,omitempty"`
}

// Tal3a is a user-organized sports outing. The participant list, the
// waitlist and the rating aggregates are owned by the event record and
// only ever mutated together with it.
type Tal3a struct {
	ID                  uint64          `json:"id"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Sport               Sport           `json:"sport"`
	OrganizerID         string          `json:"organizer_id"`
	GroupID             *uint64         `json:"group_id,omitempty"`
	Location            Location        `json:"location"`
	StartTime           time.Time       `json:"start_time"`
	EndTime             time.Time       `json:"end_time"`
	MaxParticipants     uint            `json:"max_participants"`
	CurrentParticipants uint            `json:"current_participants"`
	Participants        []Participant   `json:"participants"`
	Waitlist            []string        `json:"waitlist"`
	Status              Tal3aStatus     `json:"status"`
	Difficulty          DifficultyLevel `json:"difficulty_level"`
	EntryFee            uint64          `json:"entry_fee"` // in piasters
	Currency            string          `json:"currency"`
	Tags                []string        `json:"tags"`
	ContactInfo         *string         `json:"contact_info,omitempty"`
	EmergencyContact    *string         `json:"emergency_contact,omitempty"`
	ReviewsCount        uint            `json:"reviews_count"`
	AverageRating       string          `json:"average_rating"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (t *Tal3a) IsOrganizer(principal string) bool {
	return t.OrganizerID == principal
}

func (t *Tal3a) IsParticipant(principal string) bool {
	for _, p := range t.Participants {
		if p.UserID == principal {
			return true
		}
	}

	return false
}

func (t *Tal3a) IsWaitlisted(principal string) bool {
	for _, w := range t.Waitlist {
		if w == principal {
			return true
		}
	}

	return false
}

func (t *Tal3a) IsFull() bool {
	return t.CurrentParticipants >= t.MaxParticipants
}

// Joinable reports whether the event still accepts joins at all;
// capacity is handled separately through the waitlist.
func (t *Tal3a) Joinable() bool {
	return t.Status != StatusCompleted && t.Status != StatusCancelled
}

// Tal3aUpdate carries optional field-by-field overwrites. Nil means
// "leave unchanged".
type Tal3aUpdate struct {
	Title            *string
	Description      *string
	Location         *Location
	StartTime        *time.Time
	EndTime          *time.Time
	MaxParticipants  *uint
	Difficulty       *DifficultyLevel
	EntryFee         *uint64
	Currency         *string
	Tags             *[]string
	ContactInfo      *string
	EmergencyContact *string
}

// Tal3aFilter narrows ListTal3as. Nil fields match everything.
type Tal3aFilter struct {
	Sport         *Sport
	CityID        *uint16
	GovernorateID *uint8
	Status        *Tal3aStatus
	Difficulty    *DifficultyLevel
	StartDate     *time.Time
	EndDate       *time.Time
	MaxFee        *uint64
	OrganizerID   *string
	GroupID       *uint64
}

// Matches applies the filter against a single event. Date bounds apply
// to the event's start time.
func (f *Tal3aFilter) Matches(t *Tal3a) bool {
	if f == nil {
		return true
	}
	if f.Sport != nil && t.Sport != *f.Sport {
		return false
	}
	if f.CityID != nil && t.Location.CityID != *f.CityID {
		return false
	}
	if f.GovernorateID != nil && t.Location.GovernorateID != *f.GovernorateID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Difficulty != nil && t.Difficulty != *f.Difficulty {
		return false
	}
	if f.StartDate != nil && t.StartTime.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.StartTime.After(*f.EndDate) {
		return false
	}
	if f.MaxFee != nil && t.EntryFee > *f.MaxFee {
		return false
	}
	if f.OrganizerID != nil && t.OrganizerID != *f.OrganizerID {
		return false
	}
	if f.GroupID != nil && (t.GroupID == nil || *t.GroupID != *f.GroupID) {
		return false
	}

	return true
}
