package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTal3aNotFound = errors.New("tal3a not found")

type Tal3a struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Sport       string `gorm:"not null;index"`
	OrganizerID string `gorm:"not null;index"`
	GroupID     *uint64

	Latitude      string `gorm:"not null"`
	Longitude     string `gorm:"not null"`
	Address       string `gorm:"not null"`
	CityID        uint16 `gorm:"index"`
	GovernorateID uint8  `gorm:"index"`
	VenueName     *string
	VenueType     *string

	StartTime           time.Time `gorm:"not null"`
	EndTime             time.Time `gorm:"not null"`
	MaxParticipants     uint      `gorm:"not null"`
	CurrentParticipants uint      `gorm:"not null;default:0"`
	Status              string    `gorm:"not null;default:Planned"`
	Difficulty          string    `gorm:"not null"`

	EntryFee uint64   `gorm:"not null;default:0"`
	Currency string   `gorm:"not null;default:EGP"`
	Tags     []string `gorm:"serializer:json"`

	ContactInfo      *string
	EmergencyContact *string

	ReviewsCount  uint   `gorm:"not null;default:0"`
	AverageRating string `gorm:"not null;default:0.0"`

	Participants []Participant   `gorm:"foreignKey:Tal3aID"`
	Waitlist     []WaitlistEntry `gorm:"foreignKey:Tal3aID"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Participant struct {
	ID            uint64 `gorm:"primaryKey"`
	Tal3aID       uint64 `gorm:"not null;uniqueIndex:idx_tal3a_participant"`
	UserID        string `gorm:"not null;uniqueIndex:idx_tal3a_participant"`
	JoinedAt      time.Time
	Status        string `gorm:"not null"`
	PaymentStatus string `gorm:"not null"`
	Notes         *string
}

type WaitlistEntry struct {
	ID        uint64 `gorm:"primaryKey"`
	Tal3aID   uint64 `gorm:"not null;uniqueIndex:idx_tal3a_waitlisted"`
	UserID    string `gorm:"not null;uniqueIndex:idx_tal3a_waitlisted"`
	Position  uint   `gorm:"not null"`
	CreatedAt time.Time
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

type Tal3aDAO struct {
	db *gorm.DB
}

func NewTal3aDAO(db *gorm.DB) *Tal3aDAO {
	return &Tal3aDAO{
		db: db,
	}
}

func (d *Tal3aDAO) Insert(ctx context.Context, tal3a Tal3a) (Tal3a, error) {
	result := d.db.WithContext(ctx).Create(&tal3a)
	if result.Error != nil {
		return Tal3a{}, result.Error
	}

	return tal3a, nil
}

func (d *Tal3aDAO) FindByID(ctx context.Context, id uint64) (Tal3a, error) {
	var tal3a Tal3a

	result := d.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC, id ASC")
		}).
		Preload("Waitlist", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&tal3a, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Tal3a{}, ErrTal3aNotFound
		}

		return Tal3a{}, result.Error
	}

	return tal3a, nil
}

func (d *Tal3aDAO) FindAll(ctx context.Context) ([]Tal3a, error) {
	var tal3as []Tal3a

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Preload("Waitlist", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("start_time ASC").
		Find(&tal3as)
	if result.Error != nil {
		return nil, result.Error
	}

	return tal3as, nil
}

func (d *Tal3aDAO) FindByOrganizer(ctx context.Context, principal string) ([]Tal3a, error) {
	var tal3as []Tal3a

	result := d.db.WithContext(ctx).
		Preload("Participants").
		Preload("Waitlist").
		Where("organizer_id = ?", principal).
		Order("start_time ASC").
		Find(&tal3as)
	if result.Error != nil {
		return nil, result.Error
	}

	return tal3as, nil
}

func (d *Tal3aDAO) FindByParticipant(ctx context.Context, principal string) ([]Tal3a, error) {
	var tal3as []Tal3a

	result := d.db.WithContext(ctx).
		Joins("JOIN participants ON participants.tal3a_id = tal3as.id").
		Where("participants.user_id = ?", principal).
		Order("tal3as.start_time ASC").
		Find(&tal3as)
	if result.Error != nil {
		return nil, result.Error
	}

	return tal3as, nil
}

// Update persists the scalar columns of an existing event. Membership
// rows and the derived counters are owned by UpdateMembership and the
// review writes; saving them here would clobber a concurrent join or
// review with the caller's stale snapshot.
func (d *Tal3aDAO) Update(ctx context.Context, tal3a Tal3a) (Tal3a, error) {
	result := d.db.WithContext(ctx).
		Omit("Participants", "Waitlist", "CreatedAt",
			"CurrentParticipants", "ReviewsCount", "AverageRating").
		Save(&tal3a)
	if result.Error != nil {
		return Tal3a{}, result.Error
	}

	return tal3a, nil
}

func (d *Tal3aDAO) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Tal3a{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTal3aNotFound
	}

	return nil
}

func (d *Tal3aDAO) Delete(ctx context.Context, id uint64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tal3a_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tal3a_id = ?", id).Delete(&WaitlistEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tal3a_id = ?", id).Delete(&Review{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Tal3a{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTal3aNotFound
		}

		return nil
	})
}

// UpdateMembership runs mutate against the event and its membership rows
// while holding a row lock on the event, then rewrites the participant
// and waitlist sets and recomputes the participant counter from the
// actual participant list. Concurrent joins against the same event
// serialize on the lock instead of racing read-modify-write.
func (d *Tal3aDAO) UpdateMembership(ctx context.Context, id uint64, mutate func(*Tal3a) error) (Tal3a, error) {
	var updated Tal3a

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tal3a Tal3a
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tal3a, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTal3aNotFound
			}

			return err
		}

		if err := tx.Where("tal3a_id = ?", id).Order("joined_at ASC, id ASC").Find(&tal3a.Participants).Error; err != nil {
			return err
		}
		if err := tx.Where("tal3a_id = ?", id).Order("position ASC").Find(&tal3a.Waitlist).Error; err != nil {
			return err
		}

		if err := mutate(&tal3a); err != nil {
			return err
		}

		if err := tx.Where("tal3a_id = ?", id).Delete(&Participant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tal3a_id = ?", id).Delete(&WaitlistEntry{}).Error; err != nil {
			return err
		}

		for i := range tal3a.Participants {
			tal3a.Participants[i].ID = 0
			tal3a.Participants[i].Tal3aID = id
		}
		if len(tal3a.Participants) > 0 {
			if err := tx.Create(&tal3a.Participants).Error; err != nil {
				return err
			}
		}

		for i := range tal3a.Waitlist {
			tal3a.Waitlist[i].ID = 0
			tal3a.Waitlist[i].Tal3aID = id
			tal3a.Waitlist[i].Position = uint(i)
		}
		if len(tal3a.Waitlist) > 0 {
			if err := tx.Create(&tal3a.Waitlist).Error; err != nil {
				return err
			}
		}

		tal3a.CurrentParticipants = uint(len(tal3a.Participants))
		tal3a.UpdatedAt = time.Now()

		if err := tx.Model(&Tal3a{}).Where("id = ?", id).Updates(map[string]interface{}{
			"current_participants": tal3a.CurrentParticipants,
			"updated_at":           tal3a.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		updated = tal3a

		return nil
	})
	if err != nil {
		return Tal3a{}, err
	}

	return updated, nil
}
