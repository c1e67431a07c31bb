package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("duplicate review")
)

type Review struct {
	ID                 uint64 `gorm:"primaryKey"`
	Tal3aID            uint64 `gorm:"not null;uniqueIndex:idx_tal3a_reviewer"`
	ReviewerID         string `gorm:"not null;uniqueIndex:idx_tal3a_reviewer"`
	Rating             uint8  `gorm:"not null"`
	Comment            *string
	OrganizationRating uint8  `gorm:"not null"`
	VenueRating        uint8  `gorm:"not null"`
	ValueRating        uint8  `gorm:"not null"`
	IsVerified         bool   `gorm:"not null;default:false"`
	HelpfulCount       uint64 `gorm:"not null;default:0"`
	ReportedCount      uint64 `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type ReviewDAO struct {
	db *gorm.DB
}

func NewReviewDAO(db *gorm.DB) *ReviewDAO {
	return &ReviewDAO{
		db: db,
	}
}

// Insert creates the review and refreshes the event's rating aggregates
// in the same transaction, so readers never observe a review without its
// effect on the average.
func (d *ReviewDAO) Insert(ctx context.Context, review Review) (Review, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrDuplicateReview
			}

			return err
		}

		return recalcRating(tx, review.Tal3aID)
	})
	if err != nil {
		return Review{}, err
	}

	return review, nil
}

func (d *ReviewDAO) Update(ctx context.Context, review Review) (Review, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Review{}).
			Where("id = ?", review.ID).
			Updates(map[string]interface{}{
				"rating":              review.Rating,
				"comment":             review.Comment,
				"organization_rating": review.OrganizationRating,
				"venue_rating":        review.VenueRating,
				"value_rating":        review.ValueRating,
				"updated_at":          review.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}

		return recalcRating(tx, review.Tal3aID)
	})
	if err != nil {
		return Review{}, err
	}

	return review, nil
}

func (d *ReviewDAO) Delete(ctx context.Context, id uint64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}

			return err
		}

		if err := tx.Delete(&Review{}, id).Error; err != nil {
			return err
		}

		return recalcRating(tx, review.Tal3aID)
	})
}

func (d *ReviewDAO) FindByID(ctx context.Context, id uint64) (Review, error) {
	var review Review

	result := d.db.WithContext(ctx).First(&review, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Review{}, ErrReviewNotFound
		}

		return Review{}, result.Error
	}

	return review, nil
}

func (d *ReviewDAO) FindByTal3a(ctx context.Context, tal3aID uint64) ([]Review, error) {
	var reviews []Review

	result := d.db.WithContext(ctx).
		Where("tal3a_id = ?", tal3aID).
		Order("created_at DESC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

func (d *ReviewDAO) FindByReviewer(ctx context.Context, principal string) ([]Review, error) {
	var reviews []Review

	result := d.db.WithContext(ctx).
		Where("reviewer_id = ?", principal).
		Order("created_at DESC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

func (d *ReviewDAO) IncrementHelpful(ctx context.Context, id uint64) error {
	return d.incrementCounter(ctx, id, "helpful_count")
}

func (d *ReviewDAO) IncrementReported(ctx context.Context, id uint64) error {
	return d.incrementCounter(ctx, id, "reported_count")
}

func (d *ReviewDAO) incrementCounter(ctx context.Context, id uint64, column string) error {
	result := d.db.WithContext(ctx).
		Model(&Review{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// recalcRating rewrites reviews_count and average_rating on the event
// from the surviving review rows, holding the event row lock for the
// rest of the transaction.
func recalcRating(tx *gorm.DB, tal3aID uint64) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&Tal3a{}, tal3aID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTal3aNotFound
		}

		return err
	}

	var ratings []uint8
	if err := tx.Model(&Review{}).
		Where("tal3a_id = ?", tal3aID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	average := "0.0"
	if len(ratings) > 0 {
		var sum uint64
		for _, r := range ratings {
			sum += uint64(r)
		}
		average = fmt.Sprintf("%.1f", float64(sum)/float64(len(ratings)))
	}

	return tx.Model(&Tal3a{}).
		Where("id = ?", tal3aID).
		Updates(map[string]interface{}{
			"reviews_count":  len(ratings),
			"average_rating": average,
			"updated_at":     time.Now(),
		}).Error
}
