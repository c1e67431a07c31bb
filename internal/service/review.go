package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

var (
	ErrReviewNotFound   = repository.ErrReviewNotFound
	ErrDuplicateReview  = repository.ErrDuplicateReview
	ErrNotReviewer      = errors.New("only the author can modify this review")
	ErrReviewNotAllowed = errors.New("Only participants can review a Tal3a")
)

const maxCommentLength = 1000

type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) (domain.Review, error)
	Update(ctx context.Context, review domain.Review) (domain.Review, error)
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (domain.Review, error)
	FindByTal3a(ctx context.Context, tal3aID uint64) ([]domain.Review, error)
	FindByReviewer(ctx context.Context, principal string) ([]domain.Review, error)
	IncrementHelpful(ctx context.Context, id uint64) error
	IncrementReported(ctx context.Context, id uint64) error
}

type ReviewService struct {
	repo      ReviewRepository
	tal3aRepo Tal3aRepository
}

func NewReviewService(repo ReviewRepository, tal3aRepo Tal3aRepository) *ReviewService {
	return &ReviewService{
		repo:      repo,
		tal3aRepo: tal3aRepo,
	}
}

// CreateReview accepts one review per participant per event.
// Participation is checked before anything about the payload, so
// outsiders always get an authorization error. Sub-ratings default to
// the overall rating when omitted.
func (s *ReviewService) CreateReview(ctx context.Context, principal string, review domain.Review) (domain.Review, error) {
	tal3a, err := s.tal3aRepo.FindByID(ctx, review.Tal3aID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.tal3aRepo.FindByID -> %w", err)
	}

	if !tal3a.IsParticipant(principal) {
		return domain.Review{}, ErrReviewNotAllowed
	}

	// The unique index still backstops a concurrent submit.
	existing, err := s.repo.FindByTal3a(ctx, review.Tal3aID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.FindByTal3a -> %w", err)
	}
	for i := range existing {
		if existing[i].ReviewerID == principal {
			return domain.Review{}, ErrDuplicateReview
		}
	}

	if err := validateReview(&review); err != nil {
		return domain.Review{}, err
	}

	now := time.Now()
	review.ReviewerID = principal
	review.IsVerified = true
	review.HelpfulCount = 0
	review.ReportedCount = 0
	review.CreatedAt = now
	review.UpdatedAt = now

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, principal string, id uint64, update domain.ReviewUpdate) (domain.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if review.ReviewerID != principal {
		return domain.Review{}, ErrNotReviewer
	}

	if update.Rating != nil {
		review.Rating = *update.Rating
	}
	if update.Comment != nil {
		review.Comment = update.Comment
	}
	if update.OrganizationRating != nil {
		review.OrganizationRating = *update.OrganizationRating
	}
	if update.VenueRating != nil {
		review.VenueRating = *update.VenueRating
	}
	if update.ValueRating != nil {
		review.ValueRating = *update.ValueRating
	}

	if err := validateReview(&review); err != nil {
		return domain.Review{}, err
	}
	review.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, principal string, id uint64) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if review.ReviewerID != principal {
		return ErrNotReviewer
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ReviewService) GetReview(ctx context.Context, id uint64) (domain.Review, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return found, nil
}

func (s *ReviewService) GetTal3aReviews(ctx context.Context, tal3aID uint64) ([]domain.Review, error) {
	if _, err := s.tal3aRepo.FindByID(ctx, tal3aID); err != nil {
		return nil, fmt.Errorf("s.tal3aRepo.FindByID -> %w", err)
	}

	found, err := s.repo.FindByTal3a(ctx, tal3aID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByTal3a -> %w", err)
	}

	return found, nil
}

func (s *ReviewService) GetMyReviews(ctx context.Context, principal string) ([]domain.Review, error) {
	found, err := s.repo.FindByReviewer(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByReviewer -> %w", err)
	}

	return found, nil
}

func (s *ReviewService) MarkHelpful(ctx context.Context, id uint64) error {
	if err := s.repo.IncrementHelpful(ctx, id); err != nil {
		return fmt.Errorf("s.repo.IncrementHelpful -> %w", err)
	}

	return nil
}

func (s *ReviewService) ReportReview(ctx context.Context, id uint64) error {
	if err := s.repo.IncrementReported(ctx, id); err != nil {
		return fmt.Errorf("s.repo.IncrementReported -> %w", err)
	}

	return nil
}

func validateReview(review *domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return NewValidationError("Rating must be between 1 and 5")
	}
	if review.Comment != nil && len(*review.Comment) > maxCommentLength {
		return NewValidationError("Comment cannot exceed 1000 characters")
	}

	if review.OrganizationRating == 0 {
		review.OrganizationRating = review.Rating
	}
	if review.VenueRating == 0 {
		review.VenueRating = review.Rating
	}
	if review.ValueRating == 0 {
		review.ValueRating = review.Rating
	}

	for _, r := range []uint8{review.OrganizationRating, review.VenueRating, review.ValueRating} {
		if r < 1 || r > 5 {
			return NewValidationError("Sub-ratings must be between 1 and 5")
		}
	}

	return nil
}
