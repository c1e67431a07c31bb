package repository

import (
	"context"
	"fmt"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository/dao"
)

var (
	ErrReviewNotFound  = dao.ErrReviewNotFound
	ErrDuplicateReview = dao.ErrDuplicateReview
)

type ReviewDAO interface {
	Insert(ctx context.Context, review dao.Review) (dao.Review, error)
	Update(ctx context.Context, review dao.Review) (dao.Review, error)
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (dao.Review, error)
	FindByTal3a(ctx context.Context, tal3aID uint64) ([]dao.Review, error)
	FindByReviewer(ctx context.Context, principal string) ([]dao.Review, error)
	IncrementHelpful(ctx context.Context, id uint64) error
	IncrementReported(ctx context.Context, id uint64) error
}

type ReviewRepository struct {
	dao ReviewDAO
}

func NewReviewRepository(dao ReviewDAO) *ReviewRepository {
	return &ReviewRepository{
		dao: dao,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(review))
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(review))
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint64) (domain.Review, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReviewRepository) FindByTal3a(ctx context.Context, tal3aID uint64) ([]domain.Review, error) {
	found, err := r.dao.FindByTal3a(ctx, tal3aID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByTal3a -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *ReviewRepository) FindByReviewer(ctx context.Context, principal string) ([]domain.Review, error) {
	found, err := r.dao.FindByReviewer(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByReviewer -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id uint64) error {
	if err := r.dao.IncrementHelpful(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementHelpful -> %w", err)
	}

	return nil
}

func (r *ReviewRepository) IncrementReported(ctx context.Context, id uint64) error {
	if err := r.dao.IncrementReported(ctx, id); err != nil {
		return fmt.Errorf("r.dao.IncrementReported -> %w", err)
	}

	return nil
}

func (r *ReviewRepository) daoToDomain(rv dao.Review) domain.Review {
	return domain.Review{
		ID:                 rv.ID,
		Tal3aID:            rv.Tal3aID,
		ReviewerID:         rv.ReviewerID,
		Rating:             rv.Rating,
		Comment:            rv.Comment,
		OrganizationRating: rv.OrganizationRating,
		VenueRating:        rv.VenueRating,
		ValueRating:        rv.ValueRating,
		IsVerified:         rv.IsVerified,
		HelpfulCount:       rv.HelpfulCount,
		ReportedCount:      rv.ReportedCount,
		CreatedAt:          rv.CreatedAt,
		UpdatedAt:          rv.UpdatedAt,
	}
}

func (r *ReviewRepository) daoToDomainSlice(reviews []dao.Review) []domain.Review {
	result := make([]domain.Review, 0, len(reviews))
	for _, rv := range reviews {
		result = append(result, r.daoToDomain(rv))
	}

	return result
}

func (r *ReviewRepository) domainToDAO(rv domain.Review) dao.Review {
	return dao.Review{
		ID:                 rv.ID,
		Tal3aID:            rv.Tal3aID,
		ReviewerID:         rv.ReviewerID,
		Rating:             rv.Rating,
		Comment:            rv.Comment,
		OrganizationRating: rv.OrganizationRating,
		VenueRating:        rv.VenueRating,
		ValueRating:        rv.ValueRating,
		IsVerified:         rv.IsVerified,
		HelpfulCount:       rv.HelpfulCount,
		ReportedCount:      rv.ReportedCount,
		CreatedAt:          rv.CreatedAt,
		UpdatedAt:          rv.UpdatedAt,
	}
}
