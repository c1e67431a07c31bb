package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

// fakeReviewRepo mirrors the real repository's behavior of refreshing
// the event's rating aggregates together with every review write.
type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  uint64
	reviews map[uint64]domain.Review
	tal3as  *fakeTal3aRepo
}

func newFakeReviewRepo(tal3as *fakeTal3aRepo) *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: make(map[uint64]domain.Review),
		tal3as:  tal3as,
	}
}

func (f *fakeReviewRepo) Create(_ context.Context, review domain.Review) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.reviews {
		if existing.Tal3aID == review.Tal3aID && existing.ReviewerID == review.ReviewerID {
			return domain.Review{}, repository.ErrDuplicateReview
		}
	}

	f.nextID++
	review.ID = f.nextID
	f.reviews[review.ID] = review
	f.recalc(review.Tal3aID)

	return review, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review domain.Review) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.reviews[review.ID]; !ok {
		return domain.Review{}, repository.ErrReviewNotFound
	}
	f.reviews[review.ID] = review
	f.recalc(review.Tal3aID)

	return review, nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	delete(f.reviews, id)
	f.recalc(review.Tal3aID)

	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id uint64) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return domain.Review{}, repository.ErrReviewNotFound
	}

	return review, nil
}

func (f *fakeReviewRepo) FindByTal3a(_ context.Context, tal3aID uint64) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Review
	for _, r := range f.reviews {
		if r.Tal3aID == tal3aID {
			result = append(result, r)
		}
	}

	return result, nil
}

func (f *fakeReviewRepo) FindByReviewer(_ context.Context, principal string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Review
	for _, r := range f.reviews {
		if r.ReviewerID == principal {
			result = append(result, r)
		}
	}

	return result, nil
}

func (f *fakeReviewRepo) IncrementHelpful(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	review.HelpfulCount++
	f.reviews[id] = review

	return nil
}

func (f *fakeReviewRepo) IncrementReported(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	review, ok := f.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	review.ReportedCount++
	f.reviews[id] = review

	return nil
}

func (f *fakeReviewRepo) recalc(tal3aID uint64) {
	var ratings []uint8
	for _, r := range f.reviews {
		if r.Tal3aID == tal3aID {
			ratings = append(ratings, r.Rating)
		}
	}

	f.tal3as.mu.Lock()
	defer f.tal3as.mu.Unlock()

	tal3a, ok := f.tal3as.tal3as[tal3aID]
	if !ok {
		return
	}
	tal3a.ReviewsCount = uint(len(ratings))
	tal3a.AverageRating = domain.AverageRating(ratings)
	f.tal3as.tal3as[tal3aID] = tal3a
}

// completedTal3a creates an event, joins the given participants and
// marks it Completed.
func completedTal3a(t *testing.T, repo *fakeTal3aRepo, participants ...string) domain.Tal3a {
	t.Helper()
	ctx := context.Background()

	tal3aSvc := NewTal3aService(repo)
	participantSvc := NewParticipantService(repo)

	created, err := tal3aSvc.CreateTal3a(ctx, "alice", validTal3a("alice"))
	require.NoError(t, err)

	for _, p := range participants {
		_, _, err = participantSvc.JoinTal3a(ctx, p, created.ID, nil)
		require.NoError(t, err)
	}

	require.NoError(t, tal3aSvc.UpdateTal3aStatus(ctx, "alice", created.ID, domain.StatusCompleted))

	updated, err := tal3aSvc.GetTal3a(ctx, created.ID)
	require.NoError(t, err)

	return updated
}

func TestCreateReview(t *testing.T) {
	ctx := context.Background()

	t.Run("participant reviews a completed event", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3a := completedTal3a(t, tal3as, "bob")

		created, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 4})
		require.NoError(t, err)

		assert.Equal(t, "bob", created.ReviewerID)
		assert.True(t, created.IsVerified)
		assert.Equal(t, uint8(4), created.OrganizationRating)
		assert.Equal(t, uint8(4), created.VenueRating)
		assert.Equal(t, uint8(4), created.ValueRating)
	})

	t.Run("average rating is the one-decimal mean", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3aSvc := NewTal3aService(tal3as)
		tal3a := completedTal3a(t, tal3as, "bob", "carol")

		_, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 4})
		require.NoError(t, err)
		_, err = svc.CreateReview(ctx, "carol", domain.Review{Tal3aID: tal3a.ID, Rating: 5})
		require.NoError(t, err)

		found, err := tal3aSvc.GetTal3a(ctx, tal3a.ID)
		require.NoError(t, err)
		assert.Equal(t, "4.5", found.AverageRating)
		assert.Equal(t, uint(2), found.ReviewsCount)
	})

	t.Run("rating outside one to five is rejected", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3a := completedTal3a(t, tal3as, "bob")

		_, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 6})

		var ve ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Rating must be between 1 and 5", ve.Error())
	})

	t.Run("non-participants cannot review", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3a := completedTal3a(t, tal3as, "bob")

		_, err := svc.CreateReview(ctx, "mallory", domain.Review{Tal3aID: tal3a.ID, Rating: 5})
		assert.ErrorIs(t, err, ErrReviewNotAllowed)
	})

	t.Run("non-participants get the authorization error even with a bad rating", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3a := completedTal3a(t, tal3as, "bob")

		_, err := svc.CreateReview(ctx, "mallory", domain.Review{Tal3aID: tal3a.ID, Rating: 6})
		assert.ErrorIs(t, err, ErrReviewNotAllowed)
	})

	t.Run("participants can review before completion", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3aSvc := NewTal3aService(tal3as)
		participantSvc := NewParticipantService(tal3as)

		created, err := tal3aSvc.CreateTal3a(context.Background(), "alice", validTal3a("alice"))
		require.NoError(t, err)
		_, _, err = participantSvc.JoinTal3a(ctx, "bob", created.ID, nil)
		require.NoError(t, err)

		review, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: created.ID, Rating: 5})
		require.NoError(t, err)
		assert.Equal(t, "bob", review.ReviewerID)
	})

	t.Run("one review per participant", func(t *testing.T) {
		tal3as := newFakeTal3aRepo()
		svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
		tal3a := completedTal3a(t, tal3as, "bob")

		_, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 4})
		require.NoError(t, err)

		_, err = svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 5})
		assert.ErrorIs(t, err, ErrDuplicateReview)
	})
}

func TestUpdateReview(t *testing.T) {
	ctx := context.Background()
	tal3as := newFakeTal3aRepo()
	tal3aSvc := NewTal3aService(tal3as)
	svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
	tal3a := completedTal3a(t, tal3as, "bob", "carol")

	created, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 2})
	require.NoError(t, err)

	t.Run("only the author can update", func(t *testing.T) {
		five := uint8(5)
		_, err := svc.UpdateReview(ctx, "carol", created.ID, domain.ReviewUpdate{Rating: &five})
		assert.ErrorIs(t, err, ErrNotReviewer)
	})

	t.Run("update refreshes the average", func(t *testing.T) {
		four := uint8(4)
		updated, err := svc.UpdateReview(ctx, "bob", created.ID, domain.ReviewUpdate{Rating: &four})
		require.NoError(t, err)
		assert.Equal(t, uint8(4), updated.Rating)

		found, err := tal3aSvc.GetTal3a(ctx, tal3a.ID)
		require.NoError(t, err)
		assert.Equal(t, "4.0", found.AverageRating)
	})
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	tal3as := newFakeTal3aRepo()
	tal3aSvc := NewTal3aService(tal3as)
	svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
	tal3a := completedTal3a(t, tal3as, "bob", "carol")

	first, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 2})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, "carol", domain.Review{Tal3aID: tal3a.ID, Rating: 5})
	require.NoError(t, err)

	t.Run("only the author can delete", func(t *testing.T) {
		err := svc.DeleteReview(ctx, "carol", first.ID)
		assert.ErrorIs(t, err, ErrNotReviewer)
	})

	t.Run("delete recomputes the aggregates", func(t *testing.T) {
		require.NoError(t, svc.DeleteReview(ctx, "bob", first.ID))

		found, err := tal3aSvc.GetTal3a(ctx, tal3a.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(1), found.ReviewsCount)
		assert.Equal(t, "5.0", found.AverageRating)
	})
}

func TestMarkHelpfulAndReport(t *testing.T) {
	ctx := context.Background()
	tal3as := newFakeTal3aRepo()
	svc := NewReviewService(newFakeReviewRepo(tal3as), tal3as)
	tal3a := completedTal3a(t, tal3as, "bob")

	created, err := svc.CreateReview(ctx, "bob", domain.Review{Tal3aID: tal3a.ID, Rating: 5})
	require.NoError(t, err)

	require.NoError(t, svc.MarkHelpful(ctx, created.ID))
	require.NoError(t, svc.ReportReview(ctx, created.ID))

	found, err := svc.GetReview(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), found.HelpfulCount)
	assert.Equal(t, uint64(1), found.ReportedCount)

	assert.ErrorIs(t, svc.MarkHelpful(ctx, 999), ErrReviewNotFound)
}
