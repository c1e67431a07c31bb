package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tal3a-app/tal3a-api/internal/domain"
)

func TestJoinTal3a(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, maxParticipants uint, entryFee uint64) (*ParticipantService, *Tal3aService, domain.Tal3a) {
		t.Helper()

		repo := newFakeTal3aRepo()
		tal3aSvc := NewTal3aService(repo)
		svc := NewParticipantService(repo)

		input := validTal3a("alice")
		input.MaxParticipants = maxParticipants
		input.EntryFee = entryFee

		created, err := tal3aSvc.CreateTal3a(ctx, "alice", input)
		require.NoError(t, err)

		return svc, tal3aSvc, created
	}

	t.Run("joins and keeps the counter equal to the participant list", func(t *testing.T) {
		svc, _, tal3a := setup(t, 10, 5000)

		updated, waitlisted, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)

		assert.False(t, waitlisted)
		require.Len(t, updated.Participants, 1)
		assert.Equal(t, uint(len(updated.Participants)), updated.CurrentParticipants)
		assert.Equal(t, "bob", updated.Participants[0].UserID)
		assert.Equal(t, domain.ParticipantConfirmed, updated.Participants[0].Status)
		assert.Equal(t, domain.PaymentPending, updated.Participants[0].PaymentStatus)
	})

	t.Run("free events need no payment", func(t *testing.T) {
		svc, _, tal3a := setup(t, 10, 0)

		updated, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentNotRequired, updated.Participants[0].PaymentStatus)
	})

	t.Run("organizer cannot join their own event", func(t *testing.T) {
		svc, _, tal3a := setup(t, 10, 0)

		_, _, err := svc.JoinTal3a(ctx, "alice", tal3a.ID, nil)
		require.ErrorIs(t, err, ErrOrganizerCannotJoin)
		assert.Contains(t, err.Error(), "Organizers cannot join their own Tal3a")
	})

	t.Run("joining twice is rejected", func(t *testing.T) {
		svc, _, tal3a := setup(t, 10, 0)

		_, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)

		_, _, err = svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("full event sends joiners to the waitlist in order", func(t *testing.T) {
		svc, _, tal3a := setup(t, 1, 0)

		updated, waitlisted, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)
		require.False(t, waitlisted)
		require.Equal(t, uint(1), updated.CurrentParticipants)

		updated, waitlisted, err = svc.JoinTal3a(ctx, "carol", tal3a.ID, nil)
		require.NoError(t, err)
		assert.True(t, waitlisted)
		assert.Equal(t, uint(1), updated.CurrentParticipants)
		require.Len(t, updated.Participants, 1)

		updated, waitlisted, err = svc.JoinTal3a(ctx, "dave", tal3a.ID, nil)
		require.NoError(t, err)
		assert.True(t, waitlisted)
		assert.Equal(t, []string{"carol", "dave"}, updated.Waitlist)
	})

	t.Run("waitlisted user cannot join again", func(t *testing.T) {
		svc, _, tal3a := setup(t, 1, 0)

		_, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)
		_, _, err = svc.JoinTal3a(ctx, "carol", tal3a.ID, nil)
		require.NoError(t, err)

		_, _, err = svc.JoinTal3a(ctx, "carol", tal3a.ID, nil)
		assert.ErrorIs(t, err, ErrAlreadyWaitlisted)
	})

	t.Run("cancelled events reject joins", func(t *testing.T) {
		svc, tal3aSvc, tal3a := setup(t, 10, 0)

		require.NoError(t, tal3aSvc.UpdateTal3aStatus(ctx, "alice", tal3a.ID, domain.StatusCancelled))

		_, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		assert.ErrorIs(t, err, ErrTal3aNotJoinable)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _, _ := setup(t, 10, 0)

		_, _, err := svc.JoinTal3a(ctx, "bob", 999, nil)
		assert.ErrorIs(t, err, ErrTal3aNotFound)
	})
}

func TestLeaveTal3a(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, maxParticipants uint) (*ParticipantService, domain.Tal3a) {
		t.Helper()

		repo := newFakeTal3aRepo()
		tal3aSvc := NewTal3aService(repo)
		svc := NewParticipantService(repo)

		input := validTal3a("alice")
		input.MaxParticipants = maxParticipants

		created, err := tal3aSvc.CreateTal3a(ctx, "alice", input)
		require.NoError(t, err)

		return svc, created
	}

	t.Run("promotes the first waitlisted user when a spot frees up", func(t *testing.T) {
		svc, tal3a := setup(t, 1)

		_, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)
		_, _, err = svc.JoinTal3a(ctx, "carol", tal3a.ID, nil)
		require.NoError(t, err)
		_, _, err = svc.JoinTal3a(ctx, "dave", tal3a.ID, nil)
		require.NoError(t, err)

		updated, err := svc.LeaveTal3a(ctx, "bob", tal3a.ID)
		require.NoError(t, err)

		require.Len(t, updated.Participants, 1)
		assert.Equal(t, "carol", updated.Participants[0].UserID)
		assert.Equal(t, []string{"dave"}, updated.Waitlist)
		assert.Equal(t, uint(1), updated.CurrentParticipants)
	})

	t.Run("waitlisted user leaves the waitlist only", func(t *testing.T) {
		svc, tal3a := setup(t, 1)

		_, _, err := svc.JoinTal3a(ctx, "bob", tal3a.ID, nil)
		require.NoError(t, err)
		_, _, err = svc.JoinTal3a(ctx, "carol", tal3a.ID, nil)
		require.NoError(t, err)

		updated, err := svc.LeaveTal3a(ctx, "carol", tal3a.ID)
		require.NoError(t, err)

		assert.Empty(t, updated.Waitlist)
		require.Len(t, updated.Participants, 1)
		assert.Equal(t, "bob", updated.Participants[0].UserID)
	})

	t.Run("non-participant cannot leave", func(t *testing.T) {
		svc, tal3a := setup(t, 10)

		_, err := svc.LeaveTal3a(ctx, "mallory", tal3a.ID)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("organizer cannot leave", func(t *testing.T) {
		svc, tal3a := setup(t, 10)

		_, err := svc.LeaveTal3a(ctx, "alice", tal3a.ID)
		assert.ErrorIs(t, err, ErrOrganizerCannotLeave)
	})
}

func TestUpdateParticipantStatus(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTal3aRepo()
	tal3aSvc := NewTal3aService(repo)
	svc := NewParticipantService(repo)

	created, err := tal3aSvc.CreateTal3a(ctx, "alice", validTal3a("alice"))
	require.NoError(t, err)

	_, _, err = svc.JoinTal3a(ctx, "bob", created.ID, nil)
	require.NoError(t, err)

	t.Run("organizer marks payment received", func(t *testing.T) {
		paid := domain.PaymentPaid
		updated, err := svc.UpdateParticipantStatus(ctx, "alice", created.ID, "bob", nil, &paid)
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentPaid, updated.Participants[0].PaymentStatus)
	})

	t.Run("non-organizer is rejected", func(t *testing.T) {
		cancelled := domain.ParticipantCancelled
		_, err := svc.UpdateParticipantStatus(ctx, "mallory", created.ID, "bob", &cancelled, nil)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("unknown participant", func(t *testing.T) {
		cancelled := domain.ParticipantCancelled
		_, err := svc.UpdateParticipantStatus(ctx, "alice", created.ID, "nobody", &cancelled, nil)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("invalid status value", func(t *testing.T) {
		bogus := domain.ParticipantStatus("Ghosted")
		_, err := svc.UpdateParticipantStatus(ctx, "alice", created.ID, "bob", &bogus, nil)

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
