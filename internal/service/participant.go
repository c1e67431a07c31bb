package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tal3a-app/tal3a-api/internal/domain"
)

var (
	ErrOrganizerCannotJoin  = errors.New("Organizers cannot join their own Tal3a")
	ErrOrganizerCannotLeave = errors.New("Organizers cannot leave their own Tal3a")
	ErrAlreadyJoined        = errors.New("Already joined this Tal3a")
	ErrAlreadyWaitlisted    = errors.New("Already on the waitlist for this Tal3a")
	ErrTal3aNotJoinable     = errors.New("This Tal3a is not accepting participants")
	ErrTal3aStarted         = errors.New("This Tal3a has already started")
	ErrNotParticipant       = errors.New("Not a participant of this Tal3a")
)

type ParticipantService struct {
	repo Tal3aRepository
}

func NewParticipantService(repo Tal3aRepository) *ParticipantService {
	return &ParticipantService{
		repo: repo,
	}
}

// JoinTal3a adds the caller to the event, or to the tail of the waitlist
// when the event is at capacity. The whole check-and-insert runs inside
// a single locked membership update, so two concurrent joins for the
// last spot cannot both land as participants.
func (s *ParticipantService) JoinTal3a(ctx context.Context, principal string, tal3aID uint64, notes *string) (domain.Tal3a, bool, error) {
	waitlisted := false

	updated, err := s.repo.UpdateMembership(ctx, tal3aID, func(t *domain.Tal3a) error {
		if t.IsOrganizer(principal) {
			return ErrOrganizerCannotJoin
		}
		if !t.Joinable() {
			return ErrTal3aNotJoinable
		}
		if !t.StartTime.After(time.Now()) {
			return ErrTal3aStarted
		}
		if t.IsParticipant(principal) {
			return ErrAlreadyJoined
		}
		if t.IsWaitlisted(principal) {
			return ErrAlreadyWaitlisted
		}

		if t.IsFull() {
			t.Waitlist = append(t.Waitlist, principal)
			waitlisted = true

			return nil
		}

		t.Participants = append(t.Participants, domain.NewParticipant(principal, t.EntryFee, notes, time.Now()))
		t.CurrentParticipants = uint(len(t.Participants))

		return nil
	})
	if err != nil {
		return domain.Tal3a{}, false, fmt.Errorf("s.repo.UpdateMembership -> %w", err)
	}

	return updated, waitlisted, nil
}

// LeaveTal3a removes the caller from the participant list or the
// waitlist. When a participant spot frees up, the head of the waitlist
// is promoted in the same update.
func (s *ParticipantService) LeaveTal3a(ctx context.Context, principal string, tal3aID uint64) (domain.Tal3a, error) {
	updated, err := s.repo.UpdateMembership(ctx, tal3aID, func(t *domain.Tal3a) error {
		if t.IsOrganizer(principal) {
			return ErrOrganizerCannotLeave
		}

		if t.IsWaitlisted(principal) {
			t.Waitlist = removePrincipal(t.Waitlist, principal)

			return nil
		}

		if !t.IsParticipant(principal) {
			return ErrNotParticipant
		}

		kept := make([]domain.Participant, 0, len(t.Participants)-1)
		for _, p := range t.Participants {
			if p.UserID != principal {
				kept = append(kept, p)
			}
		}
		t.Participants = kept
		t.CurrentParticipants = uint(len(t.Participants))

		if len(t.Waitlist) > 0 && !t.IsFull() {
			promoted := t.Waitlist[0]
			t.Waitlist = t.Waitlist[1:]
			t.Participants = append(t.Participants, domain.NewParticipant(promoted, t.EntryFee, nil, time.Now()))
			t.CurrentParticipants = uint(len(t.Participants))
		}

		return nil
	})
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.UpdateMembership -> %w", err)
	}

	return updated, nil
}

func (s *ParticipantService) GetParticipants(ctx context.Context, tal3aID uint64) ([]domain.Participant, error) {
	tal3a, err := s.repo.FindByID(ctx, tal3aID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return tal3a.Participants, nil
}

func (s *ParticipantService) GetWaitlist(ctx context.Context, tal3aID uint64) ([]string, error) {
	tal3a, err := s.repo.FindByID(ctx, tal3aID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return tal3a.Waitlist, nil
}

// UpdateParticipantStatus lets the organizer adjust a participant's
// attendance and payment state, e.g. marking payments received at the
// venue.
func (s *ParticipantService) UpdateParticipantStatus(ctx context.Context, principal string, tal3aID uint64, userID string, status *domain.ParticipantStatus, payment *domain.PaymentStatus) (domain.Tal3a, error) {
	if status != nil && !validParticipantStatus(*status) {
		return domain.Tal3a{}, NewValidationError("Invalid participant status")
	}
	if payment != nil && !validPaymentStatus(*payment) {
		return domain.Tal3a{}, NewValidationError("Invalid payment status")
	}

	updated, err := s.repo.UpdateMembership(ctx, tal3aID, func(t *domain.Tal3a) error {
		if !t.IsOrganizer(principal) {
			return ErrNotOrganizer
		}

		for i := range t.Participants {
			if t.Participants[i].UserID != userID {
				continue
			}
			if status != nil {
				t.Participants[i].Status = *status
			}
			if payment != nil {
				t.Participants[i].PaymentStatus = *payment
			}

			return nil
		}

		return ErrNotParticipant
	})
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.UpdateMembership -> %w", err)
	}

	return updated, nil
}

func removePrincipal(waitlist []string, principal string) []string {
	kept := make([]string, 0, len(waitlist))
	for _, w := range waitlist {
		if w != principal {
			kept = append(kept, w)
		}
	}

	return kept
}

func validParticipantStatus(status domain.ParticipantStatus) bool {
	switch status {
	case domain.ParticipantConfirmed, domain.ParticipantPending,
		domain.ParticipantWaitlisted, domain.ParticipantCancelled:
		return true
	}

	return false
}

func validPaymentStatus(status domain.PaymentStatus) bool {
	switch status {
	case domain.PaymentPaid, domain.PaymentPending,
		domain.PaymentRefunded, domain.PaymentNotRequired:
		return true
	}

	return false
}
