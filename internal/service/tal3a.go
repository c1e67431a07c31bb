package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

var (
	ErrTal3aNotFound = repository.ErrTal3aNotFound
	ErrNotOrganizer  = errors.New("only the organizer can modify this Tal3a")
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxAddressLength     = 500
	maxDuration          = 30 * 24 * time.Hour
	maxCapacity          = 1000
	maxEntryFee          = 1_000_000 // piasters
)

type Tal3aRepository interface {
	Create(ctx context.Context, tal3a domain.Tal3a) (domain.Tal3a, error)
	FindByID(ctx context.Context, id uint64) (domain.Tal3a, error)
	FindAll(ctx context.Context) ([]domain.Tal3a, error)
	FindByOrganizer(ctx context.Context, principal string) ([]domain.Tal3a, error)
	FindByParticipant(ctx context.Context, principal string) ([]domain.Tal3a, error)
	Update(ctx context.Context, tal3a domain.Tal3a) (domain.Tal3a, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.Tal3aStatus) error
	Delete(ctx context.Context, id uint64) error
	UpdateMembership(ctx context.Context, id uint64, mutate func(*domain.Tal3a) error) (domain.Tal3a, error)
}

type Tal3aService struct {
	repo Tal3aRepository
}

func NewTal3aService(repo Tal3aRepository) *Tal3aService {
	return &Tal3aService{
		repo: repo,
	}
}

func (s *Tal3aService) CreateTal3a(ctx context.Context, principal string, tal3a domain.Tal3a) (domain.Tal3a, error) {
	if err := validateTal3a(&tal3a, time.Now()); err != nil {
		return domain.Tal3a{}, err
	}

	now := time.Now()
	tal3a.OrganizerID = principal
	tal3a.Status = domain.StatusPlanned
	tal3a.CurrentParticipants = 0
	tal3a.Participants = nil
	tal3a.Waitlist = nil
	tal3a.ReviewsCount = 0
	tal3a.AverageRating = "0.0"
	if tal3a.Currency == "" {
		tal3a.Currency = "EGP"
	}
	tal3a.CreatedAt = now
	tal3a.UpdatedAt = now

	created, err := s.repo.Create(ctx, tal3a)
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *Tal3aService) GetTal3a(ctx context.Context, id uint64) (domain.Tal3a, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return found, nil
}

// ListTal3as filters in memory after loading the full set. The event
// volume per deployment stays small enough that pushing every filter
// combination into SQL is not worth the surface.
func (s *Tal3aService) ListTal3as(ctx context.Context, filter *domain.Tal3aFilter) ([]domain.Tal3a, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	result := make([]domain.Tal3a, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			result = append(result, all[i])
		}
	}

	return result, nil
}

func (s *Tal3aService) UpdateTal3a(ctx context.Context, principal string, id uint64, update domain.Tal3aUpdate) (domain.Tal3a, error) {
	tal3a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !tal3a.IsOrganizer(principal) {
		return domain.Tal3a{}, ErrNotOrganizer
	}
	if tal3a.Status == domain.StatusCompleted || tal3a.Status == domain.StatusCancelled {
		return domain.Tal3a{}, NewValidationError("Completed or cancelled Tal3as cannot be updated")
	}

	if err := applyTal3aUpdate(&tal3a, update); err != nil {
		return domain.Tal3a{}, err
	}
	tal3a.UpdatedAt = time.Now()

	updated, err := s.repo.Update(ctx, tal3a)
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *Tal3aService) UpdateTal3aStatus(ctx context.Context, principal string, id uint64, status domain.Tal3aStatus) error {
	if !validStatus(status) {
		return NewValidationError("Invalid Tal3a status")
	}

	tal3a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !tal3a.IsOrganizer(principal) {
		return ErrNotOrganizer
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

func (s *Tal3aService) DeleteTal3a(ctx context.Context, principal string, id uint64) error {
	tal3a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !tal3a.IsOrganizer(principal) {
		return ErrNotOrganizer
	}
	if !tal3a.StartTime.After(time.Now()) {
		return NewValidationError("Cannot delete a Tal3a that has already started")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *Tal3aService) GetOrganizedTal3as(ctx context.Context, principal string) ([]domain.Tal3a, error) {
	found, err := s.repo.FindByOrganizer(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizer -> %w", err)
	}

	return found, nil
}

func (s *Tal3aService) GetJoinedTal3as(ctx context.Context, principal string) ([]domain.Tal3a, error) {
	found, err := s.repo.FindByParticipant(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParticipant -> %w", err)
	}

	return found, nil
}

func applyTal3aUpdate(tal3a *domain.Tal3a, update domain.Tal3aUpdate) error {
	if update.Title != nil {
		if err := validateTitle(*update.Title); err != nil {
			return err
		}
		tal3a.Title = *update.Title
	}
	if update.Description != nil {
		if err := validateDescription(*update.Description); err != nil {
			return err
		}
		tal3a.Description = *update.Description
	}
	if update.Location != nil {
		if err := validateLocation(*update.Location); err != nil {
			return err
		}
		tal3a.Location = *update.Location
	}
	if update.StartTime != nil {
		if update.StartTime.Before(time.Now()) {
			return NewValidationError("Start time must be in the future")
		}
		tal3a.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		tal3a.EndTime = *update.EndTime
	}
	if !tal3a.EndTime.After(tal3a.StartTime) {
		return NewValidationError("End time must be after start time")
	}
	if tal3a.EndTime.Sub(tal3a.StartTime) > maxDuration {
		return NewValidationError("Tal3a duration cannot exceed 30 days")
	}
	if update.MaxParticipants != nil {
		if *update.MaxParticipants < 1 || *update.MaxParticipants > maxCapacity {
			return NewValidationError("Max participants must be between 1 and 1000")
		}
		if *update.MaxParticipants < tal3a.CurrentParticipants {
			return NewValidationError("Max participants cannot be reduced below the current participant count")
		}
		tal3a.MaxParticipants = *update.MaxParticipants
	}
	if update.Difficulty != nil {
		if !validDifficulty(*update.Difficulty) {
			return NewValidationError("Invalid difficulty level")
		}
		tal3a.Difficulty = *update.Difficulty
	}
	if update.EntryFee != nil {
		if *update.EntryFee > maxEntryFee {
			return NewValidationError("Entry fee cannot exceed 1,000,000 piasters")
		}
		tal3a.EntryFee = *update.EntryFee
	}
	if update.Currency != nil {
		tal3a.Currency = *update.Currency
	}
	if update.Tags != nil {
		tal3a.Tags = *update.Tags
	}
	if update.ContactInfo != nil {
		tal3a.ContactInfo = update.ContactInfo
	}
	if update.EmergencyContact != nil {
		tal3a.EmergencyContact = update.EmergencyContact
	}

	return nil
}

func validateTal3a(tal3a *domain.Tal3a, now time.Time) error {
	if err := validateTitle(tal3a.Title); err != nil {
		return err
	}
	if err := validateDescription(tal3a.Description); err != nil {
		return err
	}
	if !validSport(tal3a.Sport) {
		return NewValidationError("Invalid sport")
	}
	if err := validateLocation(tal3a.Location); err != nil {
		return err
	}
	if !tal3a.StartTime.After(now) {
		return NewValidationError("Start time must be in the future")
	}
	if !tal3a.EndTime.After(tal3a.StartTime) {
		return NewValidationError("End time must be after start time")
	}
	if tal3a.EndTime.Sub(tal3a.StartTime) > maxDuration {
		return NewValidationError("Tal3a duration cannot exceed 30 days")
	}
	if tal3a.MaxParticipants < 1 || tal3a.MaxParticipants > maxCapacity {
		return NewValidationError("Max participants must be between 1 and 1000")
	}
	if !validDifficulty(tal3a.Difficulty) {
		return NewValidationError("Invalid difficulty level")
	}
	if tal3a.EntryFee > maxEntryFee {
		return NewValidationError("Entry fee cannot exceed 1,000,000 piasters")
	}

	return nil
}

func validateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(trimmed) > maxTitleLength {
		return NewValidationError("Title must be between 1 and 200 characters")
	}

	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return NewValidationError("Description cannot be empty")
	}
	if len(description) > maxDescriptionLength {
		return NewValidationError("Description cannot exceed 2000 characters")
	}

	return nil
}

func validateLocation(loc domain.Location) error {
	lat, err := strconv.ParseFloat(loc.Latitude, 64)
	if err != nil || lat < -90 || lat > 90 {
		return NewValidationError("Latitude must be between -90 and 90")
	}

	lng, err := strconv.ParseFloat(loc.Longitude, 64)
	if err != nil || lng < -180 || lng > 180 {
		return NewValidationError("Longitude must be between -180 and 180")
	}

	address := strings.TrimSpace(loc.Address)
	if address == "" || len(address) > maxAddressLength {
		return NewValidationError("Address must be between 1 and 500 characters")
	}

	return nil
}

func validSport(sport domain.Sport) bool {
	switch sport {
	case domain.SportFootball, domain.SportBasketball, domain.SportTennis,
		domain.SportCycling, domain.SportRunning, domain.SportSwimming:
		return true
	}

	return false
}

func validStatus(status domain.Tal3aStatus) bool {
	switch status {
	case domain.StatusPlanned, domain.StatusActive, domain.StatusCompleted,
		domain.StatusCancelled, domain.StatusPostponed:
		return true
	}

	return false
}

func validDifficulty(difficulty domain.DifficultyLevel) bool {
	switch difficulty {
	case domain.DifficultyBeginner, domain.DifficultyIntermediate,
		domain.DifficultyAdvanced, domain.DifficultyProfessional:
		return true
	}

	return false
}
