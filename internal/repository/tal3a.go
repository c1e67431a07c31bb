package repository

import (
	"context"
	"fmt"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository/dao"
)

var ErrTal3aNotFound = dao.ErrTal3aNotFound

type Tal3aDAO interface {
	Insert(ctx context.Context, tal3a dao.Tal3a) (dao.Tal3a, error)
	FindByID(ctx context.Context, id uint64) (dao.Tal3a, error)
	FindAll(ctx context.Context) ([]dao.Tal3a, error)
	FindByOrganizer(ctx context.Context, principal string) ([]dao.Tal3a, error)
	FindByParticipant(ctx context.Context, principal string) ([]dao.Tal3a, error)
	Update(ctx context.Context, tal3a dao.Tal3a) (dao.Tal3a, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
	UpdateMembership(ctx context.Context, id uint64, mutate func(*dao.Tal3a) error) (dao.Tal3a, error)
}

type Tal3aRepository struct {
	dao Tal3aDAO
}

func NewTal3aRepository(dao Tal3aDAO) *Tal3aRepository {
	return &Tal3aRepository{
		dao: dao,
	}
}

func (r *Tal3aRepository) Create(ctx context.Context, tal3a domain.Tal3a) (domain.Tal3a, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(tal3a))
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *Tal3aRepository) FindByID(ctx context.Context, id uint64) (domain.Tal3a, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *Tal3aRepository) FindAll(ctx context.Context) ([]domain.Tal3a, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *Tal3aRepository) FindByOrganizer(ctx context.Context, principal string) ([]domain.Tal3a, error) {
	found, err := r.dao.FindByOrganizer(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizer -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *Tal3aRepository) FindByParticipant(ctx context.Context, principal string) ([]domain.Tal3a, error) {
	found, err := r.dao.FindByParticipant(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParticipant -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *Tal3aRepository) Update(ctx context.Context, tal3a domain.Tal3a) (domain.Tal3a, error) {
	updated, err := r.dao.Update(ctx, r.domainToDAO(tal3a))
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *Tal3aRepository) UpdateStatus(ctx context.Context, id uint64, status domain.Tal3aStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *Tal3aRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// UpdateMembership applies mutate to the domain aggregate under the
// row lock held by the DAO. Errors returned by mutate abort the
// transaction and surface unchanged so the service keeps its sentinels.
func (r *Tal3aRepository) UpdateMembership(ctx context.Context, id uint64, mutate func(*domain.Tal3a) error) (domain.Tal3a, error) {
	updated, err := r.dao.UpdateMembership(ctx, id, func(t *dao.Tal3a) error {
		d := r.daoToDomain(*t)
		if err := mutate(&d); err != nil {
			return err
		}

		mapped := r.domainToDAO(d)
		mapped.CreatedAt = t.CreatedAt
		*t = mapped

		return nil
	})
	if err != nil {
		return domain.Tal3a{}, fmt.Errorf("r.dao.UpdateMembership -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *Tal3aRepository) daoToDomain(t dao.Tal3a) domain.Tal3a {
	participants := make([]domain.Participant, 0, len(t.Participants))
	for _, p := range t.Participants {
		participants = append(participants, domain.Participant{
			UserID:        p.UserID,
			JoinedAt:      p.JoinedAt,
			Status:        domain.ParticipantStatus(p.Status),
			PaymentStatus: domain.PaymentStatus(p.PaymentStatus),
			Notes:         p.Notes,
		})
	}

	waitlist := make([]string, 0, len(t.Waitlist))
	for _, w := range t.Waitlist {
		waitlist = append(waitlist, w.UserID)
	}

	return domain.Tal3a{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Sport:       domain.Sport(t.Sport),
		OrganizerID: t.OrganizerID,
		GroupID:     t.GroupID,
		Location: domain.Location{
			Latitude:      t.Latitude,
			Longitude:     t.Longitude,
			Address:       t.Address,
			CityID:        t.CityID,
			GovernorateID: t.GovernorateID,
			VenueName:     t.VenueName,
			VenueType:     t.VenueType,
		},
		StartTime:           t.StartTime,
		EndTime:             t.EndTime,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Participants:        participants,
		Waitlist:            waitlist,
		Status:              domain.Tal3aStatus(t.Status),
		Difficulty:          domain.DifficultyLevel(t.Difficulty),
		EntryFee:            t.EntryFee,
		Currency:            t.Currency,
		Tags:                t.Tags,
		ContactInfo:         t.ContactInfo,
		EmergencyContact:    t.EmergencyContact,
		ReviewsCount:        t.ReviewsCount,
		AverageRating:       t.AverageRating,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func (r *Tal3aRepository) daoToDomainSlice(tal3as []dao.Tal3a) []domain.Tal3a {
	result := make([]domain.Tal3a, 0, len(tal3as))
	for _, t := range tal3as {
		result = append(result, r.daoToDomain(t))
	}

	return result
}

func (r *Tal3aRepository) domainToDAO(t domain.Tal3a) dao.Tal3a {
	participants := make([]dao.Participant, 0, len(t.Participants))
	for _, p := range t.Participants {
		participants = append(participants, dao.Participant{
			Tal3aID:       t.ID,
			UserID:        p.UserID,
			JoinedAt:      p.JoinedAt,
			Status:        string(p.Status),
			PaymentStatus: string(p.PaymentStatus),
			Notes:         p.Notes,
		})
	}

	waitlist := make([]dao.WaitlistEntry, 0, len(t.Waitlist))
	for i, w := range t.Waitlist {
		waitlist = append(waitlist, dao.WaitlistEntry{
			Tal3aID:  t.ID,
			UserID:   w,
			Position: uint(i),
		})
	}

	return dao.Tal3a{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		Sport:               string(t.Sport),
		OrganizerID:         t.OrganizerID,
		GroupID:             t.GroupID,
		Latitude:            t.Location.Latitude,
		Longitude:           t.Location.Longitude,
		Address:             t.Location.Address,
		CityID:              t.Location.CityID,
		GovernorateID:       t.Location.GovernorateID,
		VenueName:           t.Location.VenueName,
		VenueType:           t.Location.VenueType,
		StartTime:           t.StartTime,
		EndTime:             t.EndTime,
		MaxParticipants:     t.MaxParticipants,
		CurrentParticipants: t.CurrentParticipants,
		Status:              string(t.Status),
		Difficulty:          string(t.Difficulty),
		EntryFee:            t.EntryFee,
		Currency:            t.Currency,
		Tags:                t.Tags,
		ContactInfo:         t.ContactInfo,
		EmergencyContact:    t.EmergencyContact,
		ReviewsCount:        t.ReviewsCount,
		AverageRating:       t.AverageRating,
		Participants:        participants,
		Waitlist:            waitlist,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
