package repository

import (
	"context"
	"fmt"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository/dao"
)

var (
	ErrAdminRequestNotFound = dao.ErrAdminRequestNotFound
	ErrAdminRequestExists   = dao.ErrAdminRequestExists
	ErrOwnerNotFound        = dao.ErrOwnerNotFound
	ErrOwnerExists          = dao.ErrOwnerExists
)

type AdminDAO interface {
	InsertRequest(ctx context.Context, request dao.AdminRequest) (dao.AdminRequest, error)
	FindRequestByID(ctx context.Context, id string) (dao.AdminRequest, error)
	FindRequestByRequester(ctx context.Context, principal string) (dao.AdminRequest, error)
	FindAllRequests(ctx context.Context) ([]dao.AdminRequest, error)
	FindPendingRequests(ctx context.Context) ([]dao.AdminRequest, error)
	UpdateRequest(ctx context.Context, request dao.AdminRequest) (dao.AdminRequest, error)
	DeleteRequest(ctx context.Context, id string) error
	InsertOwner(ctx context.Context, owner dao.Owner) (dao.Owner, error)
	FindOwner(ctx context.Context, principal string) (dao.Owner, error)
	FindAllOwners(ctx context.Context) ([]dao.Owner, error)
	UpdateOwner(ctx context.Context, owner dao.Owner) (dao.Owner, error)
	DeleteOwner(ctx context.Context, principal string) error
	CountSuperAdmins(ctx context.Context) (int64, error)
}

type AdminRepository struct {
	dao AdminDAO
}

func NewAdminRepository(dao AdminDAO) *AdminRepository {
	return &AdminRepository{
		dao: dao,
	}
}

func (r *AdminRepository) CreateRequest(ctx context.Context, request domain.AdminRequest) (domain.AdminRequest, error) {
	created, err := r.dao.InsertRequest(ctx, r.requestDomainToDAO(request))
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("r.dao.InsertRequest -> %w", err)
	}

	return r.requestDAOToDomain(created), nil
}

func (r *AdminRepository) FindRequestByID(ctx context.Context, id string) (domain.AdminRequest, error) {
	found, err := r.dao.FindRequestByID(ctx, id)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("r.dao.FindRequestByID -> %w", err)
	}

	return r.requestDAOToDomain(found), nil
}

func (r *AdminRepository) FindRequestByRequester(ctx context.Context, principal string) (domain.AdminRequest, error) {
	found, err := r.dao.FindRequestByRequester(ctx, principal)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("r.dao.FindRequestByRequester -> %w", err)
	}

	return r.requestDAOToDomain(found), nil
}

func (r *AdminRepository) FindAllRequests(ctx context.Context) ([]domain.AdminRequest, error) {
	found, err := r.dao.FindAllRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllRequests -> %w", err)
	}

	return r.requestDAOToDomainSlice(found), nil
}

func (r *AdminRepository) FindPendingRequests(ctx context.Context) ([]domain.AdminRequest, error) {
	found, err := r.dao.FindPendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPendingRequests -> %w", err)
	}

	return r.requestDAOToDomainSlice(found), nil
}

func (r *AdminRepository) UpdateRequest(ctx context.Context, request domain.AdminRequest) (domain.AdminRequest, error) {
	updated, err := r.dao.UpdateRequest(ctx, r.requestDomainToDAO(request))
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("r.dao.UpdateRequest -> %w", err)
	}

	return r.requestDAOToDomain(updated), nil
}

func (r *AdminRepository) DeleteRequest(ctx context.Context, id string) error {
	if err := r.dao.DeleteRequest(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteRequest -> %w", err)
	}

	return nil
}

func (r *AdminRepository) CreateOwner(ctx context.Context, owner domain.Owner) (domain.Owner, error) {
	created, err := r.dao.InsertOwner(ctx, r.ownerDomainToDAO(owner))
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.InsertOwner -> %w", err)
	}

	return r.ownerDAOToDomain(created), nil
}

func (r *AdminRepository) FindOwner(ctx context.Context, principal string) (domain.Owner, error) {
	found, err := r.dao.FindOwner(ctx, principal)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.FindOwner -> %w", err)
	}

	return r.ownerDAOToDomain(found), nil
}

func (r *AdminRepository) FindAllOwners(ctx context.Context) ([]domain.Owner, error) {
	found, err := r.dao.FindAllOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllOwners -> %w", err)
	}

	owners := make([]domain.Owner, 0, len(found))
	for _, o := range found {
		owners = append(owners, r.ownerDAOToDomain(o))
	}

	return owners, nil
}

func (r *AdminRepository) UpdateOwner(ctx context.Context, owner domain.Owner) (domain.Owner, error) {
	updated, err := r.dao.UpdateOwner(ctx, r.ownerDomainToDAO(owner))
	if err != nil {
		return domain.Owner{}, fmt.Errorf("r.dao.UpdateOwner -> %w", err)
	}

	return r.ownerDAOToDomain(updated), nil
}

func (r *AdminRepository) DeleteOwner(ctx context.Context, principal string) error {
	if err := r.dao.DeleteOwner(ctx, principal); err != nil {
		return fmt.Errorf("r.dao.DeleteOwner -> %w", err)
	}

	return nil
}

func (r *AdminRepository) CountSuperAdmins(ctx context.Context) (int64, error) {
	count, err := r.dao.CountSuperAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountSuperAdmins -> %w", err)
	}

	return count, nil
}

func (r *AdminRepository) requestDAOToDomain(a dao.AdminRequest) domain.AdminRequest {
	return domain.AdminRequest{
		ID:              a.ID,
		RequesterID:     a.RequesterID,
		Name:            a.Name,
		Reason:          a.Reason,
		Status:          domain.AdminRequestStatus(a.Status),
		RequestedAt:     a.RequestedAt,
		ProcessedAt:     a.ProcessedAt,
		ProcessedBy:     a.ProcessedBy,
		RejectionReason: a.RejectionReason,
	}
}

func (r *AdminRepository) requestDAOToDomainSlice(requests []dao.AdminRequest) []domain.AdminRequest {
	result := make([]domain.AdminRequest, 0, len(requests))
	for _, a := range requests {
		result = append(result, r.requestDAOToDomain(a))
	}

	return result
}

func (r *AdminRepository) requestDomainToDAO(a domain.AdminRequest) dao.AdminRequest {
	return dao.AdminRequest{
		ID:              a.ID,
		RequesterID:     a.RequesterID,
		Name:            a.Name,
		Reason:          a.Reason,
		Status:          string(a.Status),
		RequestedAt:     a.RequestedAt,
		ProcessedAt:     a.ProcessedAt,
		ProcessedBy:     a.ProcessedBy,
		RejectionReason: a.RejectionReason,
	}
}

func (r *AdminRepository) ownerDAOToDomain(o dao.Owner) domain.Owner {
	permissions := make([]domain.Permission, 0, len(o.Permissions))
	for _, p := range o.Permissions {
		permissions = append(permissions, domain.Permission(p))
	}

	return domain.Owner{
		Principal:   o.Principal,
		Name:        o.Name,
		Role:        domain.OwnerRole(o.Role),
		Permissions: permissions,
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
	}
}

func (r *AdminRepository) ownerDomainToDAO(o domain.Owner) dao.Owner {
	permissions := make([]string, 0, len(o.Permissions))
	for _, p := range o.Permissions {
		permissions = append(permissions, string(p))
	}

	return dao.Owner{
		Principal:   o.Principal,
		Name:        o.Name,
		Role:        string(o.Role),
		Permissions: permissions,
		CreatedAt:   o.CreatedAt,
		CreatedBy:   o.CreatedBy,
	}
}
