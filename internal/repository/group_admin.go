package repository

import (
	"context"
	"fmt"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository/dao"
)

var (
	ErrGroupAdminNotFound = dao.ErrGroupAdminNotFound
	ErrGroupAdminExists   = dao.ErrGroupAdminExists
)

type GroupAdminDAO interface {
	Insert(ctx context.Context, admin dao.GroupAdmin) (dao.GroupAdmin, error)
	Find(ctx context.Context, groupID uint64, principal string) (dao.GroupAdmin, error)
	FindByGroup(ctx context.Context, groupID uint64) ([]dao.GroupAdmin, error)
	FindByPrincipal(ctx context.Context, principal string) ([]dao.GroupAdmin, error)
	UpdatePermissions(ctx context.Context, groupID uint64, principal string, permissions []string) error
	Delete(ctx context.Context, groupID uint64, principal string) error
}

type GroupAdminRepository struct {
	dao GroupAdminDAO
}

func NewGroupAdminRepository(dao GroupAdminDAO) *GroupAdminRepository {
	return &GroupAdminRepository{
		dao: dao,
	}
}

func (r *GroupAdminRepository) Create(ctx context.Context, admin domain.GroupAdmin) (domain.GroupAdmin, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(admin))
	if err != nil {
		return domain.GroupAdmin{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *GroupAdminRepository) Find(ctx context.Context, groupID uint64, principal string) (domain.GroupAdmin, error) {
	found, err := r.dao.Find(ctx, groupID, principal)
	if err != nil {
		return domain.GroupAdmin{}, fmt.Errorf("r.dao.Find -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GroupAdminRepository) FindByGroup(ctx context.Context, groupID uint64) ([]domain.GroupAdmin, error) {
	found, err := r.dao.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByGroup -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *GroupAdminRepository) FindByPrincipal(ctx context.Context, principal string) ([]domain.GroupAdmin, error) {
	found, err := r.dao.FindByPrincipal(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPrincipal -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *GroupAdminRepository) UpdatePermissions(ctx context.Context, groupID uint64, principal string, permissions []domain.GroupPermission) error {
	raw := make([]string, 0, len(permissions))
	for _, p := range permissions {
		raw = append(raw, string(p))
	}

	if err := r.dao.UpdatePermissions(ctx, groupID, principal, raw); err != nil {
		return fmt.Errorf("r.dao.UpdatePermissions -> %w", err)
	}

	return nil
}

func (r *GroupAdminRepository) Delete(ctx context.Context, groupID uint64, principal string) error {
	if err := r.dao.Delete(ctx, groupID, principal); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *GroupAdminRepository) daoToDomain(a dao.GroupAdmin) domain.GroupAdmin {
	permissions := make([]domain.GroupPermission, 0, len(a.Permissions))
	for _, p := range a.Permissions {
		permissions = append(permissions, domain.GroupPermission(p))
	}

	return domain.GroupAdmin{
		GroupID:     a.GroupID,
		Principal:   a.Principal,
		Name:        a.Name,
		Permissions: permissions,
		AddedAt:     a.AddedAt,
		AddedBy:     a.AddedBy,
	}
}

func (r *GroupAdminRepository) daoToDomainSlice(admins []dao.GroupAdmin) []domain.GroupAdmin {
	result := make([]domain.GroupAdmin, 0, len(admins))
	for _, a := range admins {
		result = append(result, r.daoToDomain(a))
	}

	return result
}

func (r *GroupAdminRepository) domainToDAO(a domain.GroupAdmin) dao.GroupAdmin {
	permissions := make([]string, 0, len(a.Permissions))
	for _, p := range a.Permissions {
		permissions = append(permissions, string(p))
	}

	return dao.GroupAdmin{
		GroupID:     a.GroupID,
		Principal:   a.Principal,
		Name:        a.Name,
		Permissions: permissions,
		AddedAt:     a.AddedAt,
		AddedBy:     a.AddedBy,
	}
}
