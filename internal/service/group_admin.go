package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

var (
	ErrGroupAdminNotFound = repository.ErrGroupAdminNotFound
	ErrGroupAdminExists   = repository.ErrGroupAdminExists
)

type GroupAdminRepository interface {
	Create(ctx context.Context, admin domain.GroupAdmin) (domain.GroupAdmin, error)
	Find(ctx context.Context, groupID uint64, principal string) (domain.GroupAdmin, error)
	FindByGroup(ctx context.Context, groupID uint64) ([]domain.GroupAdmin, error)
	FindByPrincipal(ctx context.Context, principal string) ([]domain.GroupAdmin, error)
	UpdatePermissions(ctx context.Context, groupID uint64, principal string, permissions []domain.GroupPermission) error
	Delete(ctx context.Context, groupID uint64, principal string) error
}

// GroupAdminService delegates per-group moderation. Mutations are open
// to platform owners holding ManageGroups and to group admins of the
// same group holding ManageMembers.
type GroupAdminService struct {
	repo      GroupAdminRepository
	adminRepo AdminRepository
}

func NewGroupAdminService(repo GroupAdminRepository, adminRepo AdminRepository) *GroupAdminService {
	return &GroupAdminService{
		repo:      repo,
		adminRepo: adminRepo,
	}
}

func (s *GroupAdminService) AddGroupAdmin(ctx context.Context, actor string, groupID uint64, principal, name string, permissions []domain.GroupPermission) (domain.GroupAdmin, error) {
	if err := s.authorize(ctx, actor, groupID, domain.GroupPermManageMembers); err != nil {
		return domain.GroupAdmin{}, err
	}

	if strings.TrimSpace(principal) == "" {
		return domain.GroupAdmin{}, NewValidationError("Principal is required")
	}
	if strings.TrimSpace(name) == "" {
		return domain.GroupAdmin{}, NewValidationError("Name is required")
	}
	if err := validateGroupPermissions(permissions); err != nil {
		return domain.GroupAdmin{}, err
	}

	admin := domain.GroupAdmin{
		GroupID:     groupID,
		Principal:   principal,
		Name:        strings.TrimSpace(name),
		Permissions: permissions,
		AddedAt:     time.Now(),
		AddedBy:     actor,
	}

	created, err := s.repo.Create(ctx, admin)
	if err != nil {
		return domain.GroupAdmin{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *GroupAdminService) RemoveGroupAdmin(ctx context.Context, actor string, groupID uint64, principal string) error {
	if err := s.authorize(ctx, actor, groupID, domain.GroupPermManageMembers); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, groupID, principal); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *GroupAdminService) UpdateGroupPermissions(ctx context.Context, actor string, groupID uint64, principal string, permissions []domain.GroupPermission) (domain.GroupAdmin, error) {
	if err := s.authorize(ctx, actor, groupID, domain.GroupPermManageMembers); err != nil {
		return domain.GroupAdmin{}, err
	}
	if err := validateGroupPermissions(permissions); err != nil {
		return domain.GroupAdmin{}, err
	}

	if err := s.repo.UpdatePermissions(ctx, groupID, principal, permissions); err != nil {
		return domain.GroupAdmin{}, fmt.Errorf("s.repo.UpdatePermissions -> %w", err)
	}

	updated, err := s.repo.Find(ctx, groupID, principal)
	if err != nil {
		return domain.GroupAdmin{}, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return updated, nil
}

func (s *GroupAdminService) ListGroupAdmins(ctx context.Context, actor string, groupID uint64) ([]domain.GroupAdmin, error) {
	if err := s.authorize(ctx, actor, groupID, domain.GroupPermViewGroupAnalytics); err != nil {
		return nil, err
	}

	found, err := s.repo.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByGroup -> %w", err)
	}

	return found, nil
}

// GetMyGroupRoles lists the caller's own group admin entries across all
// groups. No authorization beyond authentication.
func (s *GroupAdminService) GetMyGroupRoles(ctx context.Context, principal string) ([]domain.GroupAdmin, error) {
	found, err := s.repo.FindByPrincipal(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByPrincipal -> %w", err)
	}

	return found, nil
}

func (s *GroupAdminService) authorize(ctx context.Context, actor string, groupID uint64, perm domain.GroupPermission) error {
	owner, err := s.adminRepo.FindOwner(ctx, actor)
	if err == nil && owner.HasPermission(domain.PermManageGroups) {
		return nil
	}
	if err != nil && !errors.Is(err, repository.ErrOwnerNotFound) {
		return fmt.Errorf("s.adminRepo.FindOwner -> %w", err)
	}

	admin, err := s.repo.Find(ctx, groupID, actor)
	if err != nil {
		if errors.Is(err, repository.ErrGroupAdminNotFound) {
			return ErrPermissionDenied
		}

		return fmt.Errorf("s.repo.Find -> %w", err)
	}
	if !admin.HasPermission(perm) {
		return ErrPermissionDenied
	}

	return nil
}

func validateGroupPermissions(permissions []domain.GroupPermission) error {
	if len(permissions) == 0 {
		return NewValidationError("At least one permission is required")
	}
	for _, p := range permissions {
		if !domain.ValidGroupPermission(p) {
			return NewValidationError(fmt.Sprintf("Invalid group permission %q", p))
		}
	}

	return nil
}
