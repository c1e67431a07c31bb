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
	ErrOwnerNotFound         = repository.ErrOwnerNotFound
	ErrOwnerExists           = repository.ErrOwnerExists
	ErrCannotRemoveSelf      = errors.New("You cannot remove yourself")
	ErrCannotEditSelf        = errors.New("You cannot change your own permissions")
	ErrCannotRemoveBootstrap = errors.New("The bootstrap super admin cannot be removed")
	ErrCannotEditBootstrap   = errors.New("The bootstrap super admin cannot be modified")
	ErrLastSuperAdmin        = errors.New("Cannot remove the last super admin")
)

type OwnerService struct {
	repo AdminRepository
}

func NewOwnerService(repo AdminRepository) *OwnerService {
	return &OwnerService{
		repo: repo,
	}
}

// Bootstrap installs the configured principal as the initial super
// admin. Safe to call on every startup.
func (s *OwnerService) Bootstrap(ctx context.Context, principal, name string) (domain.Owner, error) {
	existing, err := s.repo.FindOwner(ctx, principal)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrOwnerNotFound) {
		return domain.Owner{}, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}

	owner := domain.Owner{
		Principal:   principal,
		Name:        name,
		Role:        domain.RoleSuperAdmin,
		Permissions: domain.AllPermissions(),
		CreatedAt:   time.Now(),
		CreatedBy:   principal,
	}

	created, err := s.repo.CreateOwner(ctx, owner)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.CreateOwner -> %w", err)
	}

	return created, nil
}

func (s *OwnerService) AddOwner(ctx context.Context, actor, principal, name string, role domain.OwnerRole, permissions []domain.Permission) (domain.Owner, error) {
	granter, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners)
	if err != nil {
		return domain.Owner{}, err
	}
	if role == domain.RoleSuperAdmin && granter.Role != domain.RoleSuperAdmin {
		return domain.Owner{}, ErrPermissionDenied
	}

	if strings.TrimSpace(principal) == "" {
		return domain.Owner{}, NewValidationError("Principal is required")
	}
	if strings.TrimSpace(name) == "" {
		return domain.Owner{}, NewValidationError("Name is required")
	}
	if domain.DefaultPermissions(role) == nil {
		return domain.Owner{}, NewValidationError("Invalid owner role")
	}

	if len(permissions) == 0 {
		permissions = domain.DefaultPermissions(role)
	} else if err := validatePermissions(role, permissions); err != nil {
		return domain.Owner{}, err
	}

	owner := domain.Owner{
		Principal:   principal,
		Name:        strings.TrimSpace(name),
		Role:        role,
		Permissions: permissions,
		CreatedAt:   time.Now(),
		CreatedBy:   actor,
	}

	created, err := s.repo.CreateOwner(ctx, owner)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.CreateOwner -> %w", err)
	}

	return created, nil
}

// RemoveOwner enforces the platform's survival rules: the bootstrap
// super admin stays, nobody removes themselves, and at least one super
// admin must remain.
func (s *OwnerService) RemoveOwner(ctx context.Context, actor, principal string) error {
	remover, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners)
	if err != nil {
		return err
	}
	if actor == principal {
		return ErrCannotRemoveSelf
	}

	target, err := s.repo.FindOwner(ctx, principal)
	if err != nil {
		return fmt.Errorf("s.repo.FindOwner -> %w", err)
	}
	if target.IsBootstrap() {
		return ErrCannotRemoveBootstrap
	}
	if target.Role == domain.RoleSuperAdmin {
		if remover.Role != domain.RoleSuperAdmin {
			return ErrPermissionDenied
		}

		count, err := s.repo.CountSuperAdmins(ctx)
		if err != nil {
			return fmt.Errorf("s.repo.CountSuperAdmins -> %w", err)
		}
		if count <= 1 {
			return ErrLastSuperAdmin
		}
	}

	if err := s.repo.DeleteOwner(ctx, principal); err != nil {
		return fmt.Errorf("s.repo.DeleteOwner -> %w", err)
	}

	return nil
}

func (s *OwnerService) UpdatePermissions(ctx context.Context, actor, principal string, permissions []domain.Permission) (domain.Owner, error) {
	if _, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners); err != nil {
		return domain.Owner{}, err
	}
	if actor == principal {
		return domain.Owner{}, ErrCannotEditSelf
	}
	if len(permissions) == 0 {
		return domain.Owner{}, NewValidationError("At least one permission is required")
	}

	target, err := s.repo.FindOwner(ctx, principal)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}
	if target.IsBootstrap() {
		return domain.Owner{}, ErrCannotEditBootstrap
	}

	if err := validatePermissions(target.Role, permissions); err != nil {
		return domain.Owner{}, err
	}
	target.Permissions = permissions

	updated, err := s.repo.UpdateOwner(ctx, target)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.UpdateOwner -> %w", err)
	}

	return updated, nil
}

func (s *OwnerService) GetOwner(ctx context.Context, principal string) (domain.Owner, error) {
	found, err := s.repo.FindOwner(ctx, principal)
	if err != nil {
		return domain.Owner{}, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}

	return found, nil
}

func (s *OwnerService) ListOwners(ctx context.Context, actor string) ([]domain.Owner, error) {
	if _, err := s.repo.FindOwner(ctx, actor); err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return nil, ErrPermissionDenied
		}

		return nil, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}

	found, err := s.repo.FindAllOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllOwners -> %w", err)
	}

	return found, nil
}

// validatePermissions rejects grants outside what the role may hold.
// Admins never hold ManageOwners or SystemConfiguration; moderators
// only moderate and view analytics.
func validatePermissions(role domain.OwnerRole, permissions []domain.Permission) error {
	allowed := domain.AllPermissions()
	if role != domain.RoleSuperAdmin {
		allowed = domain.DefaultPermissions(role)
	}

	for _, p := range permissions {
		ok := false
		for _, a := range allowed {
			if p == a {
				ok = true
				break
			}
		}
		if !ok {
			return NewValidationError(fmt.Sprintf("Permission %q is not allowed for role %s", p, role))
		}
	}

	return nil
}
