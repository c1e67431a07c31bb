package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tal3a-app/tal3a-api/internal/domain"
	"github.com/tal3a-app/tal3a-api/internal/repository"
)

var (
	ErrAdminRequestNotFound  = repository.ErrAdminRequestNotFound
	ErrAdminRequestExists    = repository.ErrAdminRequestExists
	ErrAdminRequestProcessed = errors.New("This request has already been processed")
	ErrPermissionDenied      = errors.New("You do not have permission to perform this action")
)

const minReasonLength = 10

type AdminRepository interface {
	CreateRequest(ctx context.Context, request domain.AdminRequest) (domain.AdminRequest, error)
	FindRequestByID(ctx context.Context, id string) (domain.AdminRequest, error)
	FindRequestByRequester(ctx context.Context, principal string) (domain.AdminRequest, error)
	FindAllRequests(ctx context.Context) ([]domain.AdminRequest, error)
	FindPendingRequests(ctx context.Context) ([]domain.AdminRequest, error)
	UpdateRequest(ctx context.Context, request domain.AdminRequest) (domain.AdminRequest, error)
	DeleteRequest(ctx context.Context, id string) error
	CreateOwner(ctx context.Context, owner domain.Owner) (domain.Owner, error)
	FindOwner(ctx context.Context, principal string) (domain.Owner, error)
	FindAllOwners(ctx context.Context) ([]domain.Owner, error)
	UpdateOwner(ctx context.Context, owner domain.Owner) (domain.Owner, error)
	DeleteOwner(ctx context.Context, principal string) error
	CountSuperAdmins(ctx context.Context) (int64, error)
}

type AdminRequestService struct {
	repo AdminRepository
}

func NewAdminRequestService(repo AdminRepository) *AdminRequestService {
	return &AdminRequestService{
		repo: repo,
	}
}

func (s *AdminRequestService) SubmitRequest(ctx context.Context, principal, name, reason string) (domain.AdminRequest, error) {
	if strings.TrimSpace(name) == "" {
		return domain.AdminRequest{}, NewValidationError("Name is required")
	}
	if len(strings.TrimSpace(reason)) < minReasonLength {
		return domain.AdminRequest{}, NewValidationError("Reason must be at least 10 characters")
	}

	if _, err := s.repo.FindOwner(ctx, principal); err == nil {
		return domain.AdminRequest{}, NewValidationError("You are already an owner")
	} else if !errors.Is(err, repository.ErrOwnerNotFound) {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.FindOwner -> %w", err)
	}

	now := time.Now()
	request := domain.AdminRequest{
		ID:          newRequestID(now),
		RequesterID: principal,
		Name:        strings.TrimSpace(name),
		Reason:      strings.TrimSpace(reason),
		Status:      domain.AdminRequestPending,
		RequestedAt: now,
	}

	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.CreateRequest -> %w", err)
	}

	return created, nil
}

func (s *AdminRequestService) GetMyRequest(ctx context.Context, principal string) (domain.AdminRequest, error) {
	found, err := s.repo.FindRequestByRequester(ctx, principal)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.FindRequestByRequester -> %w", err)
	}

	return found, nil
}

func (s *AdminRequestService) GetRequest(ctx context.Context, actor, id string) (domain.AdminRequest, error) {
	if _, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners); err != nil {
		return domain.AdminRequest{}, err
	}

	found, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.FindRequestByID -> %w", err)
	}

	return found, nil
}

func (s *AdminRequestService) ListRequests(ctx context.Context, actor string) ([]domain.AdminRequest, error) {
	if _, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners); err != nil {
		return nil, err
	}

	found, err := s.repo.FindAllRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllRequests -> %w", err)
	}

	return found, nil
}

func (s *AdminRequestService) ListPendingRequests(ctx context.Context, actor string) ([]domain.AdminRequest, error) {
	if _, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners); err != nil {
		return nil, err
	}

	found, err := s.repo.FindPendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPendingRequests -> %w", err)
	}

	return found, nil
}

// ApproveRequest grants the requested role with its default permission
// set and stamps the request, in that order. A failed owner insert
// leaves the request pending for a retry.
func (s *AdminRequestService) ApproveRequest(ctx context.Context, actor, id string, role domain.OwnerRole) (domain.AdminRequest, error) {
	approver, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners)
	if err != nil {
		return domain.AdminRequest{}, err
	}
	if role == domain.RoleSuperAdmin && approver.Role != domain.RoleSuperAdmin {
		return domain.AdminRequest{}, ErrPermissionDenied
	}
	if domain.DefaultPermissions(role) == nil {
		return domain.AdminRequest{}, NewValidationError("Invalid owner role")
	}

	request, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.FindRequestByID -> %w", err)
	}
	if request.Processed() {
		return domain.AdminRequest{}, ErrAdminRequestProcessed
	}

	now := time.Now()
	owner := domain.Owner{
		Principal:   request.RequesterID,
		Name:        request.Name,
		Role:        role,
		Permissions: domain.DefaultPermissions(role),
		CreatedAt:   now,
		CreatedBy:   actor,
	}
	if _, err := s.repo.CreateOwner(ctx, owner); err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.CreateOwner -> %w", err)
	}

	request.Status = domain.AdminRequestApproved
	request.ProcessedAt = &now
	request.ProcessedBy = &actor

	updated, err := s.repo.UpdateRequest(ctx, request)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.UpdateRequest -> %w", err)
	}

	return updated, nil
}

func (s *AdminRequestService) RejectRequest(ctx context.Context, actor, id string, reason *string) (domain.AdminRequest, error) {
	if _, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners); err != nil {
		return domain.AdminRequest{}, err
	}

	request, err := s.repo.FindRequestByID(ctx, id)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.FindRequestByID -> %w", err)
	}
	if request.Processed() {
		return domain.AdminRequest{}, ErrAdminRequestProcessed
	}

	now := time.Now()
	request.Status = domain.AdminRequestRejected
	request.ProcessedAt = &now
	request.ProcessedBy = &actor
	request.RejectionReason = reason

	updated, err := s.repo.UpdateRequest(ctx, request)
	if err != nil {
		return domain.AdminRequest{}, fmt.Errorf("s.repo.UpdateRequest -> %w", err)
	}

	return updated, nil
}

// DeleteRequest removes a request regardless of status so the
// requester can apply again. Rejected requests otherwise block
// re-application through the one-request-per-requester rule.
func (s *AdminRequestService) DeleteRequest(ctx context.Context, actor, id string) error {
	remover, err := requirePermission(ctx, s.repo, actor, domain.PermManageOwners)
	if err != nil {
		return err
	}
	if remover.Role != domain.RoleSuperAdmin {
		return ErrPermissionDenied
	}

	if _, err := s.repo.FindRequestByID(ctx, id); err != nil {
		return fmt.Errorf("s.repo.FindRequestByID -> %w", err)
	}

	if err := s.repo.DeleteRequest(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteRequest -> %w", err)
	}

	return nil
}

// CancelRequest withdraws the caller's own pending request.
func (s *AdminRequestService) CancelRequest(ctx context.Context, principal string) error {
	request, err := s.repo.FindRequestByRequester(ctx, principal)
	if err != nil {
		return fmt.Errorf("s.repo.FindRequestByRequester -> %w", err)
	}
	if request.Processed() {
		return ErrAdminRequestProcessed
	}

	if err := s.repo.DeleteRequest(ctx, request.ID); err != nil {
		return fmt.Errorf("s.repo.DeleteRequest -> %w", err)
	}

	return nil
}

func requirePermission(ctx context.Context, repo AdminRepository, principal string, perm domain.Permission) (domain.Owner, error) {
	owner, err := repo.FindOwner(ctx, principal)
	if err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return domain.Owner{}, ErrPermissionDenied
		}

		return domain.Owner{}, fmt.Errorf("repo.FindOwner -> %w", err)
	}

	if !owner.HasPermission(perm) {
		return domain.Owner{}, ErrPermissionDenied
	}

	return owner, nil
}

func newRequestID(now time.Time) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)

	return fmt.Sprintf("req_%d%s", now.UnixNano(), hex.EncodeToString(b))
}
